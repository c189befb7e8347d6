// Package ws streams the default session's evaluation snapshot to dashboard
// clients over WebSocket.
package ws
