// Package session keeps one live resilience model per session ID with
// TTL-based eviction of idle sessions.
package session
