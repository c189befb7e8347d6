// Package config loads the YAML configuration for the hrf server and CLI,
// fills defaults, validates structural constraints, and supports hot reload
// via fsnotify.
package config
