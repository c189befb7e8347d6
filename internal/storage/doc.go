// Package storage persists an optional SQLite audit log of applied
// interventions with retention-based pruning.
package storage
