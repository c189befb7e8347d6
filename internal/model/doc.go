// Package model implements the homeostatic resilience model: a cumulative
// metric accumulator with an append-only intervention log and two derived
// reports — threshold-based homeostasis status and SDG alignment scores.
//
// metrics.go defines the fixed metric set and the static threshold and SDG
// target tables. model.go holds the accumulator and the pure read
// operations. table.go renders the log as fixed-width rows for export.
package model
