// Package alerts evaluates configured threshold rules against evaluation
// snapshots and delivers webhook notifications on fire and resolve.
package alerts
