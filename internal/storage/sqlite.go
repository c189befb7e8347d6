package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/soniaklein/HRF-Dashboard/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS interventions (
	id          TEXT PRIMARY KEY,
	session_id  TEXT NOT NULL,
	name        TEXT NOT NULL,
	applied_at  TEXT NOT NULL,
	values_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_interventions_session
	ON interventions(session_id, applied_at);
`

// Store is a write-behind audit log of applied interventions backed by
// SQLite. The model never reads it back — it exists so operators can inspect
// what was applied after sessions are evicted.
type Store struct {
	db        *sql.DB
	retention time.Duration
}

// Open opens (or creates) the SQLite database at path and runs migrations.
func Open(path string, retention time.Duration) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("storage: pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	return &Store{db: db, retention: retention}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append records one applied intervention.
func (s *Store) Append(session string, rec model.Record) error {
	values, err := json.Marshal(rec.Values)
	if err != nil {
		return fmt.Errorf("storage: encode values: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO interventions (id, session_id, name, applied_at, values_json)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID, session, rec.Name, rec.Timestamp.UTC().Format(time.RFC3339Nano), string(values),
	)
	if err != nil {
		return fmt.Errorf("storage: insert intervention: %w", err)
	}
	return nil
}

// CountBySession returns the number of audit rows recorded for a session.
func (s *Store) CountBySession(session string) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM interventions WHERE session_id = ?`, session,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("storage: count: %w", err)
	}
	return n, nil
}

// Prune deletes audit rows older than the retention window as of now.
// It returns the number of rows removed.
func (s *Store) Prune(now time.Time) (int64, error) {
	cutoff := now.Add(-s.retention).UTC().Format(time.RFC3339Nano)
	res, err := s.db.Exec(`DELETE FROM interventions WHERE applied_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("storage: prune: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Run starts the background retention pruning loop. It ticks hourly and
// blocks until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n, err := s.Prune(now); err != nil {
				slog.Error("storage: prune failed", "err", err)
			} else if n > 0 {
				slog.Debug("storage: pruned audit rows", "count", n)
			}
		}
	}
}
