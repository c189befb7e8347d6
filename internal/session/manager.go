package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/soniaklein/HRF-Dashboard/internal/model"
)

// DefaultID is the session the WebSocket hub broadcasts and the one the
// reference single-user dashboard flow maps to.
const DefaultID = "default"

// entry pairs a live model with the time it was last touched.
type entry struct {
	model    *model.Model
	lastUsed time.Time
}

// Manager owns one live Model per session ID. Models persist across requests
// within a session; a background loop (Run) evicts sessions idle longer than
// the configured TTL.
//
// Model itself is not safe for concurrent use, so all access goes through
// Do, which serializes callers. Manager is safe for concurrent use.
type Manager struct {
	ttl        time.Duration
	thresholds map[string]float64 // optional override, nil = model defaults
	now        func() time.Time   // injectable for deterministic tests

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewManager creates a Manager with the given idle TTL. thresholds, when
// non-nil, replaces the model's default homeostasis limit table for every
// session it creates.
func NewManager(ttl time.Duration, thresholds map[string]float64) *Manager {
	return &Manager{
		ttl:        ttl,
		thresholds: thresholds,
		now:        time.Now,
		sessions:   make(map[string]*entry),
	}
}

// Do runs fn with the model for the given session, creating the session on
// first use. Calls are serialized, so fn may freely mutate the model.
func (m *Manager) Do(id string, fn func(*model.Model)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		e = &entry{model: model.NewWith(m.thresholds, nil)}
		m.sessions[id] = e
	}
	e.lastUsed = m.now()
	fn(e.model)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Evict removes sessions idle longer than the TTL as of now.
// It returns the number of sessions removed.
func (m *Manager) Evict(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := now.Add(-m.ttl)
	removed := 0
	for id, e := range m.sessions {
		if !e.lastUsed.After(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Run starts the background TTL eviction loop. It ticks at half the TTL
// interval (minimum 1 second) so idle sessions are released promptly.
// Run blocks until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	interval := m.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := m.Evict(now); n > 0 {
				slog.Debug("session: evicted idle sessions", "count", n)
			}
		}
	}
}
