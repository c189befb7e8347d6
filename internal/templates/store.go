package templates

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// Impacts maps metric names to the delta an intervention applies to each.
type Impacts map[string]float64

// Builtin returns the shipped policy templates. They are always available
// and cannot be deleted; a saved template with the same name shadows them.
func Builtin() map[string]Impacts {
	return map[string]Impacts{
		"Aggressive Decarbonization": {
			"carbon_emissions":              -50000,
			"affordable_housing_units":      5000,
			"green_jobs_created":            200,
			"policy_adaptability_score":     0.3,
			"community_participation_score": 0.2,
		},
		"Green Housing & Jobs": {
			"carbon_emissions":              -20000,
			"affordable_housing_units":      10000,
			"green_jobs_created":            750,
			"policy_adaptability_score":     0.15,
			"community_participation_score": 0.25,
		},
		"Community-Led Retrofits": {
			"carbon_emissions":              -10000,
			"affordable_housing_units":      3000,
			"green_jobs_created":            500,
			"policy_adaptability_score":     0.2,
			"community_participation_score": 0.4,
		},
	}
}

// Store merges the builtin templates with a JSON file of saved templates.
// Save rewrites the whole file; Delete removes one saved entry. The file is
// the source of truth for user templates — a name collision with a builtin
// resolves in favor of the file.
//
// Store is safe for concurrent use.
type Store struct {
	path string

	mu    sync.RWMutex
	saved map[string]Impacts
}

// NewStore creates a Store backed by the JSON file at path and loads it.
// A missing file is not an error — the store starts with builtins only.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, saved: make(map[string]Impacts)}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the backing file, replacing the in-memory saved set.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.mu.Lock()
		s.saved = make(map[string]Impacts)
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("templates: read file: %w", err)
	}

	saved := make(map[string]Impacts)
	if err := json.Unmarshal(data, &saved); err != nil {
		return fmt.Errorf("templates: parse json: %w", err)
	}

	s.mu.Lock()
	s.saved = saved
	s.mu.Unlock()
	return nil
}

// List returns all templates, builtins merged with saved entries (saved wins
// on name collision). Names returns the same set in sorted order.
func (s *Store) List() map[string]Impacts {
	out := Builtin()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for name, imp := range s.saved {
		out[name] = clone(imp)
	}
	return out
}

// Names returns all template names in sorted order.
func (s *Store) Names() []string {
	all := s.List()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the template with the given name, if present.
func (s *Store) Get(name string) (Impacts, bool) {
	s.mu.RLock()
	if imp, ok := s.saved[name]; ok {
		s.mu.RUnlock()
		return clone(imp), true
	}
	s.mu.RUnlock()

	imp, ok := Builtin()[name]
	return imp, ok
}

// Save stores or replaces a saved template and rewrites the backing file.
func (s *Store) Save(name string, impacts Impacts) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[name] = clone(impacts)
	return s.flush()
}

// Delete removes a saved template and rewrites the backing file. Deleting a
// name that only exists as a builtin (or not at all) is a no-op.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.saved[name]; !ok {
		return nil
	}
	delete(s.saved, name)
	return s.flush()
}

// flush writes the full saved set back to the file. Callers must hold mu.
func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.saved, "", "  ")
	if err != nil {
		return fmt.Errorf("templates: encode json: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("templates: write file: %w", err)
	}
	return nil
}

func clone(imp Impacts) Impacts {
	out := make(Impacts, len(imp))
	for k, v := range imp {
		out[k] = v
	}
	return out
}
