package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// Store owns the active ruleset snapshot and its persistence. Readers
// take a snapshot with Snapshot and keep using it for the duration of
// one event; Update merges, persists, and swaps atomically, so an
// admitted event never observes a half-applied document.
type Store struct {
	path string

	mu  sync.Mutex // serializes Update; snapshot reads are lock-free
	cur atomic.Pointer[Ruleset]
}

// NewStore loads the document at path. A missing file yields defaults
// silently; a malformed file yields defaults plus the parse error so
// the caller can log it. Neither case is fatal.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		s.cur.Store(Default())
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("rules: read %s: %w", path, err)
	}

	rs := Default()
	if err := json.Unmarshal(data, rs); err != nil {
		s.cur.Store(Default())
		return s, fmt.Errorf("rules: parse %s: %w", path, err)
	}
	s.cur.Store(rs)
	return s, nil
}

// Snapshot returns the active ruleset. The returned value must be
// treated as immutable.
func (s *Store) Snapshot() *Ruleset {
	return s.cur.Load()
}

// Update merges u into the active ruleset, persists the merged
// document, and publishes it as the new snapshot. The snapshot is only
// swapped after the document reaches disk.
func (s *Store) Update(u Update) (*Ruleset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.cur.Load().merge(u)
	if err := s.persist(merged); err != nil {
		return nil, err
	}
	s.cur.Store(merged)
	return merged, nil
}

// persist writes the document atomically: tmp file -> fsync -> rename.
func (s *Store) persist(rs *Ruleset) error {
	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return fmt.Errorf("rules: marshal: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("rules: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".raido-rules-*")
	if err != nil {
		return fmt.Errorf("rules: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("rules: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("rules: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("rules: close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("rules: rename: %w", err)
	}
	success = true
	return nil
}
