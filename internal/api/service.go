package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/history"
	"github.com/starford/raido/internal/organize"
	"github.com/starford/raido/internal/rules"
)

// Service bundles the components the control surface operates on.
type Service struct {
	store *rules.Store
	mgr   *organize.Manager
	org   *organize.Organizer
	hist  history.Recorder
}

// NewService creates a Service. hist may be nil when no activity log
// is configured.
func NewService(store *rules.Store, mgr *organize.Manager, org *organize.Organizer, hist history.Recorder) *Service {
	return &Service{store: store, mgr: mgr, org: org, hist: hist}
}

// Status reports the monitor state and the configured watchlist.
func (s *Service) Status() StatusResponse {
	running := s.mgr.Running()
	status := "stopped"
	if running {
		status = "running"
	}
	return StatusResponse{
		Status:     status,
		Monitoring: running,
		Watchlist:  s.store.Snapshot().Watchlist,
	}
}

// StartMonitor starts watching the configured directories.
func (s *Service) StartMonitor() error {
	return s.mgr.Start()
}

// StopMonitor stops all watchers.
func (s *Service) StopMonitor() error {
	return s.mgr.Stop()
}

// Config returns the active ruleset snapshot.
func (s *Service) Config() *rules.Ruleset {
	return s.store.Snapshot()
}

// UpdateConfig merges a partial update, persists the document, and
// hot-applies it by restarting active watches.
func (s *Service) UpdateConfig(u rules.Update) error {
	if _, err := s.store.Update(u); err != nil {
		return err
	}
	if err := s.mgr.Restart(); err != nil {
		return fmt.Errorf("restart watches: %w", err)
	}
	return nil
}

// Rename triggers the AI rename orchestration for one explicit path
// and returns the old and new basenames.
func (s *Service) Rename(ctx context.Context, path string) (oldName, newName string, err error) {
	if _, statErr := os.Stat(path); statErr != nil {
		return "", "", apperr.ErrNotFound
	}
	oldName = filepath.Base(path)

	newPath, err := s.org.RenameWithAI(ctx, path, s.store.Snapshot())
	if err != nil {
		return oldName, "", err
	}
	return oldName, filepath.Base(newPath), nil
}

// History returns the most recent activity-log entries.
func (s *Service) History(limit int) ([]history.Event, error) {
	if s.hist == nil {
		return []history.Event{}, nil
	}
	return s.hist.Recent(limit)
}
