package organize

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/rules"
)

// Manager runs one watcher goroutine per watchlist directory. Each
// directory is watched non-recursively and its events are handled
// strictly one at a time in arrival order; a slow naming-backend call
// therefore delays later events in the same directory but never in
// other directories.
type Manager struct {
	org   *Organizer
	store *rules.Store
	log   *slog.Logger
	base  context.Context

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      *sync.WaitGroup // one generation of workers per Start
	running bool
}

// NewManager creates a manager whose workers live under base; they
// all stop when base is cancelled.
func NewManager(base context.Context, org *Organizer, store *rules.Store, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{org: org, store: store, log: log, base: base}
}

// Running reports whether watchers are active.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Start spawns a watcher per existing watchlist directory, against the
// current ruleset snapshot. Directories that do not exist are skipped
// with a warning. Workers attach their filesystem watches
// asynchronously, so an event firing immediately after Start returns
// may not be observed.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return apperr.ErrMonitorRunning
	}

	ctx, cancel := context.WithCancel(m.base)
	m.cancel = cancel

	// Fresh WaitGroup per generation: a Stop draining an earlier
	// generation must never end up waiting on these workers.
	wg := &sync.WaitGroup{}
	m.wg = wg

	for _, dir := range m.store.Snapshot().Watchlist {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			m.log.Warn("watch target unavailable", slog.String("dir", dir))
			continue
		}
		wg.Add(1)
		go func(dir string) {
			defer wg.Done()
			m.watchDir(ctx, dir)
		}(dir)
		m.log.Info("monitoring", slog.String("dir", dir))
	}

	m.running = true
	return nil
}

// Stop cancels all watchers and waits for them to drain. The drain
// covers only the workers of the generation being stopped.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return apperr.ErrMonitorStopped
	}
	m.cancel()
	m.running = false
	wg := m.wg
	m.mu.Unlock()

	wg.Wait()
	m.log.Info("monitor stopped")
	return nil
}

// Restart applies a new watchlist by stopping and starting. A no-op
// when the monitor is not running; in-flight events finish against
// the snapshot they were admitted with.
func (m *Manager) Restart() error {
	if !m.Running() {
		return nil
	}
	if err := m.Stop(); err != nil {
		return err
	}
	return m.Start()
}

// watchDir watches one directory (direct children only) and feeds
// creation events to the organizer until ctx is cancelled.
func (m *Manager) watchDir(ctx context.Context, dir string) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		m.log.Error("watcher: create failed", slog.String("error", err.Error()))
		return
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		m.log.Error("watcher: add failed",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		return
	}
	m.log.Debug("watcher: started", slog.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			m.log.Debug("watcher: stopped", slog.String("dir", dir))
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create == 0 {
				continue
			}
			// Handling blocks this worker on purpose: events within a
			// directory are processed serially, in arrival order.
			m.org.HandleCreate(ctx, ev.Name)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return
			}
			m.log.Error("watcher: error",
				slog.String("dir", dir),
				slog.String("error", watchErr.Error()))
		}
	}
}
