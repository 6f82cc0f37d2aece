package organize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/notify"
	"github.com/starford/raido/internal/rules"
)

func testManager(t *testing.T, store *rules.Store, res fakeResolver) *Manager {
	t.Helper()
	hub := notify.NewHub()
	t.Cleanup(hub.Close)

	org := New(Options{
		Store:     store,
		Resolver:  res,
		Generator: &fakeGen{},
		Hub:       hub,
		Logger:    discardLogger(),
	})
	m := NewManager(context.Background(), org, store, discardLogger())
	t.Cleanup(func() {
		if m.Running() {
			_ = m.Stop()
		}
	})
	return m
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, d time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestManagerStartStop(t *testing.T) {
	store := testStore(t, rules.Update{Watchlist: []string{t.TempDir()}})
	m := testManager(t, store, fakeResolver{})

	if m.Running() {
		t.Fatal("must not run before Start")
	}
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !m.Running() {
		t.Fatal("must run after Start")
	}
	if err := m.Start(); !errors.Is(err, apperr.ErrMonitorRunning) {
		t.Errorf("second Start = %v, want ErrMonitorRunning", err)
	}

	if err := m.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if m.Running() {
		t.Fatal("must not run after Stop")
	}
	if err := m.Stop(); !errors.Is(err, apperr.ErrMonitorStopped) {
		t.Errorf("second Stop = %v, want ErrMonitorStopped", err)
	}
}

func TestManagerSkipsMissingDirs(t *testing.T) {
	store := testStore(t, rules.Update{Watchlist: []string{"/definitely/not/there"}})
	m := testManager(t, store, fakeResolver{})

	if err := m.Start(); err != nil {
		t.Fatalf("Start with missing dir must not fail: %v", err)
	}
}

func TestManagerOrganizesCreatedFile(t *testing.T) {
	root := t.TempDir()
	downloads := filepath.Join(root, "downloads")
	sorted := filepath.Join(root, "sorted")
	if err := os.MkdirAll(downloads, 0o755); err != nil {
		t.Fatal(err)
	}

	store := testStore(t, rules.Update{
		Watchlist: []string{downloads},
		Schema: &rules.SchemaPatch{
			Move: &rules.MoveSchema{URL: rules.RuleList{
				{Pattern: "example.com", Destination: sorted},
			}},
		},
	})
	m := testManager(t, store, fakeResolver{origin: "https://example.com/dl", ok: true})

	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	// Let the watcher attach before producing the event.
	time.Sleep(100 * time.Millisecond)

	src := filepath.Join(downloads, "doc.txt")
	writeFile(t, src, "content")

	moved := filepath.Join(sorted, "doc.txt")
	eventually(t, 3*time.Second, func() bool {
		_, err := os.Stat(moved)
		return err == nil
	}, "file was never organized")
}

func TestManagerRestartPicksUpNewWatchlist(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "first")
	second := filepath.Join(root, "second")
	sorted := filepath.Join(root, "sorted")
	for _, d := range []string{first, second} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	store := testStore(t, rules.Update{
		Watchlist: []string{first},
		Schema: &rules.SchemaPatch{
			Move: &rules.MoveSchema{URL: rules.RuleList{
				{Pattern: "example.com", Destination: sorted},
			}},
		},
	})
	m := testManager(t, store, fakeResolver{origin: "https://example.com/dl", ok: true})

	if err := m.Start(); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Update(rules.Update{Watchlist: []string{second}}); err != nil {
		t.Fatal(err)
	}
	if err := m.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	src := filepath.Join(second, "doc.txt")
	writeFile(t, src, "content")

	eventually(t, 3*time.Second, func() bool {
		_, err := os.Stat(filepath.Join(sorted, "doc.txt"))
		return err == nil
	}, "new watch dir not picked up after restart")
}

// gateResolver blocks inside Resolve until released, holding a worker
// mid-event for as long as a test needs.
type gateResolver struct {
	entered chan struct{}
	release chan struct{}
}

func (r *gateResolver) Resolve(string) (string, bool) {
	select {
	case r.entered <- struct{}{}:
	default:
	}
	<-r.release
	return "", false
}

func TestStopDrainsOnlyItsOwnGeneration(t *testing.T) {
	root := t.TempDir()
	downloads := filepath.Join(root, "downloads")
	if err := os.MkdirAll(downloads, 0o755); err != nil {
		t.Fatal(err)
	}

	store := testStore(t, rules.Update{Watchlist: []string{downloads}})
	res := &gateResolver{entered: make(chan struct{}, 1), release: make(chan struct{})}

	hub := notify.NewHub()
	t.Cleanup(hub.Close)
	org := New(Options{
		Store:     store,
		Resolver:  res,
		Generator: &fakeGen{},
		Hub:       hub,
		Logger:    discardLogger(),
	})
	m := NewManager(context.Background(), org, store, discardLogger())
	t.Cleanup(func() {
		close(res.release)
		if m.Running() {
			_ = m.Stop()
		}
	})

	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(downloads, "doc.txt"), "x")

	select {
	case <-res.entered:
	case <-time.After(3 * time.Second):
		t.Fatal("worker never reached the resolver")
	}

	// Stop now drains a worker that is stuck mid-event.
	stopDone := make(chan error, 1)
	go func() { stopDone <- m.Stop() }()
	eventually(t, 2*time.Second, func() bool { return !m.Running() }, "Stop never flipped running")

	// A Start interleaved with the drain spawns a fresh generation;
	// the draining Stop must not wait on its workers.
	if err := m.Start(); err != nil {
		t.Fatalf("interleaved Start: %v", err)
	}

	res.release <- struct{}{}

	select {
	case err := <-stopDone:
		if err != nil {
			t.Fatalf("Stop: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Stop waited on workers of a later generation")
	}
	if !m.Running() {
		t.Error("interleaved Start must leave the monitor running")
	}
}

func TestManagerRestartWhenStopped(t *testing.T) {
	store := testStore(t, rules.Update{})
	m := testManager(t, store, fakeResolver{})

	if err := m.Restart(); err != nil {
		t.Errorf("Restart while stopped must be a no-op, got %v", err)
	}
	if m.Running() {
		t.Error("Restart while stopped must not start watchers")
	}
}
