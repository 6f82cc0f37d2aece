// Package organize implements the event pipeline: a raw "file
// created" notification is deduplicated, resolved to an origin,
// routed to a destination directory, and — when eligible — handed to
// the AI rename orchestration. Completed actions are recorded in the
// activity log and broadcast to observers.
package organize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/history"
	"github.com/starford/raido/internal/namegen"
	"github.com/starford/raido/internal/notify"
	"github.com/starford/raido/internal/provenance"
	"github.com/starford/raido/internal/route"
	"github.com/starford/raido/internal/rules"
)

// Options configures an Organizer. Store, Resolver, Generator and Hub
// are required; History and Logger are optional.
type Options struct {
	Store     *rules.Store
	Resolver  provenance.Resolver
	Generator namegen.Generator
	Hub       *notify.Hub
	History   history.Recorder
	Logger    *slog.Logger

	// SettleDelay is the pause after a file is first observed and
	// again after it is moved, letting the filesystem finish writing
	// before metadata reads. Heuristic, not a guarantee.
	SettleDelay time.Duration
	// SuppressTTL bounds how long a self-generated path stays in the
	// dedup guard when its echo notification never arrives.
	SuppressTTL time.Duration
}

// Organizer owns the per-event pipeline. It is safe for use from
// multiple directory workers concurrently.
type Organizer struct {
	store    *rules.Store
	resolver provenance.Resolver
	gen      namegen.Generator
	hub      *notify.Hub
	hist     history.Recorder
	log      *slog.Logger
	suppress *suppressor
	settle   time.Duration
}

// New builds an Organizer from options.
func New(opts Options) *Organizer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Organizer{
		store:    opts.Store,
		resolver: opts.Resolver,
		gen:      opts.Generator,
		hub:      opts.Hub,
		hist:     opts.History,
		log:      logger,
		suppress: newSuppressor(opts.SuppressTTL),
		settle:   opts.SettleDelay,
	}
}

// Snapshot exposes the active ruleset for callers that orchestrate
// manual operations against a consistent view.
func (o *Organizer) Snapshot() *rules.Ruleset {
	return o.store.Snapshot()
}

// HandleCreate processes one creation notification to completion.
// All failures degrade to skip-and-log; this method never panics and
// never returns an error to the watcher.
func (o *Organizer) HandleCreate(ctx context.Context, path string) {
	filename := filepath.Base(path)
	if isTransient(filename) {
		return
	}
	if o.suppress.Consume(path) {
		o.log.Debug("suppressed self-generated event", slog.String("path", path))
		return
	}

	o.pause(ctx)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	// One event runs against one configuration snapshot, even if the
	// document is hot-swapped mid-flight.
	rs := o.store.Snapshot()

	cur := path
	if origin, ok := o.resolver.Resolve(path); ok {
		if newPath, moved := o.routeAndPlace(path, filename, origin, rs); moved {
			cur = newPath
			o.pause(ctx)
		}
	} else {
		o.log.Debug("no provenance", slog.String("path", path))
	}

	if !o.EligibleForRename(cur, rs) {
		return
	}
	if _, err := o.RenameWithAI(ctx, cur, rs); err != nil {
		if errors.Is(err, apperr.ErrUnsupportedType) {
			o.log.Debug("rename skipped", slog.String("path", cur), slog.String("reason", err.Error()))
			return
		}
		o.log.Warn("rename skipped", slog.String("path", cur), slog.String("error", err.Error()))
	}
}

// OrganizeNow runs provenance resolution and placement for one path
// on demand (control surface / MCP). Unlike the event pipeline it
// reports failures to the caller.
func (o *Organizer) OrganizeNow(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("organize: %s: %w", path, apperr.ErrNotFound)
	}

	rs := o.store.Snapshot()
	origin, ok := o.resolver.Resolve(path)
	if !ok {
		return "", fmt.Errorf("organize: no provenance for %s", filepath.Base(path))
	}
	newPath, moved := o.routeAndPlace(path, filepath.Base(path), origin, rs)
	if !moved {
		return "", fmt.Errorf("organize: no destination for %s", filepath.Base(path))
	}
	return newPath, nil
}

// routeAndPlace matches the origin against the move rules and performs
// the placement. Returns the new path and whether a move happened.
func (o *Organizer) routeAndPlace(path, filename, origin string, rs *rules.Ruleset) (string, bool) {
	destDir, ok := route.Match(origin, rs.Schema.Move.URL)
	if !ok {
		destDir, ok = route.FallbackMatch(origin, rs.Schema.Move.URL)
	}
	if !ok {
		o.log.Debug("no routing rule matched",
			slog.String("path", path),
			slog.String("origin", origin))
		return "", false
	}

	newPath, err := o.placeFile(path, filename, destDir, rs.Settings.RemoveDuplicate)
	if err != nil {
		o.log.Warn("placement failed",
			slog.String("path", path),
			slog.String("destination", destDir),
			slog.String("error", err.Error()))
		return "", false
	}
	if newPath == "" {
		return "", false
	}

	// The destination directory may itself be watched; its worker must
	// not reprocess the file we just moved there.
	o.suppress.Add(newPath)
	o.noteMoved(path, newPath, destDir)
	return newPath, true
}

func (o *Organizer) noteMoved(src, dest, destDir string) {
	o.log.Info("file moved",
		slog.String("from", src),
		slog.String("to", dest))

	o.hub.PublishFileMoved(notify.FileMoved{
		Filename:    filepath.Base(dest),
		From:        src,
		To:          dest,
		Destination: destDir,
		Timestamp:   time.Now(),
	})
	o.record(history.Event{
		Kind:     history.KindMoved,
		Name:     filepath.Base(dest),
		FromPath: src,
		ToPath:   dest,
	})
}

func (o *Organizer) noteRenamed(oldPath, newPath string) {
	o.log.Info("file renamed",
		slog.String("from", oldPath),
		slog.String("to", newPath))

	o.hub.PublishFileRenamed(notify.FileRenamed{
		OldName:   filepath.Base(oldPath),
		NewName:   filepath.Base(newPath),
		Path:      filepath.Dir(newPath),
		FullPath:  newPath,
		Timestamp: time.Now(),
	})
	o.record(history.Event{
		Kind:     history.KindRenamed,
		Name:     filepath.Base(newPath),
		FromPath: oldPath,
		ToPath:   newPath,
	})
}

func (o *Organizer) record(e history.Event) {
	if o.hist == nil {
		return
	}
	if err := o.hist.Record(e); err != nil {
		o.log.Warn("history record failed", slog.String("error", err.Error()))
	}
}

func (o *Organizer) pause(ctx context.Context) {
	if o.settle <= 0 {
		return
	}
	select {
	case <-time.After(o.settle):
	case <-ctx.Done():
	}
}
