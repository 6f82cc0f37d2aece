package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/raido/internal/history"
	"github.com/starford/raido/internal/mcpserver"
	"github.com/starford/raido/internal/namegen"
	"github.com/starford/raido/internal/notify"
	"github.com/starford/raido/internal/organize"
	"github.com/starford/raido/internal/provenance"
	"github.com/starford/raido/internal/rules"
)

// RunMCP serves the organizer tools over MCP stdio. Logs go to stderr
// because stdout carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	store, err := rules.NewStore(cfg.Rules.Path)
	if err != nil {
		logger.Warn("ruleset load failed, using defaults", slog.String("error", err.Error()))
	}

	var hist history.Recorder
	if cfg.History.Path != "" {
		db, err := history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("init history: %w", err)
		}
		defer db.Close()
		hist = db
	}

	rs := store.Snapshot()
	gen := namegen.NewOllama(cfg.Ollama.Endpoint, rs.Settings.RenameModel, rs.Settings.OCRModel, cfg.Ollama.Timeout())

	hub := notify.NewHub()
	defer hub.Close()

	org := organize.New(organize.Options{
		Store:       store,
		Resolver:    provenance.New(),
		Generator:   gen,
		Hub:         hub,
		History:     hist,
		Logger:      logger,
		SuppressTTL: cfg.Pipeline.SuppressTTL(),
	})

	return mcpserver.New(store, org, hist).ServeStdio()
}
