// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/raido/internal/api"
	"github.com/starford/raido/internal/history"
	"github.com/starford/raido/internal/namegen"
	"github.com/starford/raido/internal/notify"
	"github.com/starford/raido/internal/organize"
	"github.com/starford/raido/internal/provenance"
	"github.com/starford/raido/internal/rules"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("rules_path", cfg.Rules.Path),
		slog.String("history_path", cfg.History.Path),
		slog.String("ollama_endpoint", cfg.Ollama.Endpoint),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Load the ruleset document. A broken document degrades to
	// defaults instead of refusing to start.
	store, err := rules.NewStore(cfg.Rules.Path)
	if err != nil {
		logger.Warn("ruleset load failed, using defaults", slog.String("error", err.Error()))
	}

	// Activity log (optional).
	var hist history.Recorder
	if cfg.History.Path != "" {
		db, err := history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("init history: %w", err)
		}
		defer db.Close()
		hist = db
	}

	// Naming backend.
	rs := store.Snapshot()
	gen := namegen.NewOllama(cfg.Ollama.Endpoint, rs.Settings.RenameModel, rs.Settings.OCRModel, cfg.Ollama.Timeout())
	if !gen.Available(ctx) {
		logger.Warn("naming backend unreachable, renames will be skipped",
			slog.String("endpoint", cfg.Ollama.Endpoint))
	}

	// Notification hub.
	hub := notify.NewHub()
	defer hub.Close()

	g, gCtx := errgroup.WithContext(ctx)

	org := organize.New(organize.Options{
		Store:       store,
		Resolver:    provenance.New(),
		Generator:   gen,
		Hub:         hub,
		History:     hist,
		Logger:      logger,
		SettleDelay: cfg.Pipeline.SettleDelay(),
		SuppressTTL: cfg.Pipeline.SuppressTTL(),
	})
	mgr := organize.NewManager(gCtx, org, store, logger)

	// Start monitoring at boot; an empty watchlist is not an error.
	if err := mgr.Start(); err != nil {
		logger.Warn("monitor start failed", slog.String("error", err.Error()))
	}

	// Build API service and router.
	svc := api.NewService(store, mgr, org, hist)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, hub)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	// Start HTTP server.
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		if mgr.Running() {
			if err := mgr.Stop(); err != nil {
				logger.Error("monitor shutdown error", slog.String("error", err.Error()))
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
