package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// wsHandler, if non-nil, is mounted at GET /events inside the auth
// group as the real-time notification channel.
func NewRouter(svc *Service, authEnabled bool, token string, wsHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/status", h.Status)
	r.Post("/start-monitor", h.StartMonitor)
	r.Post("/stop-monitor", h.StopMonitor)

	r.Get("/config", h.GetConfig)
	r.Put("/config", h.UpdateConfig)

	r.Post("/rename", h.Rename)
	r.Get("/history", h.History)

	if wsHandler != nil {
		r.Get("/events", wsHandler.ServeHTTP)
	}

	return r
}
