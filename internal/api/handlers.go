package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starford/raido/internal/apperr"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Status handles GET /api/status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// StartMonitor handles POST /api/start-monitor.
func (h *Handler) StartMonitor(w http.ResponseWriter, _ *http.Request) {
	if err := h.svc.StartMonitor(); err != nil {
		if errors.Is(err, apperr.ErrMonitorRunning) {
			writeJSON(w, http.StatusConflict, errorBody("monitor already running"))
			return
		}
		slog.Error("start monitor failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "monitor started"})
}

// StopMonitor handles POST /api/stop-monitor.
func (h *Handler) StopMonitor(w http.ResponseWriter, _ *http.Request) {
	if err := h.svc.StopMonitor(); err != nil {
		if errors.Is(err, apperr.ErrMonitorStopped) {
			writeJSON(w, http.StatusConflict, errorBody("monitor not running"))
			return
		}
		slog.Error("stop monitor failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "monitor stopped"})
}

// GetConfig handles GET /api/config.
func (h *Handler) GetConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Config())
}

// UpdateConfig handles PUT /api/config.
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ConfigUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.UpdateConfig(req); err != nil {
		slog.Error("config update failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "configuration updated"})
}

// Rename handles POST /api/rename.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.FilePath == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("file_path is required"))
		return
	}

	oldName, newName, err := h.svc.Rename(r.Context(), req.FilePath)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("file not found"))
			return
		}
		writeJSON(w, http.StatusOK, RenameResponse{
			Success: false,
			OldName: oldName,
			Error:   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, RenameResponse{
		Success: true,
		OldName: oldName,
		NewName: newName,
	})
}

// History handles GET /api/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.svc.History(limit)
	if err != nil {
		slog.Error("history failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Events: events})
}
