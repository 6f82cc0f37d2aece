package api

import (
	"github.com/starford/raido/internal/history"
	"github.com/starford/raido/internal/rules"
)

// StatusResponse describes the monitor state.
type StatusResponse struct {
	Status     string   `json:"status"` // running | stopped
	Monitoring bool     `json:"monitoring"`
	Watchlist  []string `json:"watchlist"`
}

// ConfigUpdateRequest is a partial ruleset update (aliased from the
// domain layer; absent sections are untouched).
type ConfigUpdateRequest = rules.Update

// RenameRequest asks for an AI rename of one explicit path.
type RenameRequest struct {
	FilePath string `json:"file_path"`
}

// RenameResponse reports the outcome of a manual rename.
type RenameResponse struct {
	Success bool   `json:"success"`
	OldName string `json:"old_name"`
	NewName string `json:"new_name,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HistoryResponse wraps the recent activity listing.
type HistoryResponse struct {
	Events []history.Event `json:"events"`
}

// messageResponse is the generic success envelope for control actions.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
