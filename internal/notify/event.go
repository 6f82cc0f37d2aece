// Package notify implements a websocket hub that fans organizer
// events out to connected clients in real time.
package notify

import "time"

// Message types on the wire.
const (
	TypeFileMoved   = "file_moved"
	TypeFileRenamed = "file_renamed"
	TypePing        = "ping"
	TypePong        = "pong"
)

// Event is one wire message: a type tag plus a typed payload.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// FileMoved is the payload broadcast after a file was routed to a
// destination directory.
type FileMoved struct {
	Filename    string    `json:"filename"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Destination string    `json:"destination"`
	Timestamp   time.Time `json:"timestamp"`
}

// FileRenamed is the payload broadcast after an AI rename completed.
type FileRenamed struct {
	OldName   string    `json:"old_name"`
	NewName   string    `json:"new_name"`
	Path      string    `json:"path"`
	FullPath  string    `json:"full_path"`
	Timestamp time.Time `json:"timestamp"`
}
