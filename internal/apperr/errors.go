package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrMonitorRunning  = errors.New("monitor already running")
	ErrMonitorStopped  = errors.New("monitor not running")
	ErrUnsupportedType = errors.New("unsupported file type")
)
