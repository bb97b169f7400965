package deltacmp

import "errors"

// Sentinel errors for host operations.
var (
	ErrNotRenderable = errors.New("deltacmp: component does not implement Renderer")
	ErrNoWriter      = errors.New("deltacmp: host has no output writer")
	ErrHandlerFailed = errors.New("deltacmp: change handler failed")
)

// IsHandlerError checks if err reports a failed asynchronous change handler.
func IsHandlerError(err error) bool {
	return errors.Is(err, ErrHandlerFailed)
}
