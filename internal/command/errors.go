package command

import "errors"

// Sentinel errors for command operations.
// Callers should use errors.Is to check for these.
var (
	// ErrNotFound indicates the requested command does not exist.
	ErrNotFound = errors.New("command: not found")

	// ErrInvalidCommand indicates a command missing required fields.
	ErrInvalidCommand = errors.New("command: invalid command")
)
