package device

import "errors"

// Sentinel errors for device operations.
// Callers should use errors.Is to check for these.
var (
	// ErrNotFound indicates the requested device does not exist.
	ErrNotFound = errors.New("device: not found")

	// ErrInvalidDeviceID indicates a missing or malformed device ID.
	ErrInvalidDeviceID = errors.New("device: invalid device ID")
)
