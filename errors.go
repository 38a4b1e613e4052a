package milun

import "errors"

var (
	// ErrDecode is returned when image bytes are malformed or use an
	// unsupported encoding.
	ErrDecode = errors.New("milun: decode failed")

	// ErrInvalidHandle is returned when a handle was never minted by the
	// sprite store.
	ErrInvalidHandle = errors.New("milun: invalid sprite handle")

	// ErrInvalidState is returned when an operation is called outside the
	// window in which it is permitted.
	ErrInvalidState = errors.New("milun: invalid renderer state")

	// ErrPlatform is returned for window, texture, or presentation
	// failures. It is fatal to a running loop.
	ErrPlatform = errors.New("milun: platform failure")

	// ErrStopped is returned by Step once the loop has stopped.
	ErrStopped = errors.New("milun: renderer stopped")
)

// errStop is returned by the frame step to tell a platform loop to end
// cleanly. It never escapes Run.
var errStop = errors.New("milun: stop requested")
