// Package api provides error types for workspace API responses.
package api

import "errors"

// ErrNotFound indicates the requested path no longer exists in the
// workspace. The agent may delete files between the snapshot the user is
// looking at and the operation they trigger, so callers treat this as a
// normal race, not a fault.
var ErrNotFound = errors.New("path not found in workspace")

// ErrThrottled indicates a refresh trigger was dropped by the shared gate
// because another workspace call was issued within the spacing window.
// Never surfaced to the user: the next poll tick covers the dropped
// refresh.
var ErrThrottled = errors.New("workspace call throttled")

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsThrottled reports whether err wraps ErrThrottled.
func IsThrottled(err error) bool {
	return errors.Is(err, ErrThrottled)
}
