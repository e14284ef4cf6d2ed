package calendar

import "errors"

// Calendar source errors.
var (
	ErrCommandFailed      = errors.New("calendar command failed")
	ErrDecodeOutput       = errors.New("could not decode calendar output")
	ErrBackendUnavailable = errors.New("calendar backend not installed")
	ErrCacheUnreadable    = errors.New("event cache unreadable")
	ErrCacheWrite         = errors.New("event cache write failed")
)
