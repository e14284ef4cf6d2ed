package opener

import "errors"

var (
	// ErrOpenFailed is returned when the default handler could not open the URL.
	ErrOpenFailed = errors.New("opener: default handler failed")
)
