package normalize

import "errors"

// ErrInvalidDate is returned when a record's dates cannot be parsed.
var ErrInvalidDate = errors.New("invalid event date")
