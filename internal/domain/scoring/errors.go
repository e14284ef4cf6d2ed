package scoring

import "errors"

// Pattern parsing errors.
var (
	ErrEmptyPattern   = errors.New("empty conference domain pattern")
	ErrInvalidPattern = errors.New("invalid conference domain pattern")
)
