package feedback

import "errors"

// ErrEncode is returned when the payload cannot be written.
var ErrEncode = errors.New("feedback: encode payload")
