// Package calendar produces today's raw event records from the local
// calendar, either through a structured JSON backend or by parsing the text
// output of icalBuddy.
package calendar

import (
	"context"

	model "github.com/okian/ocu/internal/domain/model"
)

// Source yields today's raw event records.
type Source interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	// Available reports whether the backend can be used on this machine.
	Available() bool
	ListRawEvents(ctx context.Context) ([]model.RawRecord, error)
}

// Select picks the backend for this run. The text-block backend is used only
// when it is preferred and installed; the structured backend is the
// unconditional fallback.
func Select(preferText bool, text, structured Source) Source {
	if preferText && text != nil && text.Available() {
		return text
	}
	return structured
}
