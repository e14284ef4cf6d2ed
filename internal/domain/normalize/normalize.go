// Package normalize turns raw calendar records into typed events.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/ocu/internal/domain/conference"
	model "github.com/okian/ocu/internal/domain/model"
	scoring "github.com/okian/ocu/internal/domain/scoring"
)

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithLocation sets the zone dates are interpreted in. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(b *Builder) {
		if loc != nil {
			b.loc = loc
		}
	}
}

// WithRewriter sets the URL rewriter applied to the chosen conference URL.
func WithRewriter(r *conference.Rewriter) Option {
	return func(b *Builder) {
		if r != nil {
			b.rewriter = r
		}
	}
}

// Builder constructs events. It is stateless apart from its collaborators.
type Builder struct {
	scorer   *scoring.Scorer
	rewriter *conference.Rewriter
	loc      *time.Location
}

// NewBuilder returns a Builder ranking URLs with scorer.
func NewBuilder(scorer *scoring.Scorer, opts ...Option) *Builder {
	b := &Builder{
		scorer:   scorer,
		rewriter: conference.NewRewriter(),
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build converts raw into an Event. now is the single instant of the current
// run; all-day events have their start pinned to it.
//
// A missing endDate yields an end equal to the parsed start. Unparseable
// dates return ErrInvalidDate.
func (b *Builder) Build(raw model.RawRecord, now time.Time) (model.Event, error) {
	ev := model.Event{Title: raw[model.FieldTitle]}

	start, err := b.parse(model.FieldStartDate, raw[model.FieldStartDate])
	if err != nil {
		return model.Event{}, err
	}
	if strings.EqualFold(raw[model.FieldIsAllDay], "true") {
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, b.loc)
	}

	end := start
	if v := strings.TrimSpace(raw[model.FieldEndDate]); v != "" {
		if end, err = b.parse(model.FieldEndDate, v); err != nil {
			return model.Event{}, err
		}
	}

	ev.Start, ev.End = start, end
	if start.Hour() == 0 && start.Minute() == 0 {
		ev.AllDay = true
		ev.Start = now
	}

	if url, ok := b.scorer.BestForRecord(raw); ok {
		ev.ConferenceURL = b.rewriter.Rewrite(url)
	}
	return ev, nil
}

func (b *Builder) parse(field, value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: %s is empty", ErrInvalidDate, field)
	}
	t, err := time.ParseInLocation(model.DateTimeLayout, v, b.loc)
	if err == nil {
		return t, nil
	}
	// Some backends emit a bare date for all-day events.
	if d, dateErr := time.ParseInLocation(model.DateLayout, v, b.loc); dateErr == nil {
		return d, nil
	}
	return time.Time{}, fmt.Errorf("%w: %s %q: %w", ErrInvalidDate, field, v, err)
}
