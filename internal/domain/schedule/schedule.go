// Package schedule classifies today's events relative to the current instant
// and picks which of them to show.
package schedule

import (
	"sort"
	"time"

	dedupe "github.com/okian/ocu/internal/domain/dedupe"
	model "github.com/okian/ocu/internal/domain/model"
)

// Header says which informational item, if any, precedes the events.
type Header int

const (
	// HeaderNone shows the events only.
	HeaderNone Header = iota
	// HeaderNoResults means no conference events exist today.
	HeaderNoResults
	// HeaderNoUpcomingPast means nothing is imminent; earlier events follow.
	HeaderNoUpcomingPast
	// HeaderNoUpcomingAll means nothing is imminent or over; all events follow.
	HeaderNoUpcomingAll
)

func (h Header) String() string {
	switch h {
	case HeaderNoResults:
		return "no_results"
	case HeaderNoUpcomingPast:
		return "no_upcoming_past"
	case HeaderNoUpcomingAll:
		return "no_upcoming_all"
	default:
		return "none"
	}
}

// Selection is the outcome of Select.
type Selection struct {
	Header Header
	Events []model.Event
	// Upcoming and Past count the classified events before collapsing.
	Upcoming int
	Past     int
}

// Option applies a configuration option to Select.
type Option func(*selector)

// WithDedupeOptions forwards options to the deduper used for the union.
func WithDedupeOptions(opts ...dedupe.Option) Option {
	return func(s *selector) { s.dedupeOpts = append(s.dedupeOpts, opts...) }
}

type selector struct {
	dedupeOpts []dedupe.Option
}

// IsUpcoming reports whether now lies in (start-threshold, start]. An event
// starting exactly now is upcoming even with a zero threshold.
func IsUpcoming(e model.Event, now time.Time, threshold time.Duration) bool {
	if now.Equal(e.Start) {
		return true
	}
	return e.Start.Add(-threshold).Before(now) && !now.After(e.Start)
}

// IsPast reports whether the event ended before now.
func IsPast(e model.Event, now time.Time) bool {
	return e.End.Before(now)
}

type tier int

const (
	tierUpcoming tier = iota
	tierPast
	tierOther
	tierAllDay
)

func classify(e model.Event, now time.Time, threshold time.Duration) tier {
	switch {
	case e.AllDay:
		return tierAllDay
	case IsUpcoming(e, now, threshold):
		return tierUpcoming
	case IsPast(e, now):
		return tierPast
	default:
		return tierOther
	}
}

// less orders upcoming events soonest first, then past events most recent
// first, with all-day events last.
func less(a, b model.Event, now time.Time, threshold time.Duration) bool {
	ta, tb := classify(a, now, threshold), classify(b, now, threshold)
	if ta != tb {
		return ta < tb
	}
	switch ta {
	case tierUpcoming:
		return a.Start.Before(b.Start)
	case tierPast:
		return a.End.After(b.End)
	default:
		return false
	}
}

// Sort orders events in place for display using one shared now. The sort is
// stable.
func Sort(events []model.Event, now time.Time, threshold time.Duration) {
	sort.SliceStable(events, func(i, j int) bool {
		return less(events[i], events[j], now, threshold)
	})
}

// Select filters events to those with a conference URL, classifies them
// against now and threshold, and returns what should be displayed.
func Select(events []model.Event, now time.Time, threshold time.Duration, opts ...Option) Selection {
	s := &selector{}
	for _, opt := range opts {
		opt(s)
	}

	var all, upcoming, past []model.Event
	for _, e := range events {
		if !e.HasConferenceURL() {
			continue
		}
		all = append(all, e)
		if IsUpcoming(e, now, threshold) {
			upcoming = append(upcoming, e)
		}
		if IsPast(e, now) {
			past = append(past, e)
		}
	}

	sel := Selection{Upcoming: len(upcoming), Past: len(past)}
	switch {
	case len(all) == 0:
		sel.Header = HeaderNoResults
		return sel
	case len(upcoming) == 0 && len(past) == 0:
		sel.Header = HeaderNoUpcomingAll
		sel.Events = all
		return sel
	}

	if len(upcoming) > 0 && len(past) > 1 {
		recent := past[0]
		for _, e := range past[1:] {
			if less(e, recent, now, threshold) {
				recent = e
			}
		}
		past = []model.Event{recent}
	}

	union := make([]model.Event, 0, len(past)+len(upcoming))
	union = append(union, past...)
	union = append(union, upcoming...)
	display := dedupe.Unique(union, model.Event.Identity, s.dedupeOpts...)
	Sort(display, now, threshold)

	sel.Events = display
	if len(upcoming) == 0 {
		sel.Header = HeaderNoUpcomingPast
	}
	return sel
}
