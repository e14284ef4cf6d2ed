// Package service wires the calendar backend, the event model, the schedule
// and the feedback payload into one run.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/ocu/internal/adapters/calendar"
	"github.com/okian/ocu/internal/adapters/feedback"
	"github.com/okian/ocu/internal/config"
	"github.com/okian/ocu/internal/domain/conference"
	"github.com/okian/ocu/internal/domain/dedupe"
	"github.com/okian/ocu/internal/domain/model"
	"github.com/okian/ocu/internal/domain/normalize"
	"github.com/okian/ocu/internal/domain/schedule"
	"github.com/okian/ocu/internal/domain/scoring"
	"github.com/okian/ocu/pkg/logger"
	"github.com/okian/ocu/pkg/metrics"
)

const millisecondsPerSecond = 1e3

// Service runs the list pipeline for one invocation.
type Service struct {
	prefs *config.Preferences

	// Collaborators
	source calendar.Source
	runner calendar.CommandRunner
	now    func() time.Time
	loc    *time.Location

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource replaces backend selection with a fixed source.
func WithSource(src calendar.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithRunner sets the process runner handed to the calendar backends.
func WithRunner(r calendar.CommandRunner) Option {
	return func(s *Service) {
		if r != nil {
			s.runner = r
		}
	}
}

// WithClock sets the clock read once per run.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone event dates are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// New constructs a Service for prefs.
func New(prefs *config.Preferences, opts ...Option) *Service {
	s := &Service{
		prefs:  prefs,
		runner: calendar.ExecRunner{},
		now:    time.Now,
		loc:    time.Local,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List fetches today's events and renders the launcher payload.
func (s *Service) List(ctx context.Context) (feedback.Payload, error) {
	log := s.logger.With(logger.String("run_id", uuid.NewString()))
	started := time.Now()
	defer s.finish(ctx, log, started)

	// One instant for the whole run.
	now := s.now()

	builder, err := s.builder()
	if err != nil {
		return feedback.Payload{}, err
	}

	src := s.resolveSource(log)
	log.Debug(ctx, "listing events",
		logger.String("source", src.Name()),
		logger.Strings("calendars", s.prefs.CalendarNames),
		logger.Bool("cached", s.prefs.EventCachePath != ""),
		logger.Time("now", now),
	)

	fetchCtx, cancel := context.WithTimeout(ctx, s.prefs.CommandTimeout)
	defer cancel()
	records, err := src.ListRawEvents(fetchCtx)
	if err != nil {
		log.Error(ctx, "calendar backend failed", logger.String("source", src.Name()), logger.Error(err))
		return feedback.Payload{}, fmt.Errorf("%w: %w", ErrFetchEvents, err)
	}

	events := s.buildEvents(ctx, log, builder, records, now)

	sel := schedule.Select(events, now, s.prefs.EventTimeThreshold,
		schedule.WithDedupeOptions(dedupe.WithOnDuplicate(func(string) {
			metrics.RecordDuplicateDropped()
		})),
	)
	metrics.UpdateEventsDisplayed(len(sel.Events))
	log.Info(ctx, "events selected",
		logger.Int("records", len(records)),
		logger.Int("events", len(events)),
		logger.Int("upcoming", sel.Upcoming),
		logger.Int("past", sel.Past),
		logger.Int("shown", len(sel.Events)),
		logger.String("header", sel.Header.String()),
	)

	return feedback.Build(sel, s.prefs.TimeSystem == config.TimeSystem24Hour), nil
}

// RefreshCache rewrites the event cache from a live fetch and returns the
// number of records stored.
func (s *Service) RefreshCache(ctx context.Context) (int, error) {
	if s.prefs.EventCachePath == "" {
		return 0, ErrCacheDisabled
	}
	log := s.logger.With(logger.String("run_id", uuid.NewString()))

	fetchCtx, cancel := context.WithTimeout(ctx, s.prefs.CommandTimeout)
	defer cancel()

	cache := calendar.NewCachedSource(s.baseSource(), s.prefs.EventCachePath, s.calendarOptions(log)...)
	records, err := cache.Refresh(fetchCtx)
	if err != nil {
		log.Error(ctx, "cache refresh failed", logger.String("path", s.prefs.EventCachePath), logger.Error(err))
		return 0, fmt.Errorf("%w: %w", ErrRefreshCache, err)
	}
	log.Info(ctx, "event cache refreshed",
		logger.String("path", s.prefs.EventCachePath), logger.Int("records", len(records)))
	return len(records), nil
}

func (s *Service) builder() (*normalize.Builder, error) {
	scorer, err := scoring.NewScorer(s.prefs.ConferenceDomains,
		scoring.WithObserver(func(c scoring.Candidate) {
			metrics.RecordURLCandidate(string(c.Outcome))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConferenceDomains, err)
	}

	rewriter := conference.NewRewriter(
		conference.WithDirectZoom(s.prefs.UseDirectZoom),
		conference.WithDirectTeams(s.prefs.UseDirectMSTeams),
		conference.WithObserver(func(svc conference.Service) {
			metrics.RecordURLRewrite(string(svc))
		}),
	)
	return normalize.NewBuilder(scorer,
		normalize.WithRewriter(rewriter),
		normalize.WithLocation(s.loc),
	), nil
}

// buildEvents skips records that cannot be turned into events; one bad
// record never aborts the run.
func (s *Service) buildEvents(ctx context.Context, log logger.Logger, b *normalize.Builder, records []model.RawRecord, now time.Time) []model.Event {
	events := make([]model.Event, 0, len(records))
	for _, raw := range records {
		ev, err := b.Build(raw, now)
		if err != nil {
			metrics.RecordEventBuildError()
			log.Warn(ctx, "skipping event", logger.String("title", raw[model.FieldTitle]), logger.Error(err))
			continue
		}
		metrics.RecordEventBuilt()
		if !ev.HasConferenceURL() {
			metrics.RecordEventWithoutURL()
		}
		events = append(events, ev)
	}
	return events
}

func (s *Service) calendarOptions(log logger.Logger) []calendar.Option {
	return []calendar.Option{
		calendar.WithLogger(log),
		calendar.WithRunner(s.runner),
		calendar.WithCalendars(s.prefs.CalendarNames),
		calendar.WithNow(s.now),
	}
}

// baseSource is the configured backend without the cache.
func (s *Service) baseSource() calendar.Source {
	if s.source != nil {
		return s.source
	}
	opts := s.calendarOptions(s.logger)
	return calendar.Select(s.prefs.UseIcalBuddy,
		calendar.NewTextBlockSource(opts...),
		calendar.NewStructuredSource(opts...),
	)
}

func (s *Service) resolveSource(log logger.Logger) calendar.Source {
	src := s.baseSource()
	if s.prefs.EventCachePath == "" {
		return src
	}
	return calendar.NewCachedSource(src, s.prefs.EventCachePath, s.calendarOptions(log)...)
}

func (s *Service) finish(ctx context.Context, log logger.Logger, started time.Time) {
	elapsed := time.Since(started)
	metrics.RecordRunDuration(elapsed.Seconds()*millisecondsPerSecond, time.Now().Unix())
	log.Debug(ctx, "run finished", logger.Duration("elapsed", elapsed))

	if s.prefs.MetricsTextfile == "" {
		return
	}
	if err := metrics.WriteTextfile(s.prefs.MetricsTextfile); err != nil {
		log.Warn(ctx, "metrics export failed", logger.String("path", s.prefs.MetricsTextfile), logger.Error(err))
	}
}
