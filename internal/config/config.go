// Package config defines the workflow preferences and how they are loaded.
//
// Conventions:
//   - Preferences are plain named string values (launcher workflow variables).
//   - Store converts them on access; Parse validates all of them at start-up.
//   - External errors are wrapped with this package's sentinel errors.
package config

import (
	"errors"
	"time"
)

// Recognised preference names.
const (
	NameConferenceDomains      = "conference_domains"
	NameCalendarNames          = "calendar_names"
	NameEventTimeThresholdMins = "event_time_threshold_mins"
	NameUseDirectZoom          = "use_direct_zoom"
	NameUseDirectMSTeams       = "use_direct_msteams"
	NameUseDirectGMeet         = "use_direct_gmeet"
	NameGMeetAppName           = "gmeet_app_name"
	NameUseIcalBuddy           = "use_icalbuddy"
	NameTimeSystem             = "time_system"
	NameLogLevel               = "log_level"
	NameEventCachePath         = "event_cache_path"
	NameMetricsTextfile        = "metrics_textfile"
	NameCommandTimeoutSecs     = "command_timeout_secs"
)

// Time systems accepted by time_system.
const (
	TimeSystem12Hour = "12-hour"
	TimeSystem24Hour = "24-hour"
)

// DefaultGMeetAppName is used when gmeet_app_name is unset.
const DefaultGMeetAppName = "Google Meet"

const defaultCommandTimeout = 10 * time.Second

// Preferences is the validated, typed view of every preference.
type Preferences struct {
	// ConferenceDomains ranks conferencing hosts, highest precedence first.
	ConferenceDomains []string

	// CalendarNames restricts which calendars are queried; empty means all.
	CalendarNames []string

	// EventTimeThreshold is how far ahead of its start an event counts as upcoming.
	EventTimeThreshold time.Duration

	UseDirectZoom    bool
	UseDirectMSTeams bool
	UseDirectGMeet   bool
	GMeetAppName     string

	// UseIcalBuddy prefers the text-block backend when it is installed.
	UseIcalBuddy bool

	// TimeSystem is TimeSystem12Hour or TimeSystem24Hour.
	TimeSystem string

	LogLevel string

	// EventCachePath enables the daily event cache when non-empty.
	EventCachePath string

	// MetricsTextfile enables the Prometheus textfile export when non-empty.
	MetricsTextfile string

	// CommandTimeout bounds each calendar backend invocation.
	CommandTimeout time.Duration
}

// New returns Preferences holding every documented default. The two required
// preferences (conference domains and threshold) are left empty.
func New() *Preferences {
	return &Preferences{
		CalendarNames:  []string{},
		GMeetAppName:   DefaultGMeetAppName,
		TimeSystem:     TimeSystem12Hour,
		LogLevel:       "info",
		CommandTimeout: defaultCommandTimeout,
	}
}

// Parse reads every preference from store. All missing or malformed keys are
// reported together in one joined error.
func Parse(store *Store) (*Preferences, error) {
	p := New()
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	p.ConferenceDomains, err = store.List(NameConferenceDomains)
	collect(err)
	if err == nil && len(p.ConferenceDomains) == 0 {
		collect(&MissingPreferenceError{Name: NameConferenceDomains})
	}

	p.CalendarNames, err = store.ListOr(NameCalendarNames, p.CalendarNames)
	collect(err)

	mins, err := store.Int(NameEventTimeThresholdMins)
	collect(err)
	if err == nil && mins < 0 {
		collect(&InvalidPreferenceError{Name: NameEventTimeThresholdMins, Err: errors.New("must not be negative")})
	}
	p.EventTimeThreshold = time.Duration(mins) * time.Minute

	p.UseDirectZoom, err = store.BoolOr(NameUseDirectZoom, false)
	collect(err)
	p.UseDirectMSTeams, err = store.BoolOr(NameUseDirectMSTeams, false)
	collect(err)
	p.UseDirectGMeet, err = store.BoolOr(NameUseDirectGMeet, false)
	collect(err)
	p.GMeetAppName, err = store.StringOr(NameGMeetAppName, DefaultGMeetAppName)
	collect(err)
	if p.GMeetAppName == "" {
		p.GMeetAppName = DefaultGMeetAppName
	}
	p.UseIcalBuddy, err = store.BoolOr(NameUseIcalBuddy, false)
	collect(err)
	p.TimeSystem, err = store.StringOr(NameTimeSystem, TimeSystem12Hour)
	collect(err)
	p.LogLevel, err = store.StringOr(NameLogLevel, p.LogLevel)
	collect(err)
	p.EventCachePath, err = store.StringOr(NameEventCachePath, "")
	collect(err)
	p.MetricsTextfile, err = store.StringOr(NameMetricsTextfile, "")
	collect(err)

	secs, err := store.IntOr(NameCommandTimeoutSecs, int(defaultCommandTimeout/time.Second))
	collect(err)
	if err == nil && secs > 0 {
		p.CommandTimeout = time.Duration(secs) * time.Second
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return p, nil
}
