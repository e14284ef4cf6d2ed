package calendar

import (
	"os"
	"time"

	"github.com/okian/ocu/pkg/logger"
)

// Option configures the calendar sources.
type Option func(*options)

type options struct {
	logger      logger.Logger
	runner      CommandRunner
	calendars   []string
	scriptPath  string
	binaryPaths []string
	stat        func(string) (os.FileInfo, error)
	parser      *Parser
	now         func() time.Time
}

func defaultOptions() *options {
	return &options{
		logger:      logger.Nop(),
		runner:      ExecRunner{},
		calendars:   []string{},
		scriptPath:  defaultScriptPath(),
		binaryPaths: append([]string(nil), DefaultIcalBuddyPaths...),
		stat:        os.Stat,
		now:         time.Now,
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.parser == nil {
		o.parser = NewParser(WithClock(o.now))
	}
	return o
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRunner replaces the process runner, mostly for tests.
func WithRunner(r CommandRunner) Option {
	return func(o *options) {
		if r != nil {
			o.runner = r
		}
	}
}

// WithCalendars restricts the query to the named calendars. Empty means all.
func WithCalendars(names []string) Option {
	return func(o *options) {
		o.calendars = append([]string(nil), names...)
	}
}

// WithScriptPath sets the script run by the structured backend.
func WithScriptPath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.scriptPath = path
		}
	}
}

// WithBinaryPaths sets the candidate icalBuddy locations, in preference order.
func WithBinaryPaths(paths ...string) Option {
	return func(o *options) {
		o.binaryPaths = append([]string(nil), paths...)
	}
}

// WithStat replaces os.Stat for the installation check.
func WithStat(stat func(string) (os.FileInfo, error)) Option {
	return func(o *options) {
		if stat != nil {
			o.stat = stat
		}
	}
}

// WithParser sets the text block parser.
func WithParser(p *Parser) Option {
	return func(o *options) {
		if p != nil {
			o.parser = p
		}
	}
}

// WithNow sets the clock used for the cache date and for undated events.
func WithNow(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
