// Package opener hands a conference URL to macOS, launching the Google Meet
// app directly when the user asked for it.
package opener

import (
	"context"
	"fmt"

	"github.com/okian/ocu/internal/config"
	"github.com/okian/ocu/internal/domain/conference"
	"github.com/okian/ocu/pkg/logger"
	"github.com/okian/ocu/pkg/metrics"
)

const openCommand = "open"

// Handler names reported to metrics.
const (
	HandlerNativeApp = "native_app"
	HandlerDefault   = "default"
)

// Runner runs an external program. calendar.ExecRunner satisfies it.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Option applies a configuration option to the Opener.
type Option func(*Opener)

// WithLogger sets the diagnostic logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Opener) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRunner replaces the process runner.
func WithRunner(r Runner) Option {
	return func(o *Opener) {
		if r != nil {
			o.runner = r
		}
	}
}

// Opener launches URLs.
type Opener struct {
	store  *config.Store
	runner Runner
	logger logger.Logger
}

// New returns an Opener reading its preferences lazily from store.
func New(store *config.Store, runner Runner, opts ...Option) *Opener {
	o := &Opener{store: store, runner: runner, logger: logger.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open launches url. Google Meet links go to the configured native app when
// use_direct_gmeet is set; anything else, or a failed native launch, goes to
// the default handler. Only a failure of the default handler is returned,
// so an empty url is left for the default handler to reject.
func (o *Opener) Open(ctx context.Context, url string) error {
	if conference.IsGoogleMeet(url) && o.useDirectGMeet(ctx) {
		app := o.gmeetAppName(ctx)
		o.logger.Info(ctx, "opening in native app", logger.String("app", app), logger.String("url", url))
		_, err := o.runner.Run(ctx, openCommand, "-a", app, url)
		if err == nil {
			metrics.RecordURLOpen(HandlerNativeApp, "ok")
			return nil
		}
		metrics.RecordURLOpen(HandlerNativeApp, "error")
		o.logger.Warn(ctx, "native app launch failed, using default handler",
			logger.String("app", app), logger.Error(err))
	}

	o.logger.Info(ctx, "opening with default handler", logger.String("url", url))
	if _, err := o.runner.Run(ctx, openCommand, url); err != nil {
		metrics.RecordURLOpen(HandlerDefault, "error")
		o.logger.Error(ctx, "default handler failed", logger.String("url", url), logger.Error(err))
		return fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	metrics.RecordURLOpen(HandlerDefault, "ok")
	return nil
}

func (o *Opener) useDirectGMeet(ctx context.Context) bool {
	v, err := o.store.Bool(config.NameUseDirectGMeet)
	if err != nil {
		o.warnDefault(ctx, config.NameUseDirectGMeet, "false", err)
		return false
	}
	return v
}

func (o *Opener) gmeetAppName(ctx context.Context) string {
	v, err := o.store.String(config.NameGMeetAppName)
	if err != nil || v == "" {
		if err == nil {
			err = &config.MissingPreferenceError{Name: config.NameGMeetAppName}
		}
		o.warnDefault(ctx, config.NameGMeetAppName, config.DefaultGMeetAppName, err)
		return config.DefaultGMeetAppName
	}
	return v
}

func (o *Opener) warnDefault(ctx context.Context, name, def string, err error) {
	o.logger.Warn(ctx, "preference unusable, using default",
		logger.String("name", name), logger.String("default", def), logger.Error(err))
}
