// Package cli is the cobra command tree of the ocu binary.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/ocu/internal/adapters/calendar"
	service "github.com/okian/ocu/internal/app"
	"github.com/okian/ocu/internal/config"
	"github.com/okian/ocu/pkg/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	logLevel string
	logJSON  bool
)

// Collaborators replaced in tests.
var (
	loadPreferences = config.Load
	loadStore       = config.LoadStore
	newRunner       = func() calendar.CommandRunner { return calendar.ExecRunner{} }
	serviceOptions  []service.Option
)

// logOutput receives the JSON handler's records.
var logOutput io.Writer = os.Stderr

var rootCmd = &cobra.Command{
	Use:   "ocu",
	Short: "Find and open today's conference calls",
	Long: `ocu reads today's events from the macOS calendar, picks the
conference link of each one and prints them as launcher JSON.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initLogging,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error); overrides log_level")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false,
		"write diagnostic logs as JSON lines")
}

// initLogging swaps the text handler for JSON when --log-json is given.
func initLogging(*cobra.Command, []string) error {
	if !logJSON {
		return nil
	}
	return logger.Init(logger.WithOutput(logOutput), logger.WithJSON(true))
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// applyLogLevel sets the level from --log-level, or from the preference when
// the flag is not given.
func applyLogLevel(ctx context.Context, preferred string) {
	level := preferred
	if logLevel != "" {
		level = logLevel
	}
	if err := logger.SetLevelString(level); err != nil {
		logger.Get().Warn(ctx, "invalid log level; falling back to info",
			logger.String("log_level", level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
}

func newService(prefs *config.Preferences) *service.Service {
	opts := []service.Option{
		service.WithLogger(logger.Named("service")),
		service.WithRunner(newRunner()),
	}
	return service.New(prefs, append(opts, serviceOptions...)...)
}
