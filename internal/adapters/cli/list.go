package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/ocu/internal/adapters/feedback"
	"github.com/okian/ocu/pkg/metrics"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print today's conference events as launcher JSON",
	Long: `Prints today's events that carry a conference link, imminent ones
first. The output is always a well-formed payload; on failure it holds a
single error item and the command exits non-zero.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	prefs, err := loadPreferences(ctx)
	if err != nil {
		metrics.RecordPreferenceError()
		return writeFailure(cmd, fmt.Errorf("preferences: %w", err))
	}
	applyLogLevel(ctx, prefs.LogLevel)

	payload, err := newService(prefs).List(ctx)
	if err != nil {
		return writeFailure(cmd, err)
	}
	return feedback.Write(cmd.OutOrStdout(), payload)
}

// writeFailure prints the error item and returns err so the process exits 1.
func writeFailure(cmd *cobra.Command, err error) error {
	if werr := feedback.Write(cmd.OutOrStdout(), feedback.ErrorPayload(err)); werr != nil {
		return errors.Join(err, werr)
	}
	return err
}
