package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh-cache",
	Short: "Rebuild today's event cache",
	Long: `Fetches today's events from the calendar backend and rewrites the
file named by event_cache_path.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	prefs, err := loadPreferences(ctx)
	if err != nil {
		return fmt.Errorf("preferences: %w", err)
	}
	applyLogLevel(ctx, prefs.LogLevel)

	n, err := newService(prefs).RefreshCache(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Cached %d events in %s\n", n, prefs.EventCachePath)
	return nil
}
