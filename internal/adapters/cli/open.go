package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/ocu/internal/adapters/opener"
	"github.com/okian/ocu/internal/config"
	"github.com/okian/ocu/pkg/logger"
)

var openCmd = &cobra.Command{
	Use:   "open <url>",
	Short: "Open a conference URL",
	Long: `Opens the URL with the default handler. Google Meet links are sent
to the app named by gmeet_app_name when use_direct_gmeet is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.Named("opener")

	store, err := loadStore(ctx)
	if err != nil {
		log.Warn(ctx, "could not load preference file, using environment only", logger.Error(err))
		store = config.NewStore(config.EnvLookup)
	}
	level, _ := store.StringOr(config.NameLogLevel, "info")
	applyLogLevel(ctx, level)

	return opener.New(store, newRunner(), opener.WithLogger(log)).Open(ctx, args[0])
}
