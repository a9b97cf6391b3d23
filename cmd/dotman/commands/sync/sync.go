package sync

import (
	"github.com/arthur-debert/dotman/internal/cli"
	dotsync "github.com/arthur-debert/dotman/pkg/sync"
	"github.com/arthur-debert/dotman/pkg/types"
	"github.com/spf13/cobra"
)

// NewCommand creates the sync command
func NewCommand(app *cli.App) *cobra.Command {
	var force, dryRun bool

	cmd := &cobra.Command{
		Use:               "sync [entry]",
		Short:             MsgShort,
		Long:              MsgLong,
		Example:           MsgExample,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: app.CompleteEntries,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(dotsync.Options{
				Mode:     types.ModeSyncAll,
				Selector: cli.Selector(args),
				Force:    force,
				DryRun:   dryRun,
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, cli.MsgFlagForce)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, cli.MsgFlagDryRun)

	return cmd
}
