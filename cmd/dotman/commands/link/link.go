package link

import (
	"github.com/arthur-debert/dotman/internal/cli"
	"github.com/arthur-debert/dotman/pkg/sync"
	"github.com/arthur-debert/dotman/pkg/types"
	"github.com/spf13/cobra"
)

// NewCommand creates the link command
func NewCommand(app *cli.App) *cobra.Command {
	var force, dryRun bool

	cmd := &cobra.Command{
		Use:               "link [entry]",
		Short:             MsgShort,
		Long:              MsgLong,
		Example:           MsgExample,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: app.CompleteEntries,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(sync.Options{
				Mode:     types.ModeLinkOnly,
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
