package status

import (
	"github.com/arthur-debert/dotman/internal/cli"
	"github.com/arthur-debert/dotman/pkg/sync"
	"github.com/arthur-debert/dotman/pkg/types"
	"github.com/spf13/cobra"
)

// NewCommand creates the status command
func NewCommand(app *cli.App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:               "status [entry]",
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
				DryRun:   true,
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)

	return cmd
}
