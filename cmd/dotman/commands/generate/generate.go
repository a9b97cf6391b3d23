package generate

import (
	"github.com/arthur-debert/dotman/internal/cli"
	"github.com/arthur-debert/dotman/pkg/sync"
	"github.com/arthur-debert/dotman/pkg/types"
	"github.com/spf13/cobra"
)

// NewCommand creates the generate command
func NewCommand(app *cli.App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:               "generate [entry]",
		Short:             MsgShort,
		Long:              MsgLong,
		Example:           MsgExample,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: app.CompleteEntries,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(sync.Options{
				Mode:     types.ModeGenerateOnly,
				Selector: cli.Selector(args),
				DryRun:   dryRun,
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, cli.MsgFlagDryRun)

	return cmd
}
