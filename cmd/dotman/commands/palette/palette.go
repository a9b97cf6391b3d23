package palette

import (
	"github.com/arthur-debert/dotman/internal/cli"
	"github.com/spf13/cobra"
)

// NewCommand creates the palette command
func NewCommand(app *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:     "palette",
		Short:   MsgShort,
		Long:    MsgLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, declared, err := app.Load()
			if err != nil {
				return err
			}
			reporter, err := app.Reporter(false)
			if err != nil {
				return err
			}
			vars, err := app.Orchestrator(reporter).Variables(declared)
			if err != nil {
				return err
			}
			return reporter.Variables(vars)
		},
	}
}
