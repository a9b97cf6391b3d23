package list

import (
	"github.com/arthur-debert/dotman/internal/cli"
	"github.com/spf13/cobra"
)

// NewCommand creates the list command
func NewCommand(app *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgShort,
		Long:    MsgLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, declared, err := app.Load()
			if err != nil {
				return err
			}
			reporter, err := app.Reporter(false)
			if err != nil {
				return err
			}
			return reporter.List(path, declared)
		},
	}
}
