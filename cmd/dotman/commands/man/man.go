package man

import (
	"github.com/arthur-debert/dotman/internal/cli"
	"github.com/arthur-debert/dotman/internal/version"
	"github.com/arthur-debert/dotman/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// NewCommand creates the hidden man command used by release packaging
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  cli.MsgManShort,
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "DOTMAN",
				Section: "1",
				Source:  "dotman " + version.Version,
				Manual:  "dotman manual",
			}
			if err := doc.GenMan(cmd.Root(), header, cmd.OutOrStdout()); err != nil {
				return errors.Wrap(err, errors.ErrInternal, "generate man page")
			}
			return nil
		},
	}
}
