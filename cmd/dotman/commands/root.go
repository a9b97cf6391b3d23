// Package commands assembles the dotman command tree
package commands

import (
	"github.com/arthur-debert/dotman/cmd/dotman/commands/completion"
	"github.com/arthur-debert/dotman/cmd/dotman/commands/generate"
	"github.com/arthur-debert/dotman/cmd/dotman/commands/link"
	"github.com/arthur-debert/dotman/cmd/dotman/commands/list"
	"github.com/arthur-debert/dotman/cmd/dotman/commands/man"
	"github.com/arthur-debert/dotman/cmd/dotman/commands/palette"
	"github.com/arthur-debert/dotman/cmd/dotman/commands/status"
	"github.com/arthur-debert/dotman/cmd/dotman/commands/sync"
	"github.com/arthur-debert/dotman/cmd/dotman/commands/version"
	"github.com/arthur-debert/dotman/internal/cli"
	internalversion "github.com/arthur-debert/dotman/internal/version"
	"github.com/arthur-debert/dotman/pkg/cobrax/topics"
	"github.com/arthur-debert/dotman/pkg/errors"
	"github.com/arthur-debert/dotman/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command bound to the real filesystem
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithApp(cli.NewApp())
}

// NewRootCmdWithApp creates the root command around app
func NewRootCmdWithApp(app *cli.App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "dotman",
		Short:   cli.MsgRootShort,
		Long:    cli.MsgRootLong,
		Version: internalversion.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logging.Options{
				Verbosity: app.Verbosity,
				Console:   app.Stderr,
				NoColor:   app.NoColor,
			})
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: show help but still fail
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, cli.MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	app.Bind(rootCmd)
	rootCmd.SetOut(app.Stdout)
	rootCmd.SetErr(app.Stderr)

	// topics provides the help command
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(sync.NewCommand(app))
	rootCmd.AddCommand(link.NewCommand(app))
	rootCmd.AddCommand(generate.NewCommand(app))
	rootCmd.AddCommand(status.NewCommand(app))
	rootCmd.AddCommand(list.NewCommand(app))
	rootCmd.AddCommand(palette.NewCommand(app))
	rootCmd.AddCommand(version.NewCommand())
	rootCmd.AddCommand(completion.NewCommand())
	rootCmd.AddCommand(man.NewCommand())

	opts := topics.Options{
		Extensions: []string{".md", ".txt"},
		Renderer:   topics.NewGlamourRenderer(),
	}
	if err := topics.InitializeWithOptions(rootCmd, cli.Topics(), opts); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}
