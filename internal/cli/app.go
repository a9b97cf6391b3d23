// Package cli holds what every dotman subcommand shares: global flag values,
// manifest loading, output selection and the wiring of the run orchestrator.
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/dotman/pkg/filesystem"
	"github.com/arthur-debert/dotman/pkg/logging"
	"github.com/arthur-debert/dotman/pkg/manifest"
	"github.com/arthur-debert/dotman/pkg/palette"
	"github.com/arthur-debert/dotman/pkg/sync"
	"github.com/arthur-debert/dotman/pkg/types"
	"github.com/arthur-debert/dotman/pkg/ui"
	"github.com/arthur-debert/dotman/pkg/ui/output"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// App carries the global options and collaborators of one invocation
type App struct {
	ManifestPath string
	Verbosity    int
	Format       string
	NoColor      bool

	Stdout io.Writer
	Stderr io.Writer
	FS     types.FS
	// Palette derives template variables; nil uses the Material provider
	Palette palette.Provider
}

// NewApp creates an App bound to the real filesystem and standard streams
func NewApp() *App {
	return &App{
		Format: ui.FormatAuto.String(),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		FS:     filesystem.NewAferoFS(afero.NewOsFs()),
	}
}

// Bind registers the global flags on root
func (a *App) Bind(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringVarP(&a.ManifestPath, "manifest", "m", "", MsgFlagManifest)
	flags.CountVarP(&a.Verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&a.Format, "format", a.Format, MsgFlagFormat)
	flags.BoolVar(&a.NoColor, "no-color", false, MsgFlagNoColor)
}

// OutputFormat parses --format and resolves auto against stdout
func (a *App) OutputFormat() (ui.Format, error) {
	format, err := ui.ParseFormat(a.Format)
	if err != nil {
		return ui.FormatText, err
	}
	if f, ok := a.Stdout.(*os.File); ok {
		return ui.Resolve(format, f, a.NoColor), nil
	}
	if format == ui.FormatAuto || (a.NoColor && format == ui.FormatTerminal) {
		return ui.FormatText, nil
	}
	return format, nil
}

// Reporter creates the output reporter for this invocation
func (a *App) Reporter(dryRun bool) (*output.Reporter, error) {
	format, err := a.OutputFormat()
	if err != nil {
		return nil, err
	}
	return output.NewReporter(a.Stdout, format, dryRun), nil
}

// Load locates and loads the manifest. It returns the path that was used.
func (a *App) Load() (string, *types.DeclaredSet, error) {
	path := manifest.Locate(a.ManifestPath)
	logger := logging.GetLogger("cli")
	logger.Debug().Str("manifest", path).Msg("Using manifest")

	declared, err := manifest.Load(path)
	if err != nil {
		return path, nil, err
	}
	return path, declared, nil
}

// Orchestrator wires a run orchestrator that reports to reporter
func (a *App) Orchestrator(reporter types.Reporter) *sync.Orchestrator {
	provider := a.Palette
	if provider == nil {
		provider = palette.NewMaterial(a.FS)
	}
	return sync.New(a.FS, provider, reporter)
}

// Run loads the manifest, runs opts and prints the summary. The run error,
// if any, is returned after the summary so partial results are visible.
func (a *App) Run(opts sync.Options) error {
	_, declared, err := a.Load()
	if err != nil {
		return err
	}

	reporter, err := a.Reporter(opts.DryRun)
	if err != nil {
		return err
	}

	report, runErr := a.Orchestrator(reporter).Run(declared, opts)
	if err := reporter.Summary(report); err != nil {
		return err
	}
	return runErr
}

// CompleteEntries offers entry names from the manifest for the first
// positional argument
func (a *App) CompleteEntries(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	_, declared, err := a.Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, name := range declared.Names() {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// Selector returns the optional entry name argument
func Selector(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
