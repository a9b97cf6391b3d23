// Package sync coordinates a run: it selects entries, derives the palette,
// renders templates and places links, and collects a RunReport.
//
// Runs are synchronous and follow the declared entry order. Fatal errors
// (environment, missing sources, templates, palette) stop the run at once.
// Conflicts are warnings. A failed leaf stops its own entry and the run
// carries on, returning ErrRunFailed at the end.
package sync

import (
	"strings"

	"github.com/arthur-debert/dotman/pkg/errors"
	"github.com/arthur-debert/dotman/pkg/logging"
	"github.com/arthur-debert/dotman/pkg/palette"
	"github.com/arthur-debert/dotman/pkg/paths"
	"github.com/arthur-debert/dotman/pkg/reconcile"
	"github.com/arthur-debert/dotman/pkg/render"
	"github.com/arthur-debert/dotman/pkg/types"
	"github.com/rs/zerolog"
)

// Options selects what a run does
type Options struct {
	Mode types.Mode
	// Selector names a single entry; empty means every entry
	Selector string
	Force    bool
	DryRun   bool
}

// Orchestrator runs declared sets against a filesystem
type Orchestrator struct {
	fs         types.FS
	reconciler *reconcile.Reconciler
	renderer   *render.Renderer
	palette    palette.Provider
	reporter   types.Reporter
	logger     zerolog.Logger
}

// New creates an Orchestrator. A nil reporter discards progress.
func New(fsys types.FS, provider palette.Provider, reporter types.Reporter) *Orchestrator {
	if reporter == nil {
		reporter = discard{}
	}
	return &Orchestrator{
		fs:         fsys,
		reconciler: reconcile.New(fsys),
		renderer:   render.New(fsys),
		palette:    provider,
		reporter:   reporter,
		logger:     logging.GetLogger("sync"),
	}
}

// resolved is an entry whose paths have been made absolute
type resolved struct {
	types.Entry
	declared types.Entry
}

// Run executes opts.Mode over the selected entries of declared. The report is
// returned even when the run fails part way, covering the entries processed.
func (o *Orchestrator) Run(declared *types.DeclaredSet, opts Options) (*types.RunReport, error) {
	if opts.Mode == "" {
		opts.Mode = types.ModeSyncAll
	}
	report := &types.RunReport{
		Mode:    opts.Mode,
		Force:   opts.Force,
		DryRun:  opts.DryRun,
		Entries: []types.EntryResult{},
	}

	selected, err := selectEntries(declared, opts.Selector)
	if err != nil {
		return report, err
	}

	o.logger.Info().
		Str("mode", string(opts.Mode)).
		Int("entries", len(selected)).
		Bool("force", opts.Force).
		Bool("dryRun", opts.DryRun).
		Msg("Starting run")

	// Resolve every path before anything is touched
	resolver := paths.NewResolver(declared.BaseDir())
	entries := make([]resolved, 0, len(selected))
	for _, entry := range selected {
		r, err := resolveEntry(resolver, entry)
		if err != nil {
			return report, errors.Context(err, "entry %q: resolve", entry.Name)
		}
		entries = append(entries, r)
	}

	var vars types.VariableMapping
	if opts.Mode.Renders() {
		if hasTemplates(entries) {
			vars, err = o.variables(declared, resolver)
			if err != nil {
				return report, err
			}
			report.PaletteDerived = true
		} else {
			o.reporter.Notice(types.LevelInfo, "no selected entry has a template, palette skipped")
		}
	}

	for _, entry := range entries {
		result, err := o.runEntry(entry, vars, declared.Ignore(), opts)
		report.Entries = append(report.Entries, result)
		if err != nil {
			return report, err
		}
	}

	if failed := report.FailedEntries(); len(failed) > 0 {
		return report, errors.Newf(errors.ErrRunFailed, "%d entries failed: %s", len(failed), strings.Join(failed, ", ")).
			WithDetail("entries", failed)
	}

	o.logger.Info().Int("entries", len(report.Entries)).Msg("Run complete")
	return report, nil
}

func selectEntries(declared *types.DeclaredSet, selector string) ([]types.Entry, error) {
	if selector == "" {
		return declared.Entries(), nil
	}
	entry, ok := declared.Get(selector)
	if !ok {
		return nil, errors.Newf(errors.ErrNotFound, "no entry named %q", selector).
			WithDetail("entry", selector).
			WithDetail("available", declared.Names())
	}
	return []types.Entry{entry}, nil
}

func resolveEntry(resolver *paths.Resolver, entry types.Entry) (resolved, error) {
	out := resolved{Entry: entry, declared: entry}

	var err error
	if out.Source, err = resolver.Resolve(entry.Source); err != nil {
		return out, err
	}
	if out.Destination, err = resolver.Resolve(entry.Destination); err != nil {
		return out, err
	}
	if entry.HasTemplate() {
		if out.Template, err = resolver.Resolve(entry.Template); err != nil {
			return out, err
		}
	}
	return out, nil
}

func hasTemplates(entries []resolved) bool {
	for _, e := range entries {
		if e.HasTemplate() {
			return true
		}
	}
	return false
}

// Variables derives the mapping the templates of declared receive
func (o *Orchestrator) Variables(declared *types.DeclaredSet) (types.VariableMapping, error) {
	return o.variables(declared, paths.NewResolver(declared.BaseDir()))
}

// variables derives the mapping shared by every template of the run
func (o *Orchestrator) variables(declared *types.DeclaredSet, resolver *paths.Resolver) (types.VariableMapping, error) {
	if declared.Wallpaper() == "" {
		return nil, errors.New(errors.ErrMissingWallpaper,
			"templates need a palette but the manifest declares no wallpaper")
	}

	wallpaper, err := resolver.Resolve(declared.Wallpaper())
	if err != nil {
		return nil, errors.Context(err, "resolve wallpaper")
	}
	wallpaper, err = paths.Canonicalize(o.fs, wallpaper)
	if err != nil {
		return nil, errors.Context(err, "resolve wallpaper")
	}

	if o.palette == nil {
		return nil, errors.New(errors.ErrInternal, "no palette provider configured")
	}

	o.logger.Debug().Str("wallpaper", wallpaper).Str("theme", string(declared.Theme())).Msg("Deriving palette")
	derived, err := o.palette.Derive(wallpaper, declared.Theme())
	if err != nil {
		if errors.GetErrorCode(err) == errors.ErrUnknown {
			return nil, errors.Wrapf(err, errors.ErrPaletteExtraction, "derive palette from %s", wallpaper)
		}
		return nil, errors.Context(err, "derive palette from %s", wallpaper)
	}

	vars := make(types.VariableMapping, len(derived)+2)
	for k, v := range derived {
		vars[k] = v
	}
	vars[types.VarWallpaper] = wallpaper
	vars[types.VarTheme] = string(declared.Theme())
	return vars, nil
}

func (o *Orchestrator) runEntry(entry resolved, vars types.VariableMapping, global []string, opts Options) (types.EntryResult, error) {
	result := types.EntryResult{Name: entry.Name}
	defer logging.LogOperationStart(o.logger.With().Str("entry", entry.Name).Logger(), "entry")()
	o.reporter.EntryStarted(entry.declared)

	rendered := false
	if opts.Mode.Renders() && entry.HasTemplate() {
		if err := o.render(entry, vars, opts.DryRun); err != nil {
			return result, errors.Context(err, "entry %q: render template", entry.Name)
		}
		result.Generated = entry.Source
		rendered = true
		o.reporter.Generated(entry.Name, entry.Source)
	}

	if !opts.Mode.Links() {
		return result, nil
	}

	// In a dry run a template output may not exist yet
	if opts.DryRun && rendered {
		if _, err := o.fs.Lstat(entry.Source); err != nil {
			o.reporter.Notice(types.LevelInfo, "entry "+entry.Name+": "+entry.Source+" would be linked once rendered")
			return result, nil
		}
	}

	outcomes, err := o.reconciler.PlaceWith(entry.Source, entry.Destination, reconcile.Options{
		Force:  opts.Force,
		DryRun: opts.DryRun,
		Ignore: append(append([]string(nil), global...), entry.Ignore...),
	})
	if err != nil {
		return result, errors.Context(err, "entry %q: link", entry.Name)
	}

	result.Outcomes = outcomes
	result.Failed = reconcile.Failed(outcomes)
	for _, outcome := range outcomes {
		o.reporter.Outcome(entry.Name, outcome)
	}
	if result.Failed {
		o.logger.Error().Str("entry", entry.Name).Msg("Entry stopped on a failed leaf")
	}
	return result, nil
}

func (o *Orchestrator) render(entry resolved, vars types.VariableMapping, dryRun bool) error {
	if dryRun {
		_, _, err := o.renderer.Preview(entry.Entry, vars)
		return err
	}
	return o.renderer.Materialize(entry.Entry, vars)
}

type discard struct{}

func (discard) EntryStarted(types.Entry)          {}
func (discard) Generated(string, string)          {}
func (discard) Outcome(string, types.LinkOutcome) {}
func (discard) Notice(types.Level, string)        {}
