// Package reconcile places symbolic links from a source tree into a
// destination tree.
//
// Each leaf is handled by a small state machine keyed on what currently sits
// at the destination:
//
//	destination                 force=false                 force=true
//	missing                     create        Created       create        Created
//	not a link                  leave alone   Conflict      remove+create Replaced
//	broken link                 remove+create BrokenCleared remove+create Replaced
//	link to the same source     nothing       UpToDate      nothing       UpToDate
//	link elsewhere              leave alone   Conflict      remove+create Replaced
//
// Directories in the source are expanded: the destination directory is
// created and every child is placed recursively. Links inside the source tree
// are leaves and are never followed. A filesystem failure yields a Failed
// outcome and stops the remaining leaves of that call.
package reconcile

import (
	stderrors "errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/arthur-debert/dotman/pkg/errors"
	"github.com/arthur-debert/dotman/pkg/logging"
	"github.com/arthur-debert/dotman/pkg/paths"
	"github.com/arthur-debert/dotman/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

// Options tunes a placement
type Options struct {
	// Force replaces conflicting destinations
	Force bool
	// DryRun classifies every leaf without touching the filesystem
	DryRun bool
	// Ignore holds doublestar patterns matched against each path relative to
	// the top-level source. A matching directory is skipped with its subtree.
	Ignore []string
}

// Reconciler places links through a types.FS
type Reconciler struct {
	fs     types.FS
	logger zerolog.Logger
}

// New creates a Reconciler
func New(fsys types.FS) *Reconciler {
	return &Reconciler{
		fs:     fsys,
		logger: logging.GetLogger("reconcile"),
	}
}

// Place links source into destination. Both paths must already be absolute.
// A missing source is an ErrNotFound error; every other problem is reported
// as an outcome.
func (r *Reconciler) Place(source, destination string, force bool) ([]types.LinkOutcome, error) {
	return r.PlaceWith(source, destination, Options{Force: force})
}

// DryRun reports what Place would do without changing anything
func (r *Reconciler) DryRun(source, destination string, force bool) ([]types.LinkOutcome, error) {
	return r.PlaceWith(source, destination, Options{Force: force, DryRun: true})
}

// PlaceWith is Place with the full set of options
func (r *Reconciler) PlaceWith(source, destination string, opts Options) ([]types.LinkOutcome, error) {
	for _, pattern := range opts.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid ignore pattern %q", pattern).
				WithDetail("pattern", pattern)
		}
	}

	canonical, err := paths.Canonicalize(r.fs, source)
	if err != nil {
		return nil, err
	}

	info, err := r.fs.Lstat(canonical)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect source %s", canonical).
			WithDetail("path", canonical)
	}

	// A file placed onto an existing directory lands inside it
	if !info.IsDir() {
		if destInfo, err := r.fs.Stat(destination); err == nil && destInfo.IsDir() {
			destination = filepath.Join(destination, filepath.Base(canonical))
		}
	}

	r.logger.Debug().
		Str("source", canonical).
		Str("destination", destination).
		Bool("force", opts.Force).
		Bool("dryRun", opts.DryRun).
		Msg("Placing")

	p := &placement{r: r, opts: opts}
	p.walk(canonical, destination, ".", info, false)
	return p.outcomes, nil
}

// placement carries the state of one PlaceWith call
type placement struct {
	r        *Reconciler
	opts     Options
	outcomes []types.LinkOutcome
	stopped  bool
}

func (p *placement) record(o types.LinkOutcome) {
	o.DryRun = p.opts.DryRun
	p.outcomes = append(p.outcomes, o)
	if o.Kind == types.OutcomeFailed {
		p.stopped = true
	}

	event := p.r.logger.Debug()
	switch o.Kind.Level() {
	case types.LevelWarning:
		event = p.r.logger.Warn()
	case types.LevelError:
		event = p.r.logger.Error().Err(o.Err)
	}
	event.
		Str("kind", string(o.Kind)).
		Str("source", o.Source).
		Str("destination", o.Destination).
		Str("previous", o.PreviousTarget).
		Bool("dryRun", o.DryRun).
		Msg("Leaf placed")
}

func (p *placement) fail(source, destination string, err error) {
	p.record(types.LinkOutcome{
		Kind:        types.OutcomeFailed,
		Source:      source,
		Destination: destination,
		Reason:      err.Error(),
		Err:         err,
	})
}

func (p *placement) ignored(rel string) bool {
	if rel == "." {
		return false
	}
	for _, pattern := range p.opts.Ignore {
		if doublestar.MatchUnvalidated(pattern, rel) {
			return true
		}
	}
	return false
}

// walk places source, whose Lstat info is given, at destination. virtual is
// set during a dry run once destination lies below a directory that would
// have been created, so nothing can exist there yet.
func (p *placement) walk(source, destination, rel string, info fs.FileInfo, virtual bool) {
	if p.stopped {
		return
	}
	if p.ignored(rel) {
		p.r.logger.Debug().Str("path", rel).Msg("Ignored")
		return
	}

	if !info.IsDir() || info.Mode()&fs.ModeSymlink != 0 {
		if virtual {
			p.record(types.LinkOutcome{Kind: types.OutcomeCreated, Source: source, Destination: destination})
			return
		}
		p.leaf(source, destination)
		return
	}

	if !virtual {
		var proceed bool
		proceed, virtual = p.prepareDir(source, destination)
		if !proceed {
			return
		}
	}

	// Snapshot the children before recursing so links created below never
	// feed back into this listing.
	children, err := p.r.fs.ReadDir(source)
	if err != nil {
		p.fail(source, destination, errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", source))
		return
	}

	for _, child := range children {
		if p.stopped {
			return
		}
		childInfo, err := child.Info()
		if err != nil {
			p.fail(filepath.Join(source, child.Name()), filepath.Join(destination, child.Name()),
				errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", child.Name()))
			return
		}
		p.walk(
			filepath.Join(source, child.Name()),
			filepath.Join(destination, child.Name()),
			path.Join(filepath.ToSlash(rel), child.Name()),
			childInfo,
			virtual,
		)
	}
}

// prepareDir makes destination ready to receive the children of the source
// directory. proceed is false when the directory was handled as a whole or
// cannot be prepared; virtual is true when a dry run skipped creating it.
func (p *placement) prepareDir(source, destination string) (proceed, virtual bool) {
	if p.isSource(source, destination) {
		p.failSelf(source, destination)
		return false, false
	}

	info, err := p.r.fs.Lstat(destination)
	switch {
	case err != nil && !stderrors.Is(err, fs.ErrNotExist):
		p.fail(source, destination, errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", destination))
		return false, false

	case err == nil && info.IsDir():
		return true, false

	case err == nil && info.Mode()&fs.ModeSymlink != 0:
		// A link where a directory is expected is judged like a leaf
		p.leaf(source, destination)
		return false, false

	case err == nil:
		// A regular file blocks the directory
		if !p.opts.Force {
			p.record(types.LinkOutcome{Kind: types.OutcomeConflict, Source: source, Destination: destination})
			return false, false
		}
		if !p.opts.DryRun {
			if err := p.r.fs.Remove(destination); err != nil {
				p.fail(source, destination, errors.Wrapf(err, errors.ErrFileRemove, "cannot remove %s", destination))
				return false, false
			}
		}
	}

	if p.opts.DryRun {
		return true, true
	}
	if err := p.r.fs.MkdirAll(destination, 0755); err != nil {
		p.fail(source, destination, errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory %s", destination))
		return false, false
	}
	return true, false
}

// destState is what currently sits at a leaf's destination
type destState int

const (
	stateMissing destState = iota
	stateNotLink
	stateBroken
	stateSame
	stateDifferent
)

func (p *placement) classify(source, destination string) (destState, string, error) {
	info, err := p.r.fs.Lstat(destination)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return stateMissing, "", nil
		}
		return 0, "", errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", destination)
	}

	if info.Mode()&fs.ModeSymlink == 0 {
		return stateNotLink, "", nil
	}

	previous, err := p.r.fs.Readlink(destination)
	if err != nil {
		return 0, "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read link %s", destination)
	}
	if previous == source {
		return stateSame, previous, nil
	}

	resolved, err := p.r.fs.EvalSymlinks(destination)
	if err != nil {
		if dangling(err) {
			return stateBroken, previous, nil
		}
		return 0, previous, errors.Wrapf(err, errors.ErrFileAccess, "cannot resolve link %s", destination).
			WithDetail("path", destination)
	}

	want, err := p.r.fs.EvalSymlinks(source)
	if err != nil {
		// source is itself a dangling link in the tree
		want = source
	}
	if resolved == want {
		return stateSame, previous, nil
	}
	return stateDifferent, previous, nil
}

// dangling reports whether a link resolution error means the target is gone
// rather than unreadable
func dangling(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist) ||
		stderrors.Is(err, syscall.ENOTDIR) ||
		stderrors.Is(err, syscall.ELOOP)
}

// isSource reports whether destination is source or lies inside it, directly
// or through a linked parent directory
func (p *placement) isSource(source, destination string) bool {
	within := func(path string) bool {
		return path == source || strings.HasPrefix(path, source+string(filepath.Separator))
	}
	if within(destination) {
		return true
	}
	parent, err := p.r.fs.EvalSymlinks(filepath.Dir(destination))
	if err != nil {
		return false
	}
	return within(filepath.Join(parent, filepath.Base(destination)))
}

func (p *placement) failSelf(source, destination string) {
	p.fail(source, destination, errors.Newf(errors.ErrInvalidInput, "destination %s overlaps the source %s", destination, source).
		WithDetail("source", source).
		WithDetail("destination", destination))
}

func (p *placement) leaf(source, destination string) {
	if p.isSource(source, destination) {
		p.failSelf(source, destination)
		return
	}

	state, previous, err := p.classify(source, destination)
	if err != nil {
		p.fail(source, destination, err)
		return
	}

	outcome := types.LinkOutcome{Source: source, Destination: destination, PreviousTarget: previous}
	replace := false

	switch state {
	case stateMissing:
		outcome.Kind = types.OutcomeCreated
	case stateSame:
		outcome.Kind = types.OutcomeSkippedUpToDate
		p.record(outcome)
		return
	case stateBroken:
		replace = true
		outcome.Kind = types.OutcomeSkippedBrokenLinkCleared
		if p.opts.Force {
			outcome.Kind = types.OutcomeReplaced
		}
	case stateNotLink, stateDifferent:
		if !p.opts.Force {
			outcome.Kind = types.OutcomeConflict
			p.record(outcome)
			return
		}
		replace = true
		outcome.Kind = types.OutcomeReplaced
	}

	if p.opts.DryRun {
		p.record(outcome)
		return
	}

	if replace {
		if err := p.r.fs.Remove(destination); err != nil {
			p.fail(source, destination, errors.Wrapf(err, errors.ErrFileRemove, "cannot remove %s", destination))
			return
		}
	}

	if err := p.r.fs.MkdirAll(filepath.Dir(destination), 0755); err != nil {
		p.fail(source, destination, errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory %s", filepath.Dir(destination)))
		return
	}

	if err := p.r.fs.Symlink(source, destination); err != nil {
		p.fail(source, destination, errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s -> %s", destination, source))
		return
	}

	p.record(outcome)
}

// Failed reports whether any outcome is a failure
func Failed(outcomes []types.LinkOutcome) bool {
	for _, o := range outcomes {
		if o.Kind == types.OutcomeFailed {
			return true
		}
	}
	return false
}
