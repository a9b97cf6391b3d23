package reconcile

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotman/pkg/errors"
	"github.com/arthur-debert/dotman/pkg/filesystem"
	"github.com/arthur-debert/dotman/pkg/testutil"
	"github.com/arthur-debert/dotman/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo string
	home string
	r    *Reconciler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := testutil.RealPath(t, t.TempDir())
	return &fixture{
		repo: testutil.CreateDir(t, root, "repo"),
		home: testutil.CreateDir(t, root, "home"),
		r:    New(filesystem.NewOS()),
	}
}

func kinds(outcomes []types.LinkOutcome) []types.OutcomeKind {
	out := make([]types.OutcomeKind, len(outcomes))
	for i, o := range outcomes {
		out[i] = o.Kind
	}
	return out
}

func TestPlace_StateMachine(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, f *fixture, src, dest string)
		force    bool
		want     types.OutcomeKind
		linked   bool
		previous string
	}{
		{
			name:   "missing creates",
			want:   types.OutcomeCreated,
			linked: true,
		},
		{
			name:   "missing creates with force",
			force:  true,
			want:   types.OutcomeCreated,
			linked: true,
		},
		{
			name: "regular file conflicts",
			setup: func(t *testing.T, f *fixture, src, dest string) {
				testutil.CreateFile(t, filepath.Dir(dest), filepath.Base(dest), "local edits")
			},
			want: types.OutcomeConflict,
		},
		{
			name: "regular file replaced with force",
			setup: func(t *testing.T, f *fixture, src, dest string) {
				testutil.CreateFile(t, filepath.Dir(dest), filepath.Base(dest), "local edits")
			},
			force:  true,
			want:   types.OutcomeReplaced,
			linked: true,
		},
		{
			name: "broken link cleared",
			setup: func(t *testing.T, f *fixture, src, dest string) {
				testutil.CreateSymlink(t, filepath.Join(f.repo, "gone"), dest)
			},
			want:   types.OutcomeSkippedBrokenLinkCleared,
			linked: true,
		},
		{
			name: "broken link replaced with force",
			setup: func(t *testing.T, f *fixture, src, dest string) {
				testutil.CreateSymlink(t, filepath.Join(f.repo, "gone"), dest)
			},
			force:  true,
			want:   types.OutcomeReplaced,
			linked: true,
		},
		{
			name: "same target is up to date",
			setup: func(t *testing.T, f *fixture, src, dest string) {
				testutil.CreateSymlink(t, src, dest)
			},
			want:   types.OutcomeSkippedUpToDate,
			linked: true,
		},
		{
			name: "same canonical target through another path is up to date",
			setup: func(t *testing.T, f *fixture, src, dest string) {
				alias := filepath.Join(filepath.Dir(f.repo), "alias")
				testutil.CreateSymlink(t, f.repo, alias)
				testutil.CreateSymlink(t, filepath.Join(alias, filepath.Base(src)), dest)
			},
			force: true,
			want:  types.OutcomeSkippedUpToDate,
		},
		{
			name: "other target conflicts",
			setup: func(t *testing.T, f *fixture, src, dest string) {
				other := testutil.CreateFile(t, f.repo, "other", "x")
				testutil.CreateSymlink(t, other, dest)
			},
			want: types.OutcomeConflict,
		},
		{
			name: "other target replaced with force",
			setup: func(t *testing.T, f *fixture, src, dest string) {
				other := testutil.CreateFile(t, f.repo, "other", "x")
				testutil.CreateSymlink(t, other, dest)
			},
			force:  true,
			want:   types.OutcomeReplaced,
			linked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			src := testutil.CreateFile(t, f.repo, ".zshrc", "export EDITOR=vim")
			dest := filepath.Join(f.home, ".zshrc")
			if tt.setup != nil {
				tt.setup(t, f, src, dest)
			}

			outcomes, err := f.r.Place(src, dest, tt.force)
			require.NoError(t, err)
			require.Len(t, outcomes, 1)

			o := outcomes[0]
			assert.Equal(t, tt.want, o.Kind)
			assert.Equal(t, src, o.Source)
			assert.Equal(t, dest, o.Destination)
			assert.False(t, o.DryRun)
			if tt.linked {
				testutil.AssertSymlink(t, dest, src)
			}
		})
	}
}

func TestPlace_ConflictLeavesBytesUnchanged(t *testing.T) {
	f := newFixture(t)
	src := testutil.CreateFile(t, f.repo, "kitty.conf", "from repo")
	dest := testutil.CreateFile(t, f.home, "kitty.conf", "hand edited")
	other := testutil.CreateFile(t, f.home, "other.conf", "x")
	otherLink := filepath.Join(f.home, "linked.conf")
	testutil.CreateSymlink(t, other, otherLink)

	before := testutil.Snapshot(t, f.home)

	outcomes, err := f.r.Place(src, dest, false)
	require.NoError(t, err)
	assert.Equal(t, []types.OutcomeKind{types.OutcomeConflict}, kinds(outcomes))

	outcomes, err = f.r.Place(src, otherLink, false)
	require.NoError(t, err)
	assert.Equal(t, []types.OutcomeKind{types.OutcomeConflict}, kinds(outcomes))
	assert.Equal(t, other, outcomes[0].PreviousTarget)

	assert.Equal(t, before, testutil.Snapshot(t, f.home))
	testutil.AssertFileContent(t, dest, "hand edited")
}

func TestPlace_Idempotent(t *testing.T) {
	f := newFixture(t)
	testutil.CreateFile(t, f.repo, "nvim/init.lua", "-- init")
	testutil.CreateFile(t, f.repo, "nvim/lua/plugins.lua", "return {}")
	testutil.CreateFile(t, f.repo, "nvim/lua/keys.lua", "return {}")
	src := filepath.Join(f.repo, "nvim")
	dest := filepath.Join(f.home, ".config", "nvim")

	first, err := f.r.Place(src, dest, false)
	require.NoError(t, err)
	assert.Equal(t, []types.OutcomeKind{types.OutcomeCreated, types.OutcomeCreated, types.OutcomeCreated}, kinds(first))

	snapshot := testutil.Snapshot(t, f.home)

	second, err := f.r.Place(src, dest, false)
	require.NoError(t, err)
	for _, o := range second {
		assert.Equal(t, types.OutcomeSkippedUpToDate, o.Kind, o.Destination)
	}
	assert.Len(t, second, 3)
	assert.Equal(t, snapshot, testutil.Snapshot(t, f.home))
}

func TestPlace_ForceConverges(t *testing.T) {
	f := newFixture(t)
	testutil.CreateFile(t, f.repo, "cfg/a", "a")
	testutil.CreateFile(t, f.repo, "cfg/b", "b")
	testutil.CreateFile(t, f.repo, "cfg/c", "c")
	src := filepath.Join(f.repo, "cfg")
	dest := filepath.Join(f.home, "cfg")

	testutil.CreateFile(t, dest, "a", "stale copy")
	testutil.CreateSymlink(t, filepath.Join(f.repo, "nowhere"), filepath.Join(dest, "b"))
	testutil.CreateSymlink(t, filepath.Join(f.repo, "cfg", "a"), filepath.Join(dest, "c"))

	outcomes, err := f.r.Place(src, dest, true)
	require.NoError(t, err)
	assert.Equal(t, []types.OutcomeKind{types.OutcomeReplaced, types.OutcomeReplaced, types.OutcomeReplaced}, kinds(outcomes))

	for _, name := range []string{"a", "b", "c"} {
		testutil.AssertSymlink(t, filepath.Join(dest, name), filepath.Join(src, name))
	}

	again, err := f.r.Place(src, dest, true)
	require.NoError(t, err)
	assert.Equal(t, []types.OutcomeKind{types.OutcomeSkippedUpToDate, types.OutcomeSkippedUpToDate, types.OutcomeSkippedUpToDate}, kinds(again))
}

func TestPlace_DirectoryExpansion(t *testing.T) {
	f := newFixture(t)
	testutil.CreateFile(t, f.repo, "alacritty/alacritty.toml", "x")
	testutil.CreateFile(t, f.repo, "alacritty/themes/dark/theme.toml", "y")
	src := filepath.Join(f.repo, "alacritty")
	dest := filepath.Join(f.home, ".config", "alacritty")

	outcomes, err := f.r.Place(src, dest, false)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	// Children in sorted order: alacritty.toml before themes/
	assert.Equal(t, filepath.Join(dest, "alacritty.toml"), outcomes[0].Destination)
	assert.Equal(t, filepath.Join(dest, "themes", "dark", "theme.toml"), outcomes[1].Destination)

	assert.True(t, testutil.DirExists(t, filepath.Join(dest, "themes", "dark")))
	assert.False(t, testutil.SymlinkExists(t, filepath.Join(dest, "themes")), "directories are created, not linked")
	testutil.AssertSymlink(t, filepath.Join(dest, "themes", "dark", "theme.toml"), filepath.Join(src, "themes", "dark", "theme.toml"))
}

func TestPlace_EmptyDirectory(t *testing.T) {
	f := newFixture(t)
	src := testutil.CreateDir(t, f.repo, "empty")

	outcomes, err := f.r.Place(src, filepath.Join(f.home, "empty"), false)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
	assert.True(t, testutil.DirExists(t, filepath.Join(f.home, "empty")))
}

func TestPlace_FileIntoExistingDirectory(t *testing.T) {
	f := newFixture(t)
	src := testutil.CreateFile(t, f.repo, "zsh/.zshrc", "x")

	outcomes, err := f.r.Place(src, f.home, false)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, filepath.Join(f.home, ".zshrc"), outcomes[0].Destination)
	testutil.AssertSymlink(t, filepath.Join(f.home, ".zshrc"), src)
}

func TestPlace_SourceLinksAreLeaves(t *testing.T) {
	f := newFixture(t)
	outside := testutil.CreateFile(t, filepath.Dir(f.repo), "outside/big.txt", "x")
	testutil.CreateFile(t, f.repo, "tree/real", "r")
	testutil.CreateSymlink(t, filepath.Dir(outside), filepath.Join(f.repo, "tree", "shortcut"))
	src := filepath.Join(f.repo, "tree")
	dest := filepath.Join(f.home, "tree")

	outcomes, err := f.r.Place(src, dest, false)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	testutil.AssertSymlink(t, filepath.Join(dest, "shortcut"), filepath.Join(src, "shortcut"))
	assert.True(t, testutil.SymlinkExists(t, filepath.Join(dest, "shortcut")), "linked directories are not expanded")

	again, err := f.r.Place(src, dest, false)
	require.NoError(t, err)
	assert.Equal(t, []types.OutcomeKind{types.OutcomeSkippedUpToDate, types.OutcomeSkippedUpToDate}, kinds(again))
}

func TestPlace_LinkedDirectoryDestination(t *testing.T) {
	f := newFixture(t)
	testutil.CreateFile(t, f.repo, "nvim/init.lua", "x")
	src := filepath.Join(f.repo, "nvim")
	dest := filepath.Join(f.home, "nvim")
	testutil.CreateSymlink(t, src, dest)

	outcomes, err := f.r.Place(src, dest, false)
	require.NoError(t, err)
	assert.Equal(t, []types.OutcomeKind{types.OutcomeSkippedUpToDate}, kinds(outcomes))
}

func TestPlace_MissingSource(t *testing.T) {
	f := newFixture(t)

	_, err := f.r.Place(filepath.Join(f.repo, "nope"), filepath.Join(f.home, "nope"), false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	testutil.AssertNoFile(t, filepath.Join(f.home, "nope"))
}

func TestPlace_BrokenLinkAutoHeal(t *testing.T) {
	f := newFixture(t)
	src := testutil.CreateFile(t, f.repo, "gitconfig", "[user]")
	dest := filepath.Join(f.home, ".gitconfig")
	testutil.CreateSymlink(t, "/definitely/not/here", dest)

	outcomes, err := f.r.Place(src, dest, false)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, types.OutcomeSkippedBrokenLinkCleared, outcomes[0].Kind)
	assert.Equal(t, "/definitely/not/here", outcomes[0].PreviousTarget)
	testutil.AssertSymlink(t, dest, src)
}

func TestPlace_RegularFileBlocksDirectory(t *testing.T) {
	f := newFixture(t)
	testutil.CreateFile(t, f.repo, "conf.d/a", "a")
	src := filepath.Join(f.repo, "conf.d")
	dest := testutil.CreateFile(t, f.home, "conf.d", "a file")

	outcomes, err := f.r.Place(src, dest, false)
	require.NoError(t, err)
	assert.Equal(t, []types.OutcomeKind{types.OutcomeConflict}, kinds(outcomes))
	testutil.AssertFileContent(t, dest, "a file")

	outcomes, err = f.r.Place(src, dest, true)
	require.NoError(t, err)
	assert.Equal(t, []types.OutcomeKind{types.OutcomeCreated}, kinds(outcomes))
	testutil.AssertSymlink(t, filepath.Join(dest, "a"), filepath.Join(src, "a"))
}

func TestPlace_FileIntoDirectoryJoins(t *testing.T) {
	f := newFixture(t)
	src := testutil.CreateFile(t, f.repo, "vimrc", "x")
	dest := filepath.Join(f.home, "vimrc")
	testutil.CreateFile(t, dest, "keep", "precious")

	// dest is a directory, so the file lands inside it as dest/vimrc
	outcomes, err := f.r.Place(src, dest, true)
	require.NoError(t, err)
	assert.Equal(t, []types.OutcomeKind{types.OutcomeCreated}, kinds(outcomes))
	testutil.AssertSymlink(t, filepath.Join(dest, "vimrc"), src)
	testutil.AssertFileContent(t, filepath.Join(dest, "keep"), "precious")
}

func TestPlace_ForceOnNonEmptyDirectoryFails(t *testing.T) {
	f := newFixture(t)
	testutil.CreateFile(t, f.repo, "cfg/a", "a")
	testutil.CreateFile(t, f.repo, "cfg/b", "b")
	src := filepath.Join(f.repo, "cfg")
	dest := filepath.Join(f.home, "cfg")
	testutil.CreateFile(t, dest, "a/keep", "precious")

	outcomes, err := f.r.Place(src, dest, true)
	require.NoError(t, err)
	assert.Equal(t, []types.OutcomeKind{types.OutcomeFailed}, kinds(outcomes))
	assert.True(t, errors.IsErrorCode(outcomes[0].Err, errors.ErrFileRemove))
	testutil.AssertFileContent(t, filepath.Join(dest, "a", "keep"), "precious")
	testutil.AssertNoFile(t, filepath.Join(dest, "b"))
}

func TestDryRun_NoMutation(t *testing.T) {
	f := newFixture(t)
	testutil.CreateFile(t, f.repo, "cfg/a", "a")
	testutil.CreateFile(t, f.repo, "cfg/sub/b", "b")
	testutil.CreateFile(t, f.repo, "cfg/c", "c")
	src := filepath.Join(f.repo, "cfg")
	dest := testutil.CreateDir(t, f.home, "cfg")
	testutil.CreateFile(t, dest, "a", "local")
	testutil.CreateSymlink(t, "/gone", filepath.Join(dest, "c"))

	before := testutil.Snapshot(t, f.home)

	outcomes, err := f.r.DryRun(src, dest, false)
	require.NoError(t, err)
	assert.Equal(t, []types.OutcomeKind{
		types.OutcomeConflict,
		types.OutcomeSkippedBrokenLinkCleared,
		types.OutcomeCreated,
	}, kinds(outcomes))
	for _, o := range outcomes {
		assert.True(t, o.DryRun)
	}

	forced, err := f.r.DryRun(src, dest, true)
	require.NoError(t, err)
	assert.Equal(t, []types.OutcomeKind{
		types.OutcomeReplaced,
		types.OutcomeReplaced,
		types.OutcomeCreated,
	}, kinds(forced))

	assert.Equal(t, before, testutil.Snapshot(t, f.home))
	testutil.AssertNoFile(t, filepath.Join(dest, "sub"))
}

func TestDryRun_MatchesRealRun(t *testing.T) {
	f := newFixture(t)
	testutil.CreateFile(t, f.repo, "x/one", "1")
	testutil.CreateFile(t, f.repo, "x/deep/two", "2")
	src := filepath.Join(f.repo, "x")
	dest := filepath.Join(f.home, "missing", "x")

	planned, err := f.r.DryRun(src, dest, false)
	require.NoError(t, err)
	applied, err := f.r.Place(src, dest, false)
	require.NoError(t, err)

	assert.Equal(t, kinds(planned), kinds(applied))
	for i := range planned {
		assert.Equal(t, planned[i].Destination, applied[i].Destination)
	}
}

func TestPlaceWith_Ignore(t *testing.T) {
	f := newFixture(t)
	testutil.CreateFile(t, f.repo, "cfg/keep.conf", "k")
	testutil.CreateFile(t, f.repo, "cfg/old.bak", "b")
	testutil.CreateFile(t, f.repo, "cfg/.DS_Store", "d")
	testutil.CreateFile(t, f.repo, "cfg/sub/.DS_Store", "d")
	testutil.CreateFile(t, f.repo, "cfg/sub/nested.bak", "n")
	testutil.CreateFile(t, f.repo, "cfg/cache/blob", "c")
	src := filepath.Join(f.repo, "cfg")
	dest := filepath.Join(f.home, "cfg")

	outcomes, err := f.r.PlaceWith(src, dest, Options{Ignore: []string{"*.bak", "**/.DS_Store", "cache"}})
	require.NoError(t, err)

	var placed []string
	for _, o := range outcomes {
		rel, _ := filepath.Rel(dest, o.Destination)
		placed = append(placed, rel)
	}
	assert.Equal(t, []string{"keep.conf", "sub/nested.bak"}, placed, "*.bak only matches at the top level")
	testutil.AssertNoFile(t, filepath.Join(dest, "cache"))

	_, err = f.r.PlaceWith(src, dest, Options{Ignore: []string{"["}})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestPlace_FailedLeafStopsEntry(t *testing.T) {
	m := testutil.NewMemoryFS()
	require.NoError(t, m.MkdirAll("/repo/cfg", 0755))
	require.NoError(t, m.MkdirAll("/home/cfg", 0755))
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, m.WriteFile("/repo/cfg/"+name, []byte(name), 0644))
	}
	require.NoError(t, m.WriteFile("/home/cfg/b", []byte("local"), 0644))
	m.FailOn("remove", "/home/cfg/b", os.ErrPermission)

	outcomes, err := New(m).Place("/repo/cfg", "/home/cfg", true)
	require.NoError(t, err)
	assert.Equal(t, []types.OutcomeKind{types.OutcomeCreated, types.OutcomeFailed}, kinds(outcomes))
	assert.True(t, Failed(outcomes))

	failed := outcomes[1]
	assert.Equal(t, "/home/cfg/b", failed.Destination)
	assert.NotEmpty(t, failed.Reason)
	assert.True(t, errors.IsErrorCode(failed.Err, errors.ErrFileRemove))
	assert.True(t, stderrors.Is(failed.Err, os.ErrPermission))

	_, err = m.Lstat("/home/cfg/c")
	assert.True(t, os.IsNotExist(err), "leaves after a failure are not touched")
}

func TestPlace_SymlinkFailure(t *testing.T) {
	m := testutil.NewMemoryFS()
	require.NoError(t, m.MkdirAll("/repo", 0755))
	require.NoError(t, m.MkdirAll("/home", 0755))
	require.NoError(t, m.WriteFile("/repo/f", []byte("x"), 0644))
	m.FailOn("symlink", "/home/f", os.ErrPermission)

	outcomes, err := New(m).Place("/repo/f", "/home/f", false)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, types.OutcomeFailed, outcomes[0].Kind)
	assert.True(t, errors.IsErrorCode(outcomes[0].Err, errors.ErrSymlinkCreate))
}

func TestPlace_MemoryFS(t *testing.T) {
	m := testutil.NewMemoryFS()
	require.NoError(t, m.MkdirAll("/repo/zsh", 0755))
	require.NoError(t, m.MkdirAll("/home/alice", 0755))
	require.NoError(t, m.WriteFile("/repo/zsh/.zshrc", []byte("x"), 0644))

	r := New(m)
	outcomes, err := r.Place("/repo/zsh/.zshrc", "/home/alice", false)
	require.NoError(t, err)
	assert.Equal(t, []types.OutcomeKind{types.OutcomeCreated}, kinds(outcomes))

	target, err := m.Readlink("/home/alice/.zshrc")
	require.NoError(t, err)
	assert.Equal(t, "/repo/zsh/.zshrc", target)

	_, mutations := m.Stats()
	again, err := r.DryRun("/repo/zsh/.zshrc", "/home/alice", false)
	require.NoError(t, err)
	assert.Equal(t, []types.OutcomeKind{types.OutcomeSkippedUpToDate}, kinds(again))
	_, after := m.Stats()
	assert.Equal(t, mutations, after)
}

func TestPlace_DestinationOverlapsSource(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, f *fixture) (src, dest string)
	}{
		{
			name: "file onto its own directory",
			setup: func(t *testing.T, f *fixture) (string, string) {
				return testutil.CreateFile(t, f.repo, ".zshrc", "export EDITOR=vim"), f.repo
			},
		},
		{
			name: "file onto itself",
			setup: func(t *testing.T, f *fixture) (string, string) {
				src := testutil.CreateFile(t, f.repo, ".zshrc", "export EDITOR=vim")
				return src, src
			},
		},
		{
			name: "file onto itself through a linked directory",
			setup: func(t *testing.T, f *fixture) (string, string) {
				src := testutil.CreateFile(t, f.repo, ".zshrc", "export EDITOR=vim")
				alias := filepath.Join(f.home, "dotfiles")
				testutil.CreateSymlink(t, f.repo, alias)
				return src, filepath.Join(alias, ".zshrc")
			},
		},
		{
			name: "directory onto itself",
			setup: func(t *testing.T, f *fixture) (string, string) {
				testutil.CreateFile(t, f.repo, "nvim/.zshrc", "export EDITOR=vim")
				src := filepath.Join(f.repo, "nvim")
				return src, src
			},
		},
		{
			name: "directory inside itself",
			setup: func(t *testing.T, f *fixture) (string, string) {
				testutil.CreateFile(t, f.repo, "nvim/.zshrc", "export EDITOR=vim")
				src := filepath.Join(f.repo, "nvim")
				return src, filepath.Join(src, "nested")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			src, dest := tt.setup(t, f)
			before := testutil.Snapshot(t, f.repo)

			outcomes, err := f.r.Place(src, dest, true)
			require.NoError(t, err)
			require.Len(t, outcomes, 1)
			assert.Equal(t, types.OutcomeFailed, outcomes[0].Kind)
			assert.True(t, errors.IsErrorCode(outcomes[0].Err, errors.ErrInvalidInput))

			assert.Equal(t, before, testutil.Snapshot(t, f.repo))
			file := src
			if filepath.Base(src) != ".zshrc" {
				file = filepath.Join(src, ".zshrc")
			}
			assert.False(t, testutil.SymlinkExists(t, file))
			testutil.AssertFileContent(t, file, "export EDITOR=vim")
		})
	}
}

func TestPlace_UnreadableLinkTargetFails(t *testing.T) {
	m := testutil.NewMemoryFS()
	require.NoError(t, m.MkdirAll("/repo", 0755))
	require.NoError(t, m.MkdirAll("/home", 0755))
	require.NoError(t, m.MkdirAll("/vault", 0755))
	require.NoError(t, m.WriteFile("/repo/f", []byte("x"), 0644))
	require.NoError(t, m.WriteFile("/vault/f", []byte("secret"), 0644))
	require.NoError(t, m.Symlink("/vault/f", "/home/f"))
	m.FailOn("lstat", "/vault/f", os.ErrPermission)

	outcomes, err := New(m).Place("/repo/f", "/home/f", true)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, types.OutcomeFailed, outcomes[0].Kind)
	assert.True(t, errors.IsErrorCode(outcomes[0].Err, errors.ErrFileAccess))
	assert.True(t, stderrors.Is(outcomes[0].Err, os.ErrPermission))

	target, err := m.Readlink("/home/f")
	require.NoError(t, err)
	assert.Equal(t, "/vault/f", target, "an unreadable link is not cleared")
}

func TestPlace_DanglingLinkKinds(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m *testutil.MemoryFS)
	}{
		{
			name:  "missing target",
			setup: func(m *testutil.MemoryFS) { _ = m.Symlink("/gone/f", "/home/f") },
		},
		{
			name: "target under a regular file",
			setup: func(m *testutil.MemoryFS) {
				_ = m.WriteFile("/home/plain", []byte("x"), 0644)
				_ = m.Symlink("/home/plain/f", "/home/f")
			},
		},
		{
			name: "link loop",
			setup: func(m *testutil.MemoryFS) {
				_ = m.Symlink("/home/g", "/home/f")
				_ = m.Symlink("/home/f", "/home/g")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testutil.NewMemoryFS()
			require.NoError(t, m.MkdirAll("/repo", 0755))
			require.NoError(t, m.MkdirAll("/home", 0755))
			require.NoError(t, m.WriteFile("/repo/f", []byte("x"), 0644))
			tt.setup(m)

			outcomes, err := New(m).Place("/repo/f", "/home/f", false)
			require.NoError(t, err)
			require.Len(t, outcomes, 1)
			assert.Equal(t, types.OutcomeSkippedBrokenLinkCleared, outcomes[0].Kind)

			target, err := m.Readlink("/home/f")
			require.NoError(t, err)
			assert.Equal(t, "/repo/f", target)
		})
	}
}
