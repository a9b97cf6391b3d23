package types

import (
	"io/fs"
)

// FS is the filesystem interface required for dotman operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	// ReadDir returns the directory entries sorted by filename. The listing is
	// fully read before returning, so no handle outlives the call.
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
	// Lstat must report symlinks without following them
	Lstat(name string) (fs.FileInfo, error)
	// EvalSymlinks returns the canonical path of name, following every link
	EvalSymlinks(name string) (string, error)

	// Other operations
	Remove(name string) error
}

// Reporter receives user-facing progress from a run. Implementations decide
// how to render it; the core never prints directly.
type Reporter interface {
	// EntryStarted is called before an entry is processed
	EntryStarted(entry Entry)
	// Generated is called after a template was rendered to path
	Generated(entry string, path string)
	// Outcome is called once per placed leaf
	Outcome(entry string, outcome LinkOutcome)
	// Notice carries a message that is not tied to a leaf
	Notice(level Level, message string)
}
