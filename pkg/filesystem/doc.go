// Package filesystem provides filesystem implementations for dotman.
//
// This package contains implementations of the types.FS interface:
// the plain OS filesystem and an afero-backed one. The CLI runs on
// afero's OsFs; tests use either the OS or an in-memory afero filesystem.
package filesystem
