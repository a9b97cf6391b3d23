// Package testutil provides utilities for testing dotman components.
//
// Key components:
//   - File helpers: CreateFile, CreateDir, CreateSymlink and matching assertions
//     for tests that need a real filesystem (symlink semantics)
//   - Snapshot: captures a directory tree so tests can assert nothing changed
//   - MemoryFS: in-memory types.FS with symlinks and error injection
//   - NewTestFS: afero MemMapFs behind types.FS, for content-only tests
//
// Usage guidelines:
//   - Reconciliation tests use t.TempDir() or MemoryFS, never the user's home
//   - All test data should be defined inline, not in external files
//   - Each test should be completely isolated with no shared state
package testutil
