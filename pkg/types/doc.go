// Package types defines the core types and interfaces used throughout dotman.
// This includes the declared Entry set loaded from the manifest, the
// VariableMapping fed to templates, per-leaf LinkOutcomes, the RunReport, and
// the FS and Reporter interfaces.
package types
