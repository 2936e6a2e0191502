// Package version exposes build metadata for the generator.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags and default to sensible values for local builds.
// Short is stamped into generated bundles; Full is printed by the CLI.
package version
