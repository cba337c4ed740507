// Package version exposes build metadata for the project.
//
// Version, Commit and BuildTime are injected via ldflags at build time and
// surfaced through the `version` subcommand of both binaries.
package version
