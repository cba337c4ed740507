// Package common holds helpers shared by the command-line binaries.
//
// It maps error kinds to the stable exit codes scripted callers branch on,
// so failure classes can be distinguished without parsing output text.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
