// Package version holds build metadata stamped in via ldflags.
package version

//nolint:revive // Overwritten by the build pipeline.
var (
	// Version is the semantic release version.
	Version = "dev"
	// Commit is the git commit hash of the build.
	Commit = "unknown"
	// Date is the build timestamp.
	Date = "unknown"
)
