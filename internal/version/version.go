// Package version exposes build-time version information, populated via
// -ldflags at release build time.
package version

var (
	// Version is the semantic version of this build.
	Version = "0.1.0"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// GitCommit is the short commit hash the binary was built from.
	GitCommit = "unknown"
)
