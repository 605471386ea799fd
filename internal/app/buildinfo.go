package app

import "fmt"

// Build information populated via -ldflags at build time.
var (
	// BuildVersion is the semantic version of the built binary.
	BuildVersion = "0.0.0-dev"
	// BuildCommit is the VCS commit SHA associated with the build.
	BuildCommit = "unknown"
	// BuildDate is the ISO-8601 timestamp of the build.
	BuildDate = "unknown"
)

// VersionString is the one-line build description printed by "version".
func VersionString() string {
	return fmt.Sprintf("articlefilter %s (commit %s, built %s)", BuildVersion, BuildCommit, BuildDate)
}
