// Package build provides version and build information for gitjournal.
// This package intentionally has no dependencies on other internal packages
// to avoid import cycles.
package build

import (
	"fmt"
	"runtime"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// ShortCommit returns the first 8 characters of Commit.
func ShortCommit() string {
	if len(Commit) > 8 {
		return Commit[:8]
	}
	return Commit
}

// Summary returns a one-line description of the build.
func Summary() string {
	return fmt.Sprintf("gitjournal %s (%s, built %s, %s %s/%s)",
		Version, ShortCommit(), BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
