package version

import "fmt"

// Build metadata, overridden through ldflags by the release pipeline. The
// defaults identify a local development build.
var (
	// Version is the release version.
	Version = "dev"
	// Commit is the short hash of the commit the binary was built from.
	Commit = "none"
	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)

// Short returns only the release version.
func Short() string {
	return Version
}

// Full returns the release version together with the commit and build time.
func Full() string {
	return fmt.Sprintf("app-packager %s (commit %s, built %s)", Version, Commit, BuildTime)
}
