package version

import "fmt"

// These variables are set at build time using -ldflags
// Example: go build -ldflags "-X github.com/AunSupertramp/ETABS-GlobalCheck/internal/version.Version=1.0.0"
var (
	// Version is the semantic version of the application
	Version = "0.3.0"

	// BuildTime is the time the binary was built (set via ldflags)
	BuildTime = "unknown"

	// GitCommit is the git commit hash (set via ldflags)
	GitCommit = "unknown"

	// Author of the application
	Author = "AunSupertramp"

	// Year of release
	Year = "2025"
)

// Name is the binary name
const Name = "globalcheck"

// String returns a one-line description of the build
func String() string {
	return fmt.Sprintf("%s v%s (commit %s, built %s)", Name, Version, GitCommit, BuildTime)
}
