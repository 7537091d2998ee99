package version

import (
	"fmt"
	"runtime"
)

const Program = "deltaparse"

var (
	VersionPrefix = "dev"     // Set via -ldflags
	VersionDate   = "edge"    // Set via -ldflags - Value should be: YYYYMMDD
	CommitHash    = "unknown" // Set via -ldflags
)

// Print returns the version string, e.g. "1.2-20260101-abc1234".
func Print() string {
	return fmt.Sprintf(`%s-%s-%s`, VersionPrefix, VersionDate, CommitHash)
}

// Full returns the version line printed by --version.
func Full() string {
	return fmt.Sprintf("%s %s (%s %s/%s)", Program, Print(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
