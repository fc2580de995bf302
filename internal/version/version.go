package version

import "fmt"

// Build metadata, overridden with -ldflags "-X github.com/oshokin/cribl-upgrade/internal/version.Version=...".
var (
	Version   = "0.1.0"
	Commit    = "none"
	BuildTime = "unknown"
)

// Full renders the build metadata shown in the help text and the debug log of every run.
func Full() string {
	return fmt.Sprintf("cribl-upgrade %s (commit %s, built %s)", Version, Commit, BuildTime)
}
