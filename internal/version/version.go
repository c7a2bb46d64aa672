package version

import "runtime"

// Version information set via ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns a formatted version string
func FullVersion() string {
	platform := " (" + runtime.GOOS + "/" + runtime.GOARCH + ")"
	if Version == "dev" {
		return "tcpping development build" + platform
	}
	return "tcpping version " + Version + platform + " (commit: " + GitCommit + ", built: " + BuildDate + ")"
}
