// Package version carries build metadata injected with ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/sitefreeze/internal/version.Version=v1.2.0"
package version

import "fmt"

// Version is the release version.
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version line printed by --version.
func String() string {
	if GitCommit == "unknown" && BuildTime == "unknown" {
		return "sitefreeze " + Version
	}
	return fmt.Sprintf("sitefreeze %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
