// Agentdeck - terminal console client for a remote agent workspace.
package main

import (
	"os"

	"github.com/agentdeck/agentdeck/internal/cli"
	"github.com/agentdeck/agentdeck/internal/version"
)

// Version information, overridden via ldflags on release builds.
var (
	Version   = "v0.3.0"
	BuildTime = "unknown"
)

func main() {
	// Set version in version package (canonical source for all packages)
	// and CLI package (used in help text).
	version.Version = Version
	version.BuildTime = BuildTime
	cli.Version = Version
	cli.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
