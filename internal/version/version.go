// Package version holds the engine's build identity, injectable at compile
// time via -ldflags.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	// Version is the semantic version of the engine.
	Version = "0.3.0"

	// GitCommit is the git commit hash the binary was built from.
	GitCommit = "unknown"

	// BuildDate is the date the binary was built.
	BuildDate = "unknown"
)

// GetVersion returns the bare version string.
func GetVersion() string {
	return Version
}

// GetFormattedVersion returns a one-line banner with the version, short
// commit, and build date where known.
func GetFormattedVersion() string {
	if _, err := semver.NewVersion(Version); err != nil {
		return fmt.Sprintf("LineRoute v%s (invalid version)", Version)
	}

	parts := []string{fmt.Sprintf("LineRoute v%s", Version)}
	if GitCommit != "unknown" && GitCommit != "" {
		commit := GitCommit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		parts = append(parts, "commit "+commit)
	}
	if BuildDate != "unknown" && BuildDate != "" {
		parts = append(parts, "built "+BuildDate)
	}
	return strings.Join(parts, ", ")
}
