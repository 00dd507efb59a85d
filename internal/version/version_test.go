package version

import (
	"strings"
	"testing"
)

func setBuildInfo(t *testing.T, version, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
	Version, GitCommit, BuildDate = version, commit, date
}

func TestGetVersion(t *testing.T) {
	setBuildInfo(t, "1.4.2", "unknown", "unknown")
	if got := GetVersion(); got != "1.4.2" {
		t.Errorf("GetVersion() = %q, want %q", got, "1.4.2")
	}
}

func TestGetFormattedVersion(t *testing.T) {
	setBuildInfo(t, "0.3.0", "abc1234def5678", "2026-08-01")
	formatted := GetFormattedVersion()
	if !strings.Contains(formatted, "LineRoute v0.3.0") {
		t.Errorf("GetFormattedVersion() = %q, missing product version", formatted)
	}
	if !strings.Contains(formatted, "commit abc1234") {
		t.Errorf("GetFormattedVersion() = %q, expected short commit hash", formatted)
	}
	if !strings.Contains(formatted, "built 2026-08-01") {
		t.Errorf("GetFormattedVersion() = %q, expected build date", formatted)
	}
}

func TestGetFormattedVersionDevelopmentBuild(t *testing.T) {
	setBuildInfo(t, "0.3.0", "unknown", "unknown")
	formatted := GetFormattedVersion()
	if strings.Contains(formatted, "commit") || strings.Contains(formatted, "built") {
		t.Errorf("GetFormattedVersion() = %q, development build should omit commit and date", formatted)
	}
}

func TestGetFormattedVersionInvalidVersion(t *testing.T) {
	setBuildInfo(t, "not-a-version", "abc1234", "2026-08-01")
	formatted := GetFormattedVersion()
	if !strings.Contains(formatted, "invalid version") {
		t.Errorf("GetFormattedVersion() = %q, expected invalid version marker", formatted)
	}
}
