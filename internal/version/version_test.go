package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestStringWithoutColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	Version, GitCommit, BuildDate = "1.2.3-rc1", "abc123", "2024-01-15"
	if got, want := String(), "buble 1.2.3-rc1 (abc123, 2024-01-15)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestColoredKeepsOddVersions(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "dev"
	if Colored() != "dev" {
		t.Errorf("Colored() = %q", Colored())
	}
	Version = "0.20.0"
	if !strings.Contains(Colored(), "20") {
		t.Errorf("Colored() = %q", Colored())
	}
}
