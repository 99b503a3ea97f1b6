// Package version holds the build stamp of the buble binary. The variables
// are overridden at link time with -ldflags "-X buble/internal/version.Version=...".
package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the compiler.
	Version = "0.20.0-dev"

	// GitCommit is an optional commit hash.
	GitCommit = ""

	// BuildDate is an optional ISO-8601 build date.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric component in its own color.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// String is the one-line version banner.
func String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "buble %s", Colored())
	if GitCommit != "" {
		fmt.Fprintf(&sb, " (%s", GitCommit)
		if BuildDate != "" {
			fmt.Fprintf(&sb, ", %s", BuildDate)
		}
		sb.WriteString(")")
	}
	return sb.String()
}
