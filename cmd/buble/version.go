package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"buble/internal/driver"
	"buble/internal/target"
	"buble/internal/version"
)

// buildStamp is what `buble version` can tell about the running compiler:
// the link-time stamp plus the transform set and cache layout that decide
// whether outputs of two binaries are interchangeable.
type buildStamp struct {
	Tool         string   `json:"tool"`
	Version      string   `json:"version"`
	GitCommit    string   `json:"git_commit,omitempty"`
	BuildDate    string   `json:"build_date,omitempty"`
	Transforms   int      `json:"transforms,omitempty"`
	Dangerous    []string `json:"dangerous,omitempty"`
	Environments []string `json:"environments,omitempty"`
	CacheSchema  uint16   `json:"cache_schema,omitempty"`
}

var (
	versionFormat   string
	versionShowHash bool
	versionShowDate bool
	versionShowFull bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShowHash, "hash", false, "include git commit hash")
	versionCmd.Flags().BoolVar(&versionShowDate, "date", false, "include build timestamp")
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "also list transforms, target environments and cache schema")
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the compiler version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(versionFormat)
		if format != "pretty" && format != "json" {
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}

		stamp := readBuildStamp(versionShowHash || versionShowFull, versionShowDate || versionShowFull, versionShowFull)
		if format == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stamp)
		}
		writeBuildStamp(cmd.OutOrStdout(), stamp)
		return nil
	},
}

func readBuildStamp(hash, date, full bool) buildStamp {
	s := buildStamp{Tool: "buble", Version: strings.TrimSpace(version.Version)}
	if s.Version == "" {
		s.Version = "dev"
	}
	if hash {
		s.GitCommit = orUnknown(version.GitCommit)
	}
	if date {
		s.BuildDate = orUnknown(version.BuildDate)
	}
	if full {
		for _, f := range target.Features() {
			if f.Dangerous() {
				s.Dangerous = append(s.Dangerous, f.String())
				continue
			}
			s.Transforms++
		}
		s.Environments = target.Environments()
		s.CacheSchema = driver.CacheSchema()
	}
	return s
}

func writeBuildStamp(out io.Writer, s buildStamp) {
	fmt.Fprintf(out, "buble %s\n", version.Colored())
	if s.GitCommit != "" {
		fmt.Fprintf(out, "commit:       %s\n", s.GitCommit)
	}
	if s.BuildDate != "" {
		fmt.Fprintf(out, "built:        %s\n", s.BuildDate)
	}
	if s.Transforms > 0 {
		fmt.Fprintf(out, "transforms:   %d (opt-in: %s)\n", s.Transforms, strings.Join(s.Dangerous, ", "))
		fmt.Fprintf(out, "environments: %s\n", strings.Join(s.Environments, " "))
		fmt.Fprintf(out, "cache schema: %d\n", s.CacheSchema)
	}
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
