package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"buble/internal/driver"
	"buble/internal/project"
	"buble/internal/transform"
)

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		input string
		want  uiMode
		ok    bool
	}{
		{"", uiModeAuto, true},
		{"AUTO", uiModeAuto, true},
		{" on ", uiModeOn, true},
		{"off", uiModeOff, true},
		{"sometimes", "", false},
	}
	for _, tc := range cases {
		got, err := readUIMode(tc.input)
		if (err == nil) != tc.ok {
			t.Fatalf("readUIMode(%q) error = %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("readUIMode(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func newFlagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addCompileFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return cmd
}

func TestApplyFlags(t *testing.T) {
	cmd := newFlagCommand(t,
		"-t", "chrome:55,node:8",
		"-y", "dangerousForOf",
		"-n", "arrow",
		"--object-assign", "true",
		"--no-named-function-expr",
		"-m", "inline",
		"--jobs", "3",
	)
	cfg := project.Default()
	cfg.Transforms = map[string]bool{"letConst": false}
	if err := applyFlags(cmd, cfg); err != nil {
		t.Fatalf("applyFlags: %v", err)
	}

	if got := cfg.Targets(); got["chrome"] != "55" || got["node"] != "8" || len(got) != 2 {
		t.Fatalf("targets = %v", got)
	}
	if !cfg.Transforms["dangerousForOf"] || cfg.Transforms["arrow"] || cfg.Transforms["letConst"] {
		t.Fatalf("transforms = %v", cfg.Transforms)
	}
	if cfg.ObjectAssign != project.DefaultHelper {
		t.Fatalf("objectAssign = %q", cfg.ObjectAssign)
	}
	if cfg.NamedFunctions() {
		t.Fatal("named function expressions should be off")
	}
	if cfg.SourceMap != project.SourceMapInline {
		t.Fatalf("sourceMap = %q", cfg.SourceMap)
	}
	if cfg.Jobs != 3 {
		t.Fatalf("jobs = %d", cfg.Jobs)
	}
}

func TestApplyFlagsKeepsUnsetValues(t *testing.T) {
	cmd := newFlagCommand(t)
	cfg := project.Default()
	cfg.JSX = "h"
	cfg.Target = map[string]project.Version{"ie": "11"}
	if err := applyFlags(cmd, cfg); err != nil {
		t.Fatalf("applyFlags: %v", err)
	}
	if cfg.JSX != "h" || cfg.Target["ie"] != "11" || cfg.SourceMap != project.SourceMapNone {
		t.Fatalf("config changed: %+v", cfg)
	}
}

func TestApplyFlagsRejectsBadTarget(t *testing.T) {
	cmd := newFlagCommand(t, "-t", "chrome")
	if err := applyFlags(cmd, project.Default()); err == nil {
		t.Fatal("expected an error for a target without version")
	}
}

func TestCompileCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a.js")
	if err := os.WriteFile(input, []byte("var f = x => x * 2;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := &cobra.Command{Use: "compile", RunE: runCompile}
	addCompileFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{input, "--no-cache"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got, want := out.String(), "var f = function (x) { return x * 2; };\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestReportCompileError(t *testing.T) {
	color.NoColor = true
	_, err := driver.Compile(context.Background(), []byte("const a = 1;\na = 2;"), "x.js", driver.Options{Transform: transform.DefaultOptions()})
	if err == nil {
		t.Fatal("expected a compile error")
	}
	var buf bytes.Buffer
	reportError(&buf, err)
	got := buf.String()
	if !strings.HasPrefix(got, "error: x.js\nCompileError: a is read-only (2:0)\n") {
		t.Fatalf("report = %q", got)
	}
	if !strings.Contains(got, "a = 2;") {
		t.Fatalf("snippet missing: %q", got)
	}
}

func TestShouldUseTUI(t *testing.T) {
	cases := []struct {
		mode  uiMode
		quiet bool
		files int
		want  bool
	}{
		{uiModeOn, false, 3, true},
		{uiModeOn, true, 1, true},
		{uiModeOff, false, 3, false},
		{uiModeOn, false, 0, false},
		{uiModeAuto, true, 3, false},
		{uiModeAuto, false, 1, false},
	}
	for _, tc := range cases {
		if got := shouldUseTUI(tc.mode, tc.quiet, tc.files); got != tc.want {
			t.Errorf("shouldUseTUI(%s, quiet=%v, files=%d) = %v, want %v", tc.mode, tc.quiet, tc.files, got, tc.want)
		}
	}
}

func TestReadBuildStamp(t *testing.T) {
	short := readBuildStamp(false, false, false)
	if short.GitCommit != "" || short.Transforms != 0 || short.CacheSchema != 0 {
		t.Fatalf("short stamp carries extra fields: %+v", short)
	}

	full := readBuildStamp(true, true, true)
	if full.GitCommit == "" || full.BuildDate == "" {
		t.Fatalf("full stamp misses commit or date: %+v", full)
	}
	if full.CacheSchema != driver.CacheSchema() {
		t.Errorf("cache schema = %d, want %d", full.CacheSchema, driver.CacheSchema())
	}
	if full.Transforms == 0 || !strings.Contains(strings.Join(full.Dangerous, ","), "dangerousForOf") {
		t.Errorf("transform summary = %d %v", full.Transforms, full.Dangerous)
	}

	var buf bytes.Buffer
	writeBuildStamp(&buf, full)
	if !strings.Contains(buf.String(), "cache schema: ") {
		t.Errorf("pretty output:\n%s", buf.String())
	}
}
