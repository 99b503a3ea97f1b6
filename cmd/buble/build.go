package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"buble/internal/buildpipeline"
	"buble/internal/driver"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [dir]",
	Short: "Compile every source file of a project",
	Long:  "Compile the sources of a project into its output directory, using buble.toml or .buble.yaml when present.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	addReportFlags(buildCmd)
}

// errBuildFailed signals failed files whose diagnostics are already printed.
var errBuildFailed = errors.New("build failed")

func runBuild(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	builder, err := newBuilder(cmd, args)
	if err != nil {
		return err
	}
	files, err := builder.Sources()
	if err != nil {
		return err
	}

	ctx, timer := withTimings(cmd.Context(), cmd)
	rec := &buildpipeline.Recorder{}

	uiValue, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiValue)
	if err != nil {
		return fmt.Errorf("--ui: %w", err)
	}

	var res *driver.BuildResult
	if shouldUseTUI(mode, quiet(cmd), len(files)) {
		display := make([]string, len(files))
		for i, f := range files {
			display[i] = buildpipeline.DisplayPath(f, builder.Root())
		}
		res, err = runBuildWithUI(ctx, "buble build", builder, files, display, rec)
	} else {
		res, err = builder.BuildFiles(ctx, files, rec)
	}
	if err != nil {
		return err
	}

	if perr := printDiagnostics(cmd, res); perr != nil {
		return perr
	}
	if !quiet(cmd) {
		printSummary(cmd.ErrOrStderr(), res)
	}
	printTimings(cmd, timer, rec)
	if res.Failed() > 0 {
		return errBuildFailed
	}
	return nil
}

// newBuilder loads the project in args[0] (default: the working directory).
func newBuilder(cmd *cobra.Command, args []string) (*driver.Builder, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	cfg, err := loadConfig(cmd, dir)
	if err != nil {
		return nil, err
	}
	opts, err := driverOptions(cmd, cfg)
	if err != nil {
		return nil, err
	}
	if !quiet(cmd) {
		fmt.Fprintln(cmd.ErrOrStderr(), describeTransforms(opts))
	}
	b := driver.NewBuilder(cfg, opts)
	b.MaxDiagnostics = maxDiagnostics(cmd)
	return b, nil
}
