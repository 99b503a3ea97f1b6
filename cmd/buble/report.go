package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"buble/internal/buildpipeline"
	"buble/internal/diag"
	"buble/internal/diagfmt"
	"buble/internal/driver"
	"buble/internal/observ"
	"buble/internal/project"
	"buble/internal/target"
	"buble/internal/version"
)

// addReportFlags registers the diagnostic output flags of build and watch.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|sarif|short)")
	cmd.Flags().String("path-mode", "relative", "file paths in diagnostics (auto|absolute|relative|basename)")
	cmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
}

// printDiagnostics writes the diagnostics of a build in the chosen format.
func printDiagnostics(cmd *cobra.Command, res *driver.BuildResult) error {
	format, _ := cmd.Flags().GetString("format")
	pathValue, _ := cmd.Flags().GetString("path-mode")
	pathMode, ok := diagfmt.ParsePathMode(pathValue)
	if !ok {
		return fmt.Errorf("invalid --path-mode %q", pathValue)
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "pretty":
		if res.Bag.Len() == 0 {
			return nil
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     !color.NoColor,
			Context:   2,
			PathMode:  pathMode,
			ShowNotes: true,
		})
		return nil
	case "json":
		return diagfmt.JSON(out, res.Bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			Max:              maxDiagnostics(cmd),
			IncludeNotes:     true,
		})
	case "short":
		if text := diag.FormatShortDiagnostics(res.Bag.Items(), res.FileSet, true); text != "" {
			_, err := fmt.Fprintln(out, text)
			return err
		}
		return nil
	case "sarif":
		return diagfmt.Sarif(out, res.Bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "buble",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args,
		})
	}
	return fmt.Errorf("unknown --format %q (expected pretty|json|sarif|short)", format)
}

// printSummary prints the one-line outcome of a build.
func printSummary(w io.Writer, res *driver.BuildResult) {
	cached := 0
	for i := range res.Files {
		if res.Files[i].Cached {
			cached++
		}
	}
	failed := res.Failed()
	built := len(res.Files) - failed

	line := fmt.Sprintf("compiled %d file(s)", built)
	if cached > 0 {
		line += fmt.Sprintf(" (%d cached)", cached)
	}
	line += fmt.Sprintf(" in %.1f ms", toMillis(res.Elapsed))
	if failed > 0 {
		line += ", " + color.New(color.FgRed, color.Bold).Sprintf("%d failed", failed)
	}
	fmt.Fprintln(w, line)
}

// printTimings writes the stage totals and the phase timer when --timings
// is set.
func printTimings(cmd *cobra.Command, timer *observ.Timer, rec *buildpipeline.Recorder) {
	if timer == nil {
		return
	}
	w := cmd.ErrOrStderr()
	if rec != nil {
		printStageTimings(w, rec.Timings())
	}
	fmt.Fprint(w, timer.Summary())
}

// reportError prints a failed command. Compile errors carry their own
// source frame.
func reportError(w io.Writer, err error) {
	label := color.New(color.FgRed, color.Bold).Sprint("error:")

	var ce *diag.CompileError
	if errors.As(err, &ce) {
		if ce.Path != "" {
			fmt.Fprintf(w, "%s %s\n", label, ce.Path)
		}
		fmt.Fprintln(w, ce.Format())
		return
	}
	var te *target.Error
	if errors.As(err, &te) {
		fmt.Fprintf(w, "%s %s [%s]\n", label, te.Msg, te.Code.ID())
		return
	}
	var pe *project.Error
	if errors.As(err, &pe) {
		fmt.Fprintf(w, "%s %v [%s]\n", label, pe, pe.Code().ID())
		return
	}
	fmt.Fprintf(w, "%s %v\n", label, err)
}
