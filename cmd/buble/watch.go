package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"buble/internal/driver"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [dir]",
	Short: "Rebuild a project whenever its sources change",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	addReportFlags(watchCmd)
	watchCmd.Flags().Duration("debounce", driver.WatchDebounce, "quiet period before changed files are rebuilt")
}

func runWatch(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	builder, err := newBuilder(cmd, args)
	if err != nil {
		return err
	}
	if d, _ := cmd.Flags().GetDuration("debounce"); d > 0 {
		driver.WatchDebounce = d
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, timer := withTimings(ctx, cmd)

	stamp := color.New(color.Faint)
	report := func(res *driver.BuildResult) {
		if err := printDiagnostics(cmd, res); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "watch: %v\n", err)
		}
		if !quiet(cmd) {
			fmt.Fprint(cmd.ErrOrStderr(), stamp.Sprintf("[%s] ", time.Now().Format("15:04:05")))
			printSummary(cmd.ErrOrStderr(), res)
		}
	}

	if !quiet(cmd) {
		fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (ctrl-c to stop)\n", builder.Root())
	}
	err = builder.Watch(ctx, nil, report)
	printTimings(cmd, timer, nil)
	return err
}
