// Package main implements the buble CLI.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"buble/internal/prof"
	"buble/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "buble",
	Short:         "Fast ES2015+ to ES5 compiler",
	Long:          `Buble compiles modern JavaScript and JSX down to ES5, transforming only what the selected targets lack`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupColor(cmd); err != nil {
			return err
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		session, err := startProfiling(cmd)
		if err != nil {
			cleanup()
			return err
		}
		traceCleanup = func() {
			if perr := session.Stop(); perr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", perr)
			}
			cleanup()
		}
		return nil
	},
}

// traceCleanup сбрасывает трассировщик после выполнения команды.
var traceCleanup = func() {}

// main registers the subcommands and global flags and runs the root command.
// Any error ends the process with status 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("trace", "", "write a trace to a file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the ring trace storage")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to file")
	rootCmd.PersistentFlags().String("exectrace", "", "write a Go execution trace to file")
	addCompileFlags(rootCmd)

	err := rootCmd.Execute()
	traceCleanup()
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// setupColor applies the --color flag to every fatih/color printer.
func setupColor(cmd *cobra.Command) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	mode, err := readUIMode(value)
	if err != nil {
		return err
	}
	color.NoColor = !mode.enabled(isTerminal(os.Stdout))
	return nil
}

// startProfiling starts the runtime profiles named by the profile flags.
func startProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	opts.CPU, _ = flags.GetString("cpuprofile")
	opts.Mem, _ = flags.GetString("memprofile")
	opts.Trace, _ = flags.GetString("exectrace")
	if !opts.Enabled() {
		return nil, nil
	}
	return prof.Start(opts)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
