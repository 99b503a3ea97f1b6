package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"buble/internal/driver"
	"buble/internal/observ"
	"buble/internal/project"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] [file|-]",
	Short: "Compile a single file",
	Long:  "Compile one JavaScript file, or standard input, and print the result or write it with -o.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringP("output", "o", "", "write the result to a file instead of stdout")
}

func runCompile(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	input := "-"
	if len(args) > 0 {
		input = args[0]
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	dir := "."
	if input != "-" {
		dir = filepath.Dir(input)
	}
	cfg, err := loadConfig(cmd, dir)
	if err != nil {
		return err
	}
	opts, err := driverOptions(cmd, cfg)
	if err != nil {
		return err
	}
	// без файла вывода карта может быть только встроенной
	if output == "" && opts.SourceMap == project.SourceMapFile {
		opts.SourceMap = project.SourceMapInline
	}

	src, name, err := readInput(cmd.InOrStdin(), input)
	if err != nil {
		return err
	}
	if output != "" {
		opts.Transform.File = filepath.Base(output)
		if rel, rerr := filepath.Rel(filepath.Dir(output), name); rerr == nil && input != "-" {
			opts.Transform.Source = filepath.ToSlash(rel)
		}
	} else if opts.SourceMap != project.SourceMapNone {
		opts.Transform.File = filepath.Base(name)
	}

	ctx, timer := withTimings(cmd.Context(), cmd)
	res, err := driver.Compile(ctx, src, name, opts)
	if err != nil {
		return err
	}

	if output == "" {
		text := res.Render(opts.SourceMap, "")
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		_, err = io.WriteString(cmd.OutOrStdout(), text)
	} else {
		err = writeCompiled(output, res, opts.SourceMap)
	}
	if err != nil {
		return err
	}
	printTimings(cmd, timer, nil)
	return nil
}

func readInput(stdin io.Reader, input string) ([]byte, string, error) {
	if input == "-" {
		src, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return src, "stdin.js", nil
	}
	src, err := os.ReadFile(input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("%s: no such file", input)
		}
		return nil, "", err
	}
	return src, input, nil
}

// writeCompiled writes code, and the map next to it in file mode.
func writeCompiled(output string, res *driver.Result, mode project.SourceMapMode) error {
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	mapName := filepath.Base(output) + ".map"
	if err := os.WriteFile(output, []byte(res.Render(mode, mapName)+"\n"), 0o644); err != nil {
		return err
	}
	if mode == project.SourceMapFile && res.Map != nil {
		return os.WriteFile(output+".map", []byte(res.Map.String()), 0o644)
	}
	return nil
}

// withTimings attaches a phase timer to the command context when --timings
// is set.
func withTimings(ctx context.Context, cmd *cobra.Command) (context.Context, *observ.Timer) {
	if ctx == nil {
		ctx = context.Background()
	}
	show, _ := cmd.Root().PersistentFlags().GetBool("timings")
	if !show {
		return ctx, nil
	}
	timer := observ.NewTimer()
	return observ.WithTimer(ctx, timer), timer
}
