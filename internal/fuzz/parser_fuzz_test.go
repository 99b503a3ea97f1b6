package fuzztests

import (
	"context"
	"errors"
	"testing"
	"time"

	"buble/internal/diag"
	"buble/internal/driver"
	"buble/internal/parser"
	"buble/internal/source"
	"buble/internal/transform"
)

// parseTimeout is the maximum time allowed for one input. If compiling takes
// longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzParserBuildsTree(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.js", input)

		res, err := parser.ParseFile(context.Background(), fs.Get(fileID))
		if err != nil {
			var ce *diag.CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("parse error is %T, want *diag.CompileError: %v", err, err)
			}
			return
		}
		if res.Tree == nil || !res.Tree.Root.IsValid() {
			t.Fatalf("parse succeeded without a tree")
		}
	})
}

// FuzzCompileNoHang runs the whole pipeline with every transform enabled
// and checks that it finishes and fails only with compile errors.
func FuzzCompileNoHang(f *testing.F) {
	addCorpusSeeds(f)

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		opts := driver.Options{Transform: transform.DefaultOptions()}
		opts.Transform.ObjectAssign = "Object.assign"

		done := make(chan error, 1)
		go func() {
			_, err := driver.Compile(ctx, input, "fuzz.js", opts)
			done <- err
		}()

		select {
		case err := <-done:
			var ce *diag.CompileError
			if err != nil && !errors.As(err, &ce) {
				t.Fatalf("compile error is %T, want *diag.CompileError: %v", err, err)
			}
		case <-ctx.Done():
			t.Fatalf("compile hang detected: took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}
