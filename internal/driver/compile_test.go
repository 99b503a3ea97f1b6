package driver_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"buble/internal/diag"
	"buble/internal/driver"
	"buble/internal/observ"
	"buble/internal/project"
	"buble/internal/target"
	"buble/internal/trace"
)

func defaultOptions(t *testing.T) driver.Options {
	t.Helper()
	opts, err := driver.OptionsFromConfig(project.Default())
	require.NoError(t, err)
	return opts
}

func TestCompile(t *testing.T) {
	res, err := driver.Compile(context.Background(), []byte("var f = x => x * 2;"), "a.js", defaultOptions(t))
	require.NoError(t, err)
	require.Equal(t, "var f = function (x) { return x * 2; };", res.Code)
	require.False(t, res.Cached)
	require.NotNil(t, res.Map)
}

func TestCompileStripsBOM(t *testing.T) {
	res, err := driver.Compile(context.Background(), []byte("\xEF\xBB\xBFvar a = 1;"), "bom.js", defaultOptions(t))
	require.NoError(t, err)
	require.Equal(t, "var a = 1;", res.Code)
}

func TestCompileErrorIsLocated(t *testing.T) {
	_, err := driver.Compile(context.Background(), []byte("const a = 1;\na = 2;"), "bad.js", defaultOptions(t))
	require.Error(t, err)

	var ce *diag.CompileError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, "bad.js", ce.Path)
	require.EqualValues(t, 2, ce.Loc.Line)
	require.Equal(t, "a is read-only (2:0)", ce.Error())
}

func TestCompileTracesPasses(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), ring)

	_, err := driver.Compile(ctx, []byte("let a = 1;"), "a.js", defaultOptions(t))
	require.NoError(t, err)

	var begun []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin {
			begun = append(begun, ev.Name)
		}
	}
	require.Equal(t, []string{"compile", "parse", "augment", "initialise", "transpile", "render"}, begun)
}

func TestCompileTimerPhases(t *testing.T) {
	timer := observ.NewTimer()
	ctx := observ.WithTimer(context.Background(), timer)

	_, err := driver.Compile(ctx, []byte("const a = 1;\na = 2;"), "a.js", defaultOptions(t))
	require.Error(t, err)

	report := timer.Report()
	names := make([]string, 0, len(report.Phases))
	for _, p := range report.Phases {
		names = append(names, p.Name)
	}
	// the read-only check runs while transpiling
	require.Equal(t, []string{"parse", "augment", "initialise", "transpile"}, names)
	require.Equal(t, "aborted", report.Phases[3].Note)
}

func TestRender(t *testing.T) {
	res, err := driver.Compile(context.Background(), []byte("var a = 1;"), "a.js", defaultOptions(t))
	require.NoError(t, err)

	require.Equal(t, "var a = 1;", res.Render(project.SourceMapNone, "a.js.map"))
	require.Equal(t, "var a = 1;\n//# sourceMappingURL=a.js.map", res.Render(project.SourceMapFile, "a.js.map"))
	require.True(t, strings.HasPrefix(res.Render(project.SourceMapInline, ""),
		"var a = 1;\n//# sourceMappingURL=data:application/json;charset=utf-8;base64,"))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := project.Default()
	cfg.Transforms = map[string]bool{"arrow": false, "modules": false}
	cfg.ObjectAssign = project.DefaultHelper
	off := false
	cfg.NamedFunctionExpressions = &off

	opts, err := driver.OptionsFromConfig(cfg)
	require.NoError(t, err)
	require.False(t, opts.Transform.Transforms.Has(target.Arrow))
	require.False(t, opts.Transform.Transforms.Has(target.ModuleImport))
	require.True(t, opts.Transform.Transforms.Has(target.TemplateString))
	require.Equal(t, "Object.assign", opts.Transform.ObjectAssign)
	require.False(t, opts.Transform.NamedFunctionExpressions)
	require.Equal(t, project.SourceMapNone, opts.SourceMap)
}

func TestOptionsFromConfigErrors(t *testing.T) {
	cfg := project.Default()
	cfg.Target = map[string]project.Version{"netscape": "4"}
	_, err := driver.OptionsFromConfig(cfg)
	require.ErrorContains(t, err, "Unknown environment 'netscape'")

	cfg = project.Default()
	cfg.Transforms = map[string]bool{"teleport": true}
	_, err = driver.OptionsFromConfig(cfg)
	require.ErrorContains(t, err, "Unknown transform 'teleport'")
}
