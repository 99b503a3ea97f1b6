package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"buble/internal/buildpipeline"
	"buble/internal/diag"
	"buble/internal/driver"
	"buble/internal/project"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newProject(t *testing.T) *project.Config {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.js"), "var f = x => x * 2;")
	writeFile(t, filepath.Join(root, "sub", "b.jsx"), "var el = <div/>;")
	writeFile(t, filepath.Join(root, "bad.js"), "const a = 1; a = 2;")
	writeFile(t, filepath.Join(root, "node_modules", "dep.js"), "var x = () => 1;")
	writeFile(t, filepath.Join(root, "notes.txt"), "not javascript")

	cfg := project.Default()
	cfg.Root = root
	cfg.SourceMap = project.SourceMapFile
	return cfg
}

func TestBuilderSources(t *testing.T) {
	cfg := newProject(t)
	opts, err := driver.OptionsFromConfig(cfg)
	require.NoError(t, err)

	files, err := driver.NewBuilder(cfg, opts).Sources()
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(cfg.Root, "a.js"),
		filepath.Join(cfg.Root, "bad.js"),
		filepath.Join(cfg.Root, "sub", "b.jsx"),
	}, files)
}

func TestBuild(t *testing.T) {
	cfg := newProject(t)
	var rec buildpipeline.Recorder

	res, err := driver.Build(context.Background(), cfg, &rec)
	require.NoError(t, err)
	require.Len(t, res.Files, 3)
	require.Equal(t, 1, res.Failed())

	out := filepath.Join(cfg.Root, "dist")
	require.Equal(t, "var f = function (x) { return x * 2; };\n//# sourceMappingURL=a.js.map\n", readFile(t, filepath.Join(out, "a.js")))
	require.Contains(t, readFile(t, filepath.Join(out, "a.js.map")), `"sources":["../a.js"]`)
	require.Contains(t, readFile(t, filepath.Join(out, "sub", "b.js")), "React.createElement( 'div', null )")
	require.NoFileExists(t, filepath.Join(out, "bad.js"))
	require.NoFileExists(t, filepath.Join(out, "node_modules", "dep.js"))

	require.Equal(t, 1, res.Bag.Len())
	d := res.Bag.Items()[0]
	require.Equal(t, diag.SemConstReassign, d.Code)
	require.Equal(t, "bad.js", res.FileSet.Get(d.Primary.File).FormatPath("relative", cfg.Root))

	final := rec.Final()
	require.Equal(t, buildpipeline.StatusDone, final["a.js"])
	require.Equal(t, buildpipeline.StatusDone, final["sub/b.jsx"])
	require.Equal(t, buildpipeline.StatusError, final["bad.js"])
}

func TestRebuildReusesResults(t *testing.T) {
	cfg := newProject(t)
	opts, err := driver.OptionsFromConfig(cfg)
	require.NoError(t, err)
	b := driver.NewBuilder(cfg, opts)

	_, err = b.Build(context.Background(), nil)
	require.NoError(t, err)

	writeFile(t, filepath.Join(cfg.Root, "a.js"), "var g = y => y;")
	var rec buildpipeline.Recorder
	res, err := b.Build(context.Background(), &rec)
	require.NoError(t, err)

	final := rec.Final()
	require.Equal(t, buildpipeline.StatusDone, final["a.js"])
	require.Equal(t, buildpipeline.StatusCached, final["sub/b.jsx"])
	require.Contains(t, readFile(t, filepath.Join(cfg.Root, "dist", "a.js")), "var g = function (y) { return y; };")

	for _, f := range res.Files {
		if strings.HasSuffix(f.Path, "b.jsx") {
			require.True(t, f.Cached)
		}
	}
}

func TestBuildMissingFile(t *testing.T) {
	cfg := newProject(t)
	opts, err := driver.OptionsFromConfig(cfg)
	require.NoError(t, err)

	res, err := driver.NewBuilder(cfg, opts).BuildFiles(context.Background(), []string{filepath.Join(cfg.Root, "gone.js")}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, res.Failed())
	require.Equal(t, diag.IOLoadFileError, res.Bag.Items()[0].Code)
}

func TestBuildCanceled(t *testing.T) {
	cfg := newProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := driver.Build(ctx, cfg, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWatchRebuildsChangedFile(t *testing.T) {
	cfg := newProject(t)
	opts, err := driver.OptionsFromConfig(cfg)
	require.NoError(t, err)
	b := driver.NewBuilder(cfg, opts)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	builds := make(chan *driver.BuildResult, 4)
	done := make(chan error, 1)
	go func() {
		done <- b.Watch(ctx, nil, func(r *driver.BuildResult) { builds <- r })
	}()

	first := <-builds
	require.Len(t, first.Files, 3)

	writeFile(t, filepath.Join(cfg.Root, "sub", "c.js"), "var h = () => 3;")

	select {
	case next := <-builds:
		require.Len(t, next.Files, 1)
		require.Equal(t, filepath.Join(cfg.Root, "sub", "c.js"), next.Files[0].Path)
	case <-ctx.Done():
		t.Fatal("no rebuild after a file change")
	}
	require.FileExists(t, filepath.Join(cfg.Root, "dist", "sub", "c.js"))

	cancel()
	require.NoError(t, <-done)
}
