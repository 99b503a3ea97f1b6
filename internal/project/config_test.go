package project_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"buble/internal/diag"
	"buble/internal/project"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "buble.toml")
	writeFile(t, path, `
objectAssign = true
sourceMap = "inline"
namedFunctionExpressions = false
outDir = "build"

[target]
chrome = 55
node = "8"

[transforms]
modules = false
`)

	cfg, err := project.Load(path)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"chrome": "55", "node": "8"}, cfg.Targets())
	require.Equal(t, map[string]bool{"modules": false}, cfg.Transforms)
	require.Equal(t, project.DefaultHelper, cfg.ObjectAssign)
	require.Equal(t, project.SourceMapInline, cfg.SourceMap)
	require.False(t, cfg.NamedFunctions())
	require.Equal(t, filepath.Join(dir, "build"), cfg.OutPath())
	require.Equal(t, []string{"*.js", "*.jsx", "*.mjs"}, cfg.Include)
}

func TestLoadTOMLRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buble.toml")
	writeFile(t, path, "jsxx = \"h\"\n")

	_, err := project.Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown keys: jsxx")

	var cfgErr *project.Error
	require.True(t, errors.As(err, &cfgErr))
	require.Equal(t, diag.CfgInvalidFile, cfgErr.Code())
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".buble.yaml")
	writeFile(t, path, `
target:
  ie: 11
jsx: h
jsxFragment: Fragment
objectAssign: assign
sourceMap: true
include: ["*.js"]
`)

	cfg, err := project.Load(path)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"ie": "11"}, cfg.Targets())
	require.Equal(t, "h", cfg.JSX)
	require.Equal(t, "Fragment", cfg.JSXFragment)
	require.Equal(t, project.Helper("assign"), cfg.ObjectAssign)
	require.Equal(t, project.SourceMapFile, cfg.SourceMap)
	require.True(t, cfg.NamedFunctions())
	require.True(t, cfg.Matches("src/app.js"))
	require.False(t, cfg.Matches("src/app.jsx"))
}

func TestLoadYAMLRejectsUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".buble.yml")
	writeFile(t, path, "transform: {}\n")

	_, err := project.Load(path)
	require.Error(t, err)
}

func TestLoadEmptyYAMLUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".buble.yaml")
	writeFile(t, path, "")

	cfg, err := project.Load(path)
	require.NoError(t, err)
	require.Equal(t, "dist", cfg.OutDir)
}

func TestInvalidSourceMapMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buble.toml")
	writeFile(t, path, "sourceMap = \"external\"\n")

	_, err := project.Load(path)
	require.ErrorContains(t, err, "invalid source map mode")
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "buble.toml"), "jsx = \"h\"\n")
	nested := filepath.Join(root, "src", "components")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := project.Discover(nested)
	require.NoError(t, err)
	require.Equal(t, "h", cfg.JSX)
	require.Equal(t, root, cfg.Root)

	got, ok, err := project.FindProjectRoot(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, root, got)
}

func TestDiscoverWithoutFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := project.Discover(dir)
	require.NoError(t, err)
	require.Empty(t, cfg.Path)
	require.Equal(t, dir, cfg.Root)
	require.True(t, cfg.Skips(filepath.Join(dir, "dist")))
	require.True(t, cfg.Skips(filepath.Join(dir, "lib", "node_modules")))
	require.False(t, cfg.Skips(filepath.Join(dir, "lib")))
}

func TestParseHelper(t *testing.T) {
	require.Equal(t, project.DefaultHelper, project.ParseHelper("true"))
	require.Equal(t, project.Helper(""), project.ParseHelper("false"))
	require.Equal(t, project.Helper("_extends"), project.ParseHelper("_extends"))
}
