// Package project finds and reads the configuration of a buble project:
// a buble.toml or .buble.yaml file naming the targets, transform overrides
// and build layout.
package project

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"buble/internal/diag"
)

// SourceMapMode selects how a source map accompanies the output.
type SourceMapMode string

const (
	SourceMapNone   SourceMapMode = "none"
	SourceMapFile   SourceMapMode = "file"
	SourceMapInline SourceMapMode = "inline"
)

// ParseSourceMapMode accepts none|file|inline; true and false stand for
// file and none.
func ParseSourceMapMode(s string) (SourceMapMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "false", "off":
		return SourceMapNone, nil
	case "file", "true", "on":
		return SourceMapFile, nil
	case "inline":
		return SourceMapInline, nil
	}
	return SourceMapNone, fmt.Errorf("invalid source map mode %q (expected none, file or inline)", s)
}

func (m *SourceMapMode) set(v any) error {
	switch v := v.(type) {
	case bool:
		if v {
			*m = SourceMapFile
		} else {
			*m = SourceMapNone
		}
		return nil
	case string:
		mode, err := ParseSourceMapMode(v)
		if err != nil {
			return err
		}
		*m = mode
		return nil
	}
	return fmt.Errorf("sourceMap: unexpected %T", v)
}

func (m *SourceMapMode) UnmarshalTOML(v any) error { return m.set(v) }

func (m *SourceMapMode) UnmarshalYAML(value *yaml.Node) error {
	v, err := scalarValue(value)
	if err != nil {
		return err
	}
	return m.set(v)
}

// Helper is the name of the function used to merge objects. `true` in a
// configuration file means Object.assign.
type Helper string

// DefaultHelper is what `objectAssign = true` stands for.
const DefaultHelper Helper = "Object.assign"

func (h *Helper) set(v any) error {
	switch v := v.(type) {
	case bool:
		if v {
			*h = DefaultHelper
		} else {
			*h = ""
		}
		return nil
	case string:
		*h = Helper(v)
		return nil
	}
	return fmt.Errorf("objectAssign: unexpected %T", v)
}

func (h *Helper) UnmarshalTOML(v any) error { return h.set(v) }

func (h *Helper) UnmarshalYAML(value *yaml.Node) error {
	v, err := scalarValue(value)
	if err != nil {
		return err
	}
	return h.set(v)
}

// ParseHelper reads the command line value of --object-assign.
func ParseHelper(s string) Helper {
	switch s {
	case "true":
		return DefaultHelper
	case "false":
		return ""
	}
	return Helper(s)
}

// Version is an environment version. Files may spell it as a number.
type Version string

func (v *Version) UnmarshalTOML(data any) error {
	switch d := data.(type) {
	case string:
		*v = Version(d)
	case int64:
		*v = Version(fmt.Sprint(d))
	case float64:
		*v = Version(fmt.Sprint(d))
	default:
		return fmt.Errorf("target version: unexpected %T", data)
	}
	return nil
}

func (v *Version) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: target version must be a scalar", value.Line)
	}
	*v = Version(value.Value)
	return nil
}

// scalarValue decodes a YAML scalar as a bool when it is one, otherwise
// as a string.
func scalarValue(value *yaml.Node) (any, error) {
	if value.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("line %d: expected a scalar", value.Line)
	}
	if value.Tag == "!!bool" {
		var b bool
		if err := value.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	}
	return value.Value, nil
}

// Config is the project configuration.
type Config struct {
	// Target maps an environment to its minimum version.
	Target map[string]Version `toml:"target" yaml:"target"`
	// Transforms overrides single transforms by name.
	Transforms map[string]bool `toml:"transforms" yaml:"transforms"`

	JSX                      string        `toml:"jsx" yaml:"jsx"`
	JSXFragment              string        `toml:"jsxFragment" yaml:"jsxFragment"`
	ObjectAssign             Helper        `toml:"objectAssign" yaml:"objectAssign"`
	NamedFunctionExpressions *bool         `toml:"namedFunctionExpressions" yaml:"namedFunctionExpressions"`
	SourceMap                SourceMapMode `toml:"sourceMap" yaml:"sourceMap"`

	// Src is the input directory of a build, OutDir the output one. Both
	// are relative to Root.
	Src    string `toml:"src" yaml:"src"`
	OutDir string `toml:"outDir" yaml:"outDir"`
	// Include holds file name patterns (filepath.Match syntax), Exclude
	// directory names skipped by the walk.
	Include []string `toml:"include" yaml:"include"`
	Exclude []string `toml:"exclude" yaml:"exclude"`
	Jobs    int      `toml:"jobs" yaml:"jobs"`

	// Path is the file the configuration was read from; empty for defaults.
	Path string `toml:"-" yaml:"-"`
	// Root is the directory relative paths are resolved against.
	Root string `toml:"-" yaml:"-"`
}

// Default returns the configuration used without a configuration file.
func Default() *Config {
	return &Config{
		SourceMap: SourceMapNone,
		Src:       ".",
		OutDir:    "dist",
		Include:   []string{"*.js", "*.jsx", "*.mjs"},
		Exclude:   []string{"node_modules", ".git"},
	}
}

// Error reports an unreadable or invalid configuration file.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string { return e.Path + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Code classifies the error for diagnostics.
func (e *Error) Code() diag.Code { return diag.CfgInvalidFile }

// Load reads the configuration file at path. The format follows the
// extension: .toml, or .yaml/.yml.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	switch ext := filepath.Ext(abs); ext {
	case ".toml":
		err = loadTOML(abs, cfg)
	case ".yaml", ".yml":
		err = loadYAML(abs, cfg)
	default:
		err = fmt.Errorf("unsupported configuration format %q", ext)
	}
	if err != nil {
		return nil, &Error{Path: abs, Err: err}
	}
	cfg.Path = abs
	cfg.Root = filepath.Dir(abs)
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Path: abs, Err: err}
	}
	return cfg, nil
}

func loadTOML(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func loadYAML(path string, cfg *Config) error {
	// #nosec G304 -- path comes from discovery or the command line
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the values a file cannot express through its syntax alone.
func (c *Config) Validate() error {
	if _, err := ParseSourceMapMode(string(c.SourceMap)); err != nil {
		return err
	}
	for _, pattern := range c.Include {
		if _, err := filepath.Match(pattern, "x"); err != nil {
			return fmt.Errorf("include pattern %q: %w", pattern, err)
		}
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	return nil
}

// Targets returns the target map in the form target.Resolve expects.
func (c *Config) Targets() map[string]string {
	out := make(map[string]string, len(c.Target))
	for env, v := range c.Target {
		out[strings.ToLower(env)] = string(v)
	}
	return out
}

// NamedFunctions reports whether synthesized function expressions keep
// their names; unset means yes.
func (c *Config) NamedFunctions() bool {
	return c.NamedFunctionExpressions == nil || *c.NamedFunctionExpressions
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, p)
}

// SrcDir is the absolute input directory of a build.
func (c *Config) SrcDir() string { return c.resolve(c.Src) }

// OutPath is the absolute output directory of a build.
func (c *Config) OutPath() string { return c.resolve(c.OutDir) }

// Matches reports whether a file name is a build input.
func (c *Config) Matches(name string) bool {
	base := filepath.Base(name)
	for _, pattern := range c.Include {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// Skips reports whether the walk must not descend into dir.
func (c *Config) Skips(dir string) bool {
	if filepath.Clean(dir) == filepath.Clean(c.OutPath()) {
		return true
	}
	base := filepath.Base(dir)
	for _, name := range c.Exclude {
		if base == name {
			return true
		}
	}
	return false
}
