package driver

import (
	"buble/internal/project"
	"buble/internal/target"
	"buble/internal/transform"
)

// Options configures a compile.
type Options struct {
	Transform transform.Options
	// SourceMap decides whether and how Render links the source map.
	SourceMap project.SourceMapMode
	// Cache keeps compiled output on disk between runs. Nil disables it.
	Cache *DiskCache
}

// OptionsFromConfig resolves the targets and transform overrides of cfg.
func OptionsFromConfig(cfg *project.Config) (Options, error) {
	ts, err := target.Resolve(cfg.Targets())
	if err != nil {
		return Options{}, err
	}
	ts, err = target.Apply(ts, cfg.Transforms)
	if err != nil {
		return Options{}, err
	}

	topts := transform.DefaultOptions()
	topts.Transforms = ts
	topts.JSX = cfg.JSX
	topts.JSXFragment = cfg.JSXFragment
	topts.ObjectAssign = string(cfg.ObjectAssign)
	topts.NamedFunctionExpressions = cfg.NamedFunctions()

	mode := cfg.SourceMap
	if mode == "" {
		mode = project.SourceMapNone
	}
	return Options{Transform: topts, SourceMap: mode}, nil
}
