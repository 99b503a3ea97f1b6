// Package driver runs the compiler: a single source through parse and
// transform, or a whole directory in parallel, with caching and a watch
// mode on top.
package driver

import (
	"context"
	"fmt"
	"path/filepath"

	"buble/internal/buildpipeline"
	"buble/internal/magic"
	"buble/internal/observ"
	"buble/internal/parser"
	"buble/internal/project"
	"buble/internal/source"
	"buble/internal/trace"
	"buble/internal/transform"
)

// Result is one compiled file.
type Result struct {
	Path   string
	Code   string
	Map    *magic.SourceMap
	Cached bool
}

// Render returns the code with the sourceMappingURL comment the mode asks
// for. mapURL names the map file in SourceMapFile mode.
func (r *Result) Render(mode project.SourceMapMode, mapURL string) string {
	switch {
	case r.Map == nil:
		return r.Code
	case mode == project.SourceMapInline:
		return r.Code + "\n//# sourceMappingURL=" + r.Map.ToURL()
	case mode == project.SourceMapFile && mapURL != "":
		return r.Code + "\n//# sourceMappingURL=" + mapURL
	}
	return r.Code
}

// Compile compiles src. name is used in diagnostics and as the source map
// source.
func Compile(ctx context.Context, src []byte, name string, opts Options) (*Result, error) {
	if name == "" {
		name = "input.js"
	}
	fs := source.NewFileSet()
	content, flags := source.NormalizeContent(src)
	id := fs.Add(name, content, flags|source.FileVirtual)
	return CompileSource(ctx, fs.Get(id), opts)
}

// CompileFile loads path into fs and compiles it.
func CompileFile(ctx context.Context, fs *source.FileSet, path string, opts Options) (*Result, error) {
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return CompileSource(ctx, fs.Get(id), opts)
}

// CompileSource compiles a file already held by a FileSet.
func CompileSource(ctx context.Context, file *source.File, opts Options) (*Result, error) {
	return compile(ctx, file, opts, nil)
}

// stageHook reports the stage a file enters or leaves.
type stageHook func(stage buildpipeline.Stage, status buildpipeline.Status, err error)

func (h stageHook) call(stage buildpipeline.Stage, status buildpipeline.Status, err error) {
	if h != nil {
		h(stage, status, err)
	}
}

func compile(ctx context.Context, file *source.File, opts Options, hook stageHook) (res *Result, err error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "compile")
	span.WithExtra("file", file.Path)
	defer func() {
		switch {
		case err != nil:
			span.End("error")
		case res.Cached:
			span.End("cached")
		default:
			span.End("ok")
		}
	}()

	topts := opts.Transform
	if topts.Source == "" {
		topts.Source = filepath.ToSlash(file.Path)
	}

	key := CacheKey(project.Digest(file.Hash), topts)
	if opts.Cache != nil {
		var payload DiskPayload
		ok, cerr := opts.Cache.Get(key, &payload)
		if cerr != nil {
			trace.Point(trace.FromContext(ctx), trace.ScopeDriver, "cache", cerr.Error(), trace.CurrentSpan(ctx))
		}
		if ok {
			if cached := payloadToResult(&payload); cached != nil {
				cached.Path = file.Path
				return cached, nil
			}
		}
	}

	hook.call(buildpipeline.StageParse, buildpipeline.StatusWorking, nil)
	var parsed *parser.Result
	err = pass(ctx, "parse", func(ctx context.Context) error {
		var perr error
		parsed, perr = parser.ParseFile(ctx, file)
		return perr
	})
	if err != nil {
		hook.call(buildpipeline.StageParse, buildpipeline.StatusError, err)
		return nil, err
	}

	hook.call(buildpipeline.StageTransform, buildpipeline.StatusWorking, nil)
	topts.JSXPragma = parsed.JSXPragma
	out, err := transform.TransformFile(ctx, file, parsed.Tree, topts)
	if err != nil {
		hook.call(buildpipeline.StageTransform, buildpipeline.StatusError, err)
		return nil, err
	}

	res = &Result{Path: file.Path, Code: out.Code, Map: out.Map}
	if opts.Cache != nil {
		if perr := opts.Cache.Put(key, resultToPayload(res)); perr != nil {
			trace.Point(trace.FromContext(ctx), trace.ScopeDriver, "cache", perr.Error(), trace.CurrentSpan(ctx))
		}
	}
	return res, nil
}

// pass runs fn inside a trace span and a timer phase of the same name.
func pass(ctx context.Context, name string, fn func(context.Context) error) error {
	pctx, span := trace.Start(ctx, trace.ScopePass, name)
	err := observ.TimerFrom(ctx).Measure(name, func() error { return fn(pctx) })
	if err != nil {
		span.End("error")
	} else {
		span.End("")
	}
	return err
}
