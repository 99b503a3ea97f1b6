// Package transform rewrites a parsed ECMAScript program into an older
// syntax subset. It runs in three steps over the arena tree produced by
// package parser:
//
//   - augment wires parent links and depths and gives single-statement
//     bodies an explicit synthetic block;
//   - initialise builds scopes, resolves references and rejects constructs
//     the selected transforms cannot handle;
//   - transpile emits range based edits into a magic.Buffer.
//
// Rewrite rules abort by panicking with *diag.CompileError; TransformFile is
// the only place that recovers.
package transform

import (
	"context"
	"fmt"

	"buble/internal/ast"
	"buble/internal/diag"
	"buble/internal/magic"
	"buble/internal/observ"
	"buble/internal/source"
	"buble/internal/target"
	"buble/internal/trace"
)

// Options configures one compile.
type Options struct {
	Transforms target.Transforms

	// JSX is the element factory, JSXFragment the fragment component.
	// An `@jsx` comment pragma overrides JSX.
	JSX         string
	JSXFragment string

	// ObjectAssign names the helper used to lower object spread. Empty
	// means object spread is rejected.
	ObjectAssign string

	// NamedFunctionExpressions keeps method names on synthesized function
	// expressions.
	NamedFunctionExpressions bool

	// File and Source name the generated and the original file in the
	// source map.
	File           string
	Source         string
	IncludeContent bool

	// JSXPragma is the factory found in the source by the parser.
	JSXPragma string
}

// DefaultOptions returns options for the most conservative target.
func DefaultOptions() Options {
	ts, err := target.Resolve(nil)
	if err != nil {
		// пустой набор целей не может дать ошибку
		panic(err)
	}
	return Options{
		Transforms:               ts,
		NamedFunctionExpressions: true,
		IncludeContent:           true,
	}
}

// Output is the rewritten program and its source map.
type Output struct {
	Code string
	Map  *magic.SourceMap
}

// Transform rewrites src, whose syntax tree is tree.
func Transform(src string, tree *ast.Tree, opts Options) (*Output, error) {
	name := opts.Source
	if name == "" {
		name = "input.js"
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(src))
	return TransformFile(context.Background(), fs.Get(id), tree, opts)
}

// TransformFile rewrites the content of file. Diagnostics are located in
// file. Each step runs inside a trace span of the tracer carried by ctx and
// is measured by its observ.Timer, if any.
func TransformFile(ctx context.Context, file *source.File, tree *ast.Tree, opts Options) (out *Output, err error) {
	if tree == nil || !tree.Root.IsValid() {
		return nil, fmt.Errorf("transform %s: empty syntax tree", file.Path)
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch e := r.(type) {
		case *diag.CompileError:
			out, err = nil, e
		case *magic.Error:
			out, err = nil, diag.NewCompileError(nil, diag.IntEditConflict, source.FileSpan(file.ID), e.Error())
		default:
			panic(r)
		}
	}()

	p := newProgram(file, tree, opts)
	phase(ctx, "augment", p.augment)
	phase(ctx, "initialise", func() { p.initialise(p.root) })
	phase(ctx, "transpile", func() { p.transpile(p.root) })
	phase(ctx, "render", func() { out = p.export() })
	return out, nil
}

// phase runs fn as a named pass. A rule aborting the pass still closes the
// span and the timer entry.
func phase(ctx context.Context, name string, fn func()) {
	_, span := trace.Start(ctx, trace.ScopePass, name)
	timer := observ.TimerFrom(ctx)
	idx := timer.Begin(name)
	ok := false
	defer func() {
		note := ""
		if !ok {
			note = "aborted"
		}
		timer.End(idx, note)
		span.End(note)
	}()
	fn()
	ok = true
}
