// Package trace is the structured event log of the compiler.
//
// A Tracer receives begin/end events of nested spans (a whole compile, one
// pass over one file, a file inside a directory build) and instant point
// events. Tracers travel through the pipeline in a context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "transpile", parent)
//	defer span.End("")
//
// Levels pick which scopes are recorded:
//
//   - LevelOff: nothing
//   - LevelError: nothing streamed; the ring keeps events for a failure dump
//   - LevelPhase: compiles and passes
//   - LevelDetail: also every file of a build
//   - LevelDebug: everything
//
// Events go to a stream (text or NDJSON), to an in-memory ring, or both.
package trace
