// Package diag defines the diagnostic model shared by all compiler phases.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     the parser and by both transform passes (initialise and transpile).
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Define CompileError, the single fatal error value returned by the
//     compiler, which carries the located message and a rendered source frame.
//
// # Scope
//
// Package diag does not print anything. Colored and JSON rendering lives in
// internal/diagfmt; orchestration across files lives in internal/driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity - tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code - compact numeric identifier (see codes.go) with a stable string
//     form: PRS (parse), UNS (unsupported construct), SEM (semantic
//     precondition), INT (internal), CFG (configuration), IO.
//   - Message - human oriented text; keep it short and actionable.
//   - Primary span - the canonical source.Span pointing to the issue.
//   - Notes - optional secondary spans/messages for additional context.
//
// # Compile errors
//
// The compiler analyses first and rejects early: a construct that cannot be
// rewritten aborts the whole compile. CompileError.Error() yields
// "message (line:column)" with a 1-based line and 0-based column, and
// CompileError.Snippet holds up to five numbered lines ending at the offending
// line plus a caret line as wide as the offending node.
//
// # Emitting diagnostics
//
// Multi-file builds collect CompileErrors as Diagnostics through a Reporter
// (BagReporter, optionally wrapped in LockedReporter for parallel workers) and
// sort/dedup the Bag before rendering.
package diag
