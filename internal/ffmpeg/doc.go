// Package ffmpeg assembles the engine argument list from the compiled
// plans and runs the blocking invocation.
//
// Split:
//   - builder.go: Build — the shared argument skeleton (overwrite flag,
//     per-input hardware decode selectors, filter_complex text, stream
//     maps, encoder args, container flags, output path)
//   - executor.go: Execute — blocking subprocess run with stderr capture
//   - errors.go: InvocationError carrying the exit code
//
// The engine's only contract is its exit status: 0 is success, anything
// else is failure with no structured payload.
package ffmpeg
