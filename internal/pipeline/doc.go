// Package pipeline resolves inputs, drives plan compilation, and runs the
// engine with the one-shot hardware→software fallback protocol.
//
// The orchestrator is a small state machine:
//
//	Planned → AttemptHardware → Succeeded
//	                         ↘ AttemptSoftwareFallback → Succeeded
//	                                                   ↘ Failed
//
// When the capability snapshot rules out hardware, the machine skips
// directly to a single software attempt with no fallback below it. At
// most one retry ever happens, and it exists to recover from a hardware
// decode-path failure, not to absorb transient faults.
package pipeline
