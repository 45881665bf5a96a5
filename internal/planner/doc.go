// Package planner compiles the per-run transition and encode plans from
// immutable probe data.
//
// Implemented:
//   - TransitionPlan, OffsetSegment, EncodePlan, DecodeMode (types.go)
//   - PlanOffsets: cumulative-timeline offset recurrence with microsecond
//     rounding, plus the frame-accurate two-clip variant (offsets.go)
//   - PlanEncode: encoder argument derivation from the first clip's
//     profile, with fixed codec→encoder lookup tables (encode.go)
//
// All functions are pure: identical inputs produce identical plans, so the
// hardware and software attempts can only differ where the orchestrator
// explicitly parameterizes them.
package planner
