package planner

import "math"

// PlanOffsets computes the transition chain for N clips from their
// durations and a fixed transition duration.
//
// The recurrence maintains the cumulative output timeline length: clip
// i+1 starts transitionDuration seconds before the current timeline end,
// and the timeline grows by that clip's duration minus the overlap.
// Offsets are clamped at zero (a clip shorter than the transition starts
// its transition immediately) and rounded to microsecond precision so a
// long chain cannot accumulate floating-point drift.
//
// An unknown duration must be passed as 0 by the caller (after warning);
// the resulting offset collapses to the previous boundary.
func PlanOffsets(durations []float64, transitionDuration float64) TransitionPlan {
	if len(durations) < 2 {
		return TransitionPlan{}
	}

	segments := make([]OffsetSegment, 0, len(durations)-1)
	cum := durations[0]
	for i := 0; i < len(durations)-1; i++ {
		offset := cum - transitionDuration
		if offset < 0 {
			offset = 0
		}
		segments = append(segments, OffsetSegment{
			OffsetSeconds:   roundMicro(offset),
			DurationSeconds: transitionDuration,
		})
		cum = cum + durations[i+1] - transitionDuration
	}
	return TransitionPlan{Segments: segments}
}

// PlanOffsetsFrameAccurate is the two-clip variant that quantizes the
// transition start to a frame boundary of the first clip. Preferred over
// the timestamp recurrence whenever the frame rate is known precisely,
// because it prevents a one-frame judder between the video and audio
// transition start points.
func PlanOffsetsFrameAccurate(duration, fps, transitionDuration float64) TransitionPlan {
	frameCount := math.Round(duration * fps)
	transitionFrames := math.Round(transitionDuration * fps)
	offsetFrames := frameCount - transitionFrames
	if offsetFrames < 0 {
		offsetFrames = 0
	}
	return TransitionPlan{Segments: []OffsetSegment{{
		OffsetSeconds:   offsetFrames / fps,
		DurationSeconds: transitionDuration,
	}}}
}

func roundMicro(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
