package planner

import "fmt"

// DecodeMode selects how input clips are decoded.
type DecodeMode int

const (
	DecodeSoftware DecodeMode = iota
	DecodeHardware
)

func (m DecodeMode) String() string {
	if m == DecodeHardware {
		return "hardware"
	}
	return "software"
}

// OffsetSegment describes one transition between two adjacent clips:
// where on the output timeline it begins and how long it runs.
type OffsetSegment struct {
	OffsetSeconds   float64
	DurationSeconds float64
}

// TransitionPlan is the ordered chain of N-1 transitions for N clips.
// Every offset is measured against the cumulative output timeline, i.e.
// as if all prior transitions had already overlapped their clips.
type TransitionPlan struct {
	Segments []OffsetSegment
}

// EncodePlan holds the derived encoder selection and arguments for one
// attempt. Built fresh per attempt; the fallback attempt's plan differs
// from the first only in the encoder selection.
type EncodePlan struct {
	VideoEncoder string
	VideoArgs    []string // ordered flag/value pairs, excluding -c:v

	// AudioEncoder is empty when the first clip has no audio, in which
	// case AudioArgs is empty too and the output carries no audio stream.
	AudioEncoder string
	AudioArgs    []string

	ContainerFlags []string // e.g. -movflags +faststart
}

// UnknownCodecError reports a source audio codec outside the fixed
// encoder lookup. Guessing a target format is worse than failing, so this
// is a fatal planning error.
type UnknownCodecError struct {
	Codec string
}

func (e *UnknownCodecError) Error() string {
	return fmt.Sprintf("no encoder mapping for audio codec %q", e.Codec)
}
