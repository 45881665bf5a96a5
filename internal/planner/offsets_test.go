package planner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanOffsets_TwoClips(t *testing.T) {
	plan := PlanOffsets([]float64{10, 5}, 1)
	require.Len(t, plan.Segments, 1)
	assert.Equal(t, 9.0, plan.Segments[0].OffsetSeconds)
	assert.Equal(t, 1.0, plan.Segments[0].DurationSeconds)
}

func TestPlanOffsets_ChainRecurrence(t *testing.T) {
	durations := []float64{10, 8, 6, 12}
	const td = 1.5

	plan := PlanOffsets(durations, td)
	require.Len(t, plan.Segments, 3)

	// Re-derive each offset from the cumulative-timeline recurrence.
	cum := durations[0]
	for i, seg := range plan.Segments {
		want := cum - td
		if want < 0 {
			want = 0
		}
		assert.InDelta(t, want, seg.OffsetSeconds, 1e-6, "segment %d", i)
		assert.GreaterOrEqual(t, seg.OffsetSeconds, 0.0)
		cum = cum + durations[i+1] - td
	}

	assert.Equal(t, 8.5, plan.Segments[0].OffsetSeconds)
	assert.Equal(t, 15.0, plan.Segments[1].OffsetSeconds)
	assert.Equal(t, 19.5, plan.Segments[2].OffsetSeconds)
}

func TestPlanOffsets_UnknownDurationCollapsesToBoundary(t *testing.T) {
	// A zero (unknown) duration mid-chain: the transition after it starts
	// where the previous one left off.
	plan := PlanOffsets([]float64{10, 0, 5}, 1)
	require.Len(t, plan.Segments, 2)
	assert.Equal(t, 9.0, plan.Segments[0].OffsetSeconds)
	assert.Equal(t, 8.0, plan.Segments[1].OffsetSeconds)
}

func TestPlanOffsets_ClampsNegativeOffsets(t *testing.T) {
	plan := PlanOffsets([]float64{0.5, 5}, 1)
	require.Len(t, plan.Segments, 1)
	assert.Equal(t, 0.0, plan.Segments[0].OffsetSeconds)
}

func TestPlanOffsets_MicrosecondRounding(t *testing.T) {
	plan := PlanOffsets([]float64{10.1234567891, 5}, 1)
	require.Len(t, plan.Segments, 1)
	got := plan.Segments[0].OffsetSeconds
	assert.Equal(t, math.Round(got*1e6)/1e6, got, "offset must already be microsecond-quantized")
	assert.InDelta(t, 9.123457, got, 1e-9)
}

func TestPlanOffsets_FewerThanTwoClips(t *testing.T) {
	assert.Empty(t, PlanOffsets([]float64{10}, 1).Segments)
	assert.Empty(t, PlanOffsets(nil, 1).Segments)
}

func TestPlanOffsetsFrameAccurate_ExactFrameBoundary(t *testing.T) {
	plan := PlanOffsetsFrameAccurate(10.0, 30, 1.0)
	require.Len(t, plan.Segments, 1)
	// 300 frames, 30 transition frames, 270 remaining → exactly 9s.
	assert.Equal(t, 9.0, plan.Segments[0].OffsetSeconds)
	assert.Equal(t, 1.0, plan.Segments[0].DurationSeconds)
}

func TestPlanOffsetsFrameAccurate_NTSCRate(t *testing.T) {
	fps := 30000.0 / 1001.0
	plan := PlanOffsetsFrameAccurate(10.0, fps, 1.0)
	require.Len(t, plan.Segments, 1)

	frames := plan.Segments[0].OffsetSeconds * fps
	assert.InDelta(t, math.Round(frames), frames, 1e-9, "offset must land on a frame boundary")
}

func TestPlanOffsetsFrameAccurate_ShortClipClamps(t *testing.T) {
	plan := PlanOffsetsFrameAccurate(0.5, 30, 1.0)
	require.Len(t, plan.Segments, 1)
	assert.Equal(t, 0.0, plan.Segments[0].OffsetSeconds)
}
