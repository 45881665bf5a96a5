package ffmpeg

import (
	"github.com/fadechain/fadechain/internal/filtergraph"
	"github.com/fadechain/fadechain/internal/hwaccel"
	"github.com/fadechain/fadechain/internal/planner"
	"github.com/fadechain/fadechain/internal/probe"
)

// Job bundles one attempt's worth of compiled plans. The orchestrator
// builds a Job per attempt; the two attempts of a fallback differ only in
// DecodeMode, Graph, and the encode plan's encoder selection.
type Job struct {
	Clips      []*probe.MediaDescriptor
	Graph      *filtergraph.Graph
	Encode     *planner.EncodePlan
	DecodeMode planner.DecodeMode
	Snapshot   hwaccel.Snapshot
	OutputPath string
	Verbose    bool
}

// Build constructs the complete ffmpeg argument slice for one attempt.
// Argument order follows the fixed skeleton: preamble, per-input flags,
// filter graph, stream maps, video codec args, audio codec args,
// container flags, output path.
func Build(job *Job) []string {
	args := make([]string, 0, 64)

	args = append(args, "ffmpeg", "-hide_banner", "-nostdin", "-y")
	if job.Verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}

	for _, clip := range job.Clips {
		if job.DecodeMode == planner.DecodeHardware {
			args = append(args, "-hwaccel", "cuda", "-hwaccel_output_format", "cuda")
			// The CUVID selector only applies when the build advertises
			// a decoder for this clip's codec; otherwise the clip
			// decodes through the generic cuda hwaccel.
			if dec, ok := job.Snapshot.DecoderFor(clip.VideoCodec); ok {
				args = append(args, "-c:v", dec)
			}
		}
		args = append(args, "-i", clip.Path)
	}

	args = append(args, "-filter_complex", job.Graph.Wire())

	args = append(args, "-map", "["+filtergraph.VideoOut+"]")
	if job.Graph.HasAudio() {
		args = append(args, "-map", "["+filtergraph.AudioOut+"]")
	}

	args = append(args, "-c:v", job.Encode.VideoEncoder)
	args = append(args, job.Encode.VideoArgs...)

	if job.Graph.HasAudio() && job.Encode.AudioEncoder != "" {
		args = append(args, "-c:a", job.Encode.AudioEncoder)
		args = append(args, job.Encode.AudioArgs...)
	} else {
		args = append(args, "-an")
	}

	args = append(args, job.Encode.ContainerFlags...)
	args = append(args, job.OutputPath)

	return args
}
