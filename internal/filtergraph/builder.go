package filtergraph

import (
	"fmt"
	"strconv"

	"github.com/fadechain/fadechain/internal/planner"
	"github.com/fadechain/fadechain/internal/probe"
)

// Request carries everything Build needs. Build is a pure function of
// this value: identical requests yield byte-identical wire text.
type Request struct {
	Clips              []*probe.MediaDescriptor
	Offsets            planner.TransitionPlan
	DecodeMode         planner.DecodeMode
	Transition         string
	TransitionDuration float64

	// HardwareEncode controls only the final boundary conversion: when a
	// 10-bit chain feeds the hardware encoder, a format=p010le node is
	// appended at the encoder boundary. The working format of the graph
	// stays planar regardless.
	HardwareEncode bool

	// Audio normalization targets (the first clip's parameters, with
	// config defaults already substituted for missing values).
	AudioRate     int
	AudioChannels int
}

// Build synthesizes the filter graph: per-clip normalization to the first
// clip's resolution, frame rate, and a common pixel format, then N-1
// chained transition operators, and the parallel audio crossfade chain
// when the first clip carries audio.
func Build(req Request) *Graph {
	g := &Graph{}
	first := req.Clips[0]

	// The whole chain works in one planar format derived from the first
	// clip's bit depth.
	workFmt := "yuv420p"
	if first.Is10Bit() {
		workFmt = "yuv420p10le"
	}

	videoLabels := make([]string, len(req.Clips))
	for i, clip := range req.Clips {
		videoLabels[i] = buildVideoInput(g, i, clip, first, workFmt, req.DecodeMode)
	}

	// Transition chaining: node i consumes the previous chain output (or
	// the first normalized clip) and the next normalized clip.
	last := videoLabels[0]
	needsBoundary := req.HardwareEncode && first.Is10Bit()
	for i, seg := range req.Offsets.Segments {
		out := fmt.Sprintf("vx%d", i+1)
		if i == len(req.Offsets.Segments)-1 && !needsBoundary {
			out = VideoOut
		}
		g.Add(Node{
			Inputs: []string{last, videoLabels[i+1]},
			Op:     "xfade",
			Params: []Param{
				{Key: "transition", Value: req.Transition},
				{Key: "duration", Value: formatSeconds(seg.DurationSeconds)},
				{Key: "offset", Value: formatSeconds(seg.OffsetSeconds)},
			},
			Output: out,
		})
		last = out
	}

	// Boundary conversion to the hardware-compatible packed layout only
	// where the encoder's input format differs from the working format.
	if needsBoundary {
		g.Add(Node{
			Inputs: []string{last},
			Op:     "format",
			Params: []Param{{Key: "pix_fmts", Value: "p010le"}},
			Output: VideoOut,
		})
	}

	if first.HasAudio {
		buildAudioChain(g, req)
	}

	return g
}

// buildVideoInput emits the normalization chain for one clip and returns
// its final label. Hardware mode first downloads device frames to host
// memory in a format chosen per clip: a 10-bit source downloads to the
// 10-bit host format, everything else to nv12. A chain may mix depths, so
// this is decided per clip, never globally.
func buildVideoInput(g *Graph, i int, clip, first *probe.MediaDescriptor, workFmt string, mode planner.DecodeMode) string {
	in := fmt.Sprintf("%d:v", i)

	if mode == planner.DecodeHardware {
		dl := fmt.Sprintf("dl%d", i)
		g.Add(Node{Inputs: []string{in}, Op: "hwdownload", Output: dl})

		hostFmt := "nv12"
		if clip.Is10Bit() {
			hostFmt = "p010le"
		}
		hf := fmt.Sprintf("hf%d", i)
		g.Add(Node{
			Inputs: []string{dl},
			Op:     "format",
			Params: []Param{{Key: "pix_fmts", Value: hostFmt}},
			Output: hf,
		})
		in = hf
	}

	sc := fmt.Sprintf("sc%d", i)
	g.Add(Node{
		Inputs: []string{in},
		Op:     "scale",
		Params: []Param{
			{Key: "w", Value: strconv.Itoa(first.Width)},
			{Key: "h", Value: strconv.Itoa(first.Height)},
		},
		Output: sc,
	})

	fp := fmt.Sprintf("fp%d", i)
	g.Add(Node{
		Inputs: []string{sc},
		Op:     "fps",
		Params: []Param{{Key: "fps", Value: frameRateValue(first)}},
		Output: fp,
	})

	out := fmt.Sprintf("v%d", i)
	g.Add(Node{
		Inputs: []string{fp},
		Op:     "format",
		Params: []Param{{Key: "pix_fmts", Value: workFmt}},
		Output: out,
	})
	return out
}

// buildAudioChain emits the per-clip audio normalization and the
// acrossfade chain. Clips without audio are substituted with generated
// silence of their known duration at the target rate and layout, so the
// crossfade operator always has two valid operands.
func buildAudioChain(g *Graph, req Request) {
	layout := layoutForChannels(req.AudioChannels)

	labels := make([]string, len(req.Clips))
	for i, clip := range req.Clips {
		if !clip.HasAudio {
			labels[i] = fmt.Sprintf("a%d", i)
			g.Add(Node{
				Op: "anullsrc",
				Params: []Param{
					{Key: "r", Value: strconv.Itoa(req.AudioRate)},
					{Key: "cl", Value: anullsrcLayout(req.AudioChannels)},
					{Key: "d", Value: formatSeconds(clip.DurationSeconds)},
				},
				Output: labels[i],
			})
			continue
		}

		ar := fmt.Sprintf("ar%d", i)
		g.Add(Node{
			Inputs: []string{fmt.Sprintf("%d:a", i)},
			Op:     "aresample",
			Params: []Param{{Key: "osr", Value: strconv.Itoa(req.AudioRate)}},
			Output: ar,
		})

		// Mono and stereo are pinned explicitly; other layouts are left
		// unconstrained after rate resampling.
		if layout != "" {
			out := fmt.Sprintf("a%d", i)
			g.Add(Node{
				Inputs: []string{ar},
				Op:     "aformat",
				Params: []Param{{Key: "channel_layouts", Value: layout}},
				Output: out,
			})
			labels[i] = out
		} else {
			labels[i] = ar
		}
	}

	// Crossfade nodes take no offset: each consumes exactly the
	// transition duration from the adjoining stream tails by definition.
	last := labels[0]
	for i := 1; i < len(labels); i++ {
		out := fmt.Sprintf("ax%d", i)
		if i == len(labels)-1 {
			out = AudioOut
		}
		g.Add(Node{
			Inputs: []string{last, labels[i]},
			Op:     "acrossfade",
			Params: []Param{{Key: "d", Value: formatSeconds(req.TransitionDuration)}},
			Output: out,
		})
		last = out
	}
}

func frameRateValue(first *probe.MediaDescriptor) string {
	if first.FPSRational != "" {
		return first.FPSRational
	}
	return formatSeconds(first.FPS)
}

func layoutForChannels(ch int) string {
	switch ch {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return ""
	}
}

// anullsrcLayout always needs a concrete layout for the silence source,
// including channel counts outside mono/stereo ("<n>c" channel syntax).
func anullsrcLayout(ch int) string {
	if l := layoutForChannels(ch); l != "" {
		return l
	}
	return strconv.Itoa(ch) + "c"
}

// formatSeconds renders a seconds value with the shortest exact decimal
// form, keeping graph text stable across builds.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
