package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fadechain/fadechain/internal/config"
	"github.com/fadechain/fadechain/internal/display"
	"github.com/fadechain/fadechain/internal/ffmpeg"
	"github.com/fadechain/fadechain/internal/filtergraph"
	"github.com/fadechain/fadechain/internal/hwaccel"
	"github.com/fadechain/fadechain/internal/planner"
	"github.com/fadechain/fadechain/internal/probe"
)

// Invoker abstracts the engine invocation so the fallback protocol can be
// exercised with simulated exit codes.
type Invoker interface {
	Invoke(ctx context.Context, args []string) error
}

// engineInvoker is the production Invoker backed by ffmpeg.Execute.
type engineInvoker struct {
	verbose bool
}

func (e engineInvoker) Invoke(ctx context.Context, args []string) error {
	return ffmpeg.Execute(ctx, args, e.verbose)
}

// Result summarizes a finished run.
type Result struct {
	Inputs       int
	UsedHardware bool // the first attempt ran on the hardware path
	FellBack     bool // the software fallback attempt ran
	Elapsed      time.Duration
}

// state tracks the orchestrator's position in the attempt protocol.
type state int

const (
	statePlanned state = iota
	stateAttemptHardware
	stateAttemptSoftwareFallback
	stateSucceeded
	stateFailed
)

func (s state) String() string {
	switch s {
	case statePlanned:
		return "planned"
	case stateAttemptHardware:
		return "attempt-hardware"
	case stateAttemptSoftwareFallback:
		return "attempt-software-fallback"
	case stateSucceeded:
		return "succeeded"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// Run is the top-level entry: resolve inputs, probe every clip, snapshot
// hardware capability, and hand off to the attempt protocol. All fatal
// errors propagate; nothing is retried except the single decode-path
// fallback inside Transcode.
func Run(ctx context.Context, cfg *config.Config, log *logrus.Logger) (Result, error) {
	paths, err := ResolveInputs(cfg)
	if err != nil {
		return Result{}, err
	}
	log.WithField("count", len(paths)).Info("Joining clips")

	clips := make([]*probe.MediaDescriptor, len(paths))
	for i, path := range paths {
		d, err := probe.Probe(ctx, path)
		if err != nil {
			return Result{}, fmt.Errorf("probe: %w", err)
		}
		clips[i] = d
		log.WithFields(logrus.Fields{
			"clip":       path,
			"resolution": d.Resolution(),
			"codec":      d.VideoCodec,
			"duration":   display.Seconds(d.DurationSeconds),
		}).Debug("Probed clip")
	}

	var snap hwaccel.Snapshot
	if cfg.DisableHwaccel {
		log.Debug("Hardware acceleration disabled by configuration")
	} else {
		snap = hwaccel.Detect(ctx, log)
	}

	res, err := Transcode(ctx, cfg, log, clips, snap, engineInvoker{verbose: cfg.Verbose})
	if err != nil {
		return res, err
	}

	if fi, statErr := os.Stat(cfg.OutputPath); statErr == nil {
		log.WithFields(logrus.Fields{
			"output":  cfg.OutputPath,
			"size":    display.Bytes(fi.Size()),
			"elapsed": display.Duration(res.Elapsed),
		}).Info("Done")
	}
	return res, nil
}

// ResolveInputs turns the CLI input arrangement into an ordered clip list:
// two explicit file paths, or one directory scanned via Discover.
func ResolveInputs(cfg *config.Config) ([]string, error) {
	if len(cfg.Inputs) == 1 {
		fi, err := os.Stat(cfg.Inputs[0])
		if err != nil {
			return nil, fmt.Errorf("input: %w", err)
		}
		if !fi.IsDir() {
			return nil, errors.New("a single input must be a directory (pass two files for two-file mode)")
		}
		return Discover(cfg.Inputs[0], cfg.OutputPath)
	}

	for _, p := range cfg.Inputs {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("input: %w", err)
		}
		if fi.IsDir() {
			return nil, fmt.Errorf("input %q is a directory; folder mode takes exactly one", p)
		}
	}
	return cfg.Inputs, nil
}

// Transcode runs the attempt protocol against already-probed clips. All
// planning happens before the first invocation, so a planning error (such
// as an unmapped audio codec) can never leave a partially written output.
func Transcode(
	ctx context.Context,
	cfg *config.Config,
	log *logrus.Logger,
	clips []*probe.MediaDescriptor,
	snap hwaccel.Snapshot,
	inv Invoker,
) (Result, error) {
	start := time.Now()
	res := Result{Inputs: len(clips)}

	offsets := compileOffsets(cfg, log, clips)
	useHardware := snap.UseHardware() && !cfg.DisableHwaccel
	res.UsedHardware = useHardware

	mode := planner.DecodeSoftware
	if useHardware {
		mode = planner.DecodeHardware
	}
	job, err := buildJob(cfg, clips, snap, offsets, mode, planner.SelectVideoEncoder(useHardware))
	if err != nil {
		return res, err
	}

	if cfg.DryRun {
		log.Info(strings.Join(ffmpeg.Build(job), " "))
		res.Elapsed = time.Since(start)
		return res, nil
	}

	st := stateAttemptHardware
	if !useHardware {
		// Software is already the floor; a failure here is final.
		st = stateAttemptSoftwareFallback
	}
	log.WithFields(logrus.Fields{"state": st, "encoder": job.Encode.VideoEncoder}).Info("Rendering")

	err = inv.Invoke(ctx, ffmpeg.Build(job))
	if err == nil {
		res.Elapsed = time.Since(start)
		log.WithField("state", stateSucceeded).Debug("Attempt finished")
		return res, nil
	}

	var invErr *ffmpeg.InvocationError
	if !useHardware || !errors.As(err, &invErr) {
		res.Elapsed = time.Since(start)
		return res, fmt.Errorf("transcode: %w", err)
	}

	// One-shot decode-path fallback: rebuild the graph in software decode
	// mode with identical transition parameters and swap only the encoder
	// selection. The hardware encoder is kept when the snapshot advertises
	// one — decode-side and encode-side failures are distinct, and only
	// decode is known bad at this point.
	log.WithFields(logrus.Fields{
		"state": stateAttemptSoftwareFallback,
		"exit":  invErr.ExitCode,
	}).Warn("Hardware attempt failed, retrying on the software decode path")

	fbEncoder := planner.EncoderX265
	if snap.HasNvencEncoder {
		fbEncoder = planner.EncoderNvenc
	}
	fbJob, err := buildJob(cfg, clips, snap, offsets, planner.DecodeSoftware, fbEncoder)
	if err != nil {
		res.Elapsed = time.Since(start)
		return res, err
	}

	res.FellBack = true
	err = inv.Invoke(ctx, ffmpeg.Build(fbJob))
	res.Elapsed = time.Since(start)
	if err != nil {
		log.WithField("state", stateFailed).Debug("Fallback attempt failed")
		return res, fmt.Errorf("software fallback: %w", err)
	}
	log.WithField("state", stateSucceeded).Debug("Fallback attempt finished")
	return res, nil
}

// compileOffsets derives the transition chain. The frame-quantized
// variant is preferred for the two-clip case when the first clip's frame
// rate is precisely known, so the transition lands exactly on a frame
// boundary. Unknown durations are warned about and treated as zero.
func compileOffsets(cfg *config.Config, log *logrus.Logger, clips []*probe.MediaDescriptor) planner.TransitionPlan {
	durations := make([]float64, len(clips))
	for i, c := range clips {
		if !c.DurationKnown {
			log.WithField("clip", c.Path).Warn("Duration unknown, transition will start at the clip boundary")
			continue
		}
		durations[i] = c.DurationSeconds
	}

	first := clips[0]
	if len(clips) == 2 && first.FPSKnown {
		return planner.PlanOffsetsFrameAccurate(durations[0], first.FPS, cfg.TransitionDuration)
	}
	return planner.PlanOffsets(durations, cfg.TransitionDuration)
}

// buildJob compiles one attempt: encode plan first (planning errors abort
// before any graph work), then the filter graph for the given decode mode.
func buildJob(
	cfg *config.Config,
	clips []*probe.MediaDescriptor,
	snap hwaccel.Snapshot,
	offsets planner.TransitionPlan,
	mode planner.DecodeMode,
	encoder string,
) (*ffmpeg.Job, error) {
	first := clips[0]

	encode, err := planner.PlanEncode(first, encoder, cfg)
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}

	audioRate := first.AudioSampleRate
	if audioRate <= 0 {
		audioRate = cfg.AudioSampleRate
	}
	audioChannels := first.AudioChannels
	if audioChannels <= 0 {
		audioChannels = cfg.AudioChannels
	}

	graph := filtergraph.Build(filtergraph.Request{
		Clips:              clips,
		Offsets:            offsets,
		DecodeMode:         mode,
		Transition:         cfg.Transition,
		TransitionDuration: cfg.TransitionDuration,
		HardwareEncode:     encoder == planner.EncoderNvenc,
		AudioRate:          audioRate,
		AudioChannels:      audioChannels,
	})

	return &ffmpeg.Job{
		Clips:      clips,
		Graph:      graph,
		Encode:     encode,
		DecodeMode: mode,
		Snapshot:   snap,
		OutputPath: cfg.OutputPath,
		Verbose:    cfg.Verbose,
	}, nil
}
