// Command fadechain joins ordered video clips with visual and audio
// transitions at every boundary, re-encoding to an HEVC profile derived
// from the first clip.
//
// It parses flags, validates configuration, and either runs system
// diagnostics (--check) or the probe → plan → render pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fadechain/fadechain/internal/check"
	"github.com/fadechain/fadechain/internal/config"
	"github.com/fadechain/fadechain/internal/display"
	"github.com/fadechain/fadechain/internal/ffmpeg"
	"github.com/fadechain/fadechain/internal/logging"
	"github.com/fadechain/fadechain/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Bootstrap: no logger exists yet, so config errors go straight to
	// stderr. Once the logger is up, all output goes through it.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fadechain: %v\n", err)
		return 1
	}

	// Cancel on SIGINT/SIGTERM; the running engine process is killed with
	// the context and the failure propagates like any other.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&cfg).ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "fadechain <first.mp4> <second.mp4> | <directory>",
		Short: "Join video clips with transitions",
		Long: "Fadechain joins ordered video clips into a single HEVC output,\n" +
			"rendering a visual transition and an audio crossfade at every\n" +
			"clip boundary. Pass two files, or one directory whose video\n" +
			"files are joined in name order.",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.RangeArgs(0, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Inputs = args
			return runPipeline(cmd.Context(), cfg)
		},
	}

	f := root.Flags()
	f.StringVarP(&cfg.OutputPath, "output", "o", cfg.OutputPath, "output file path (required)")
	f.StringVarP(&cfg.Transition, "transition", "t", cfg.Transition,
		fmt.Sprintf("transition kind (%v)", config.TransitionKinds()))
	f.Float64VarP(&cfg.TransitionDuration, "duration", "d", cfg.TransitionDuration, "transition duration in seconds")
	f.IntVarP(&cfg.DefaultQuality, "quality", "q", cfg.DefaultQuality, "constant-quality level used when the source reports no bitrate")
	f.StringVar(&cfg.AudioBitrate, "audio-bitrate", cfg.AudioBitrate, "default audio bitrate, e.g. 192k")
	f.BoolVar(&cfg.DisableHwaccel, "no-hwaccel", cfg.DisableHwaccel, "force the software decode/encode path")
	f.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "print the compiled ffmpeg command without running it")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "enable debug logging and engine output")
	f.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "duplicate log output to a file")
	f.BoolVar(&cfg.CheckOnly, "check", cfg.CheckOnly, "run system diagnostics and exit")

	return root
}

func runPipeline(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "fadechain: %v\n", err)
		return err
	}

	log, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fadechain: %v\n", err)
		return err
	}

	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(ctx, log) {
			return errors.New("check failed")
		}
		return nil
	}

	// Fail fast before probing anything.
	if err := check.CheckDeps(); err != nil {
		log.Error(err)
		return err
	}

	if _, err := pipeline.Run(ctx, cfg, log); err != nil {
		var invErr *ffmpeg.InvocationError
		if errors.As(err, &invErr) {
			log.WithField("exit", invErr.ExitCode).Errorf("Render failed: %v", err)
		} else {
			log.Errorf("%v", err)
		}
		return err
	}
	return nil
}
