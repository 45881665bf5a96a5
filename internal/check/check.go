// Package check provides system diagnostics (--check mode) and
// pre-pipeline dependency validation for ffmpeg and ffprobe.
package check

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fadechain/fadechain/internal/hwaccel"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
)

// CheckDeps is the pre-pipeline validation: ffmpeg and ffprobe must be on
// PATH. Hardware capability is not validated here — a missing accelerator
// is a normal outcome that selects the software path, not an error.
func CheckDeps() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	return nil
}

// RunCheck runs the interactive --check flow: tool availability, the
// hardware capability snapshot, and a short nvenc test encode. This is
// informational only; it reports problems without stopping on them.
// Returns false when a required tool is missing entirely.
func RunCheck(ctx context.Context, log *logrus.Logger) bool {
	log.Info("=== System Check ===")

	ok := checkTool(log, "ffmpeg")
	ok = checkTool(log, "ffprobe") && ok
	if !ok {
		return false
	}

	snap := hwaccel.Detect(ctx, log)
	report(log, "CUDA hwaccel", snap.HasCudaHwaccel)
	report(log, "hevc_nvenc encoder", snap.HasNvencEncoder)
	report(log, "CUVID decoders", snap.HasCuvidDecoder)
	report(log, "NVIDIA driver", snap.DriverPresent)

	if snap.UseHardware() {
		log.Info("Testing nvenc encode...")
		if testNvenc(ctx) {
			log.Info("nvenc test encode works")
		} else {
			log.Warn("nvenc advertised but test encode failed; runs will fall back to software")
		}
	} else {
		log.Info("Hardware path unavailable; runs will use libx265")
	}
	return true
}

func checkTool(log *logrus.Logger, name string) bool {
	if _, err := exec.LookPath(name); err != nil {
		log.Errorf("%s not found", name)
		return false
	}
	out, err := exec.Command(name, "-version").Output()
	if err != nil {
		log.Warnf("%s found but -version failed: %v", name, err)
		return true
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Info(firstLine)
	return true
}

func report(log *logrus.Logger, label string, present bool) {
	if present {
		log.Infof("%s: available", label)
	} else {
		log.Warnf("%s: not available", label)
	}
}

// testNvenc runs a minimal hevc_nvenc encode against a generated source.
func testNvenc(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", "hevc_nvenc",
		"-f", "null", "-",
	)
	return cmd.Run() == nil
}
