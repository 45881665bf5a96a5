// Package hwaccel probes the ffmpeg build and the host for NVIDIA
// hardware-acceleration support and produces an immutable Snapshot that
// selects the decode/encode path for the whole run.
package hwaccel

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Snapshot captures hardware capability at the start of a run. It is
// computed once by Detect and never re-derived mid-run; the deliberate
// software fallback after a failed hardware attempt changes the decode
// mode, not the snapshot.
type Snapshot struct {
	HasCudaHwaccel  bool
	HasNvencEncoder bool
	HasCuvidDecoder bool
	DriverPresent   bool

	// Decoders holds the ffmpeg decoder identifiers advertised by the
	// build, used to pick a per-input CUVID decoder.
	Decoders map[string]bool
}

// UseHardware reports whether the hardware decode/encode path is viable.
func (s Snapshot) UseHardware() bool {
	return s.HasCudaHwaccel && s.HasNvencEncoder && s.HasCuvidDecoder && s.DriverPresent
}

// cuvidDecoders is the fixed source-codec → CUVID decoder lookup. A codec
// outside this table simply decodes in software even on the hardware path.
var cuvidDecoders = map[string]string{
	"h264":       "h264_cuvid",
	"hevc":       "hevc_cuvid",
	"mpeg1video": "mpeg1_cuvid",
	"mpeg2video": "mpeg2_cuvid",
	"mpeg4":      "mpeg4_cuvid",
	"vc1":        "vc1_cuvid",
	"vp8":        "vp8_cuvid",
	"vp9":        "vp9_cuvid",
	"av1":        "av1_cuvid",
}

// DecoderFor returns the CUVID decoder for a source codec, but only when
// the probed ffmpeg build actually advertises it.
func (s Snapshot) DecoderFor(codec string) (string, bool) {
	dec, ok := cuvidDecoders[codec]
	if !ok || !s.Decoders[dec] {
		return "", false
	}
	return dec, true
}

// nvidiaDriverPath is the Linux driver-presence probe target. Overridable
// in tests.
var nvidiaDriverPath = "/proc/driver/nvidia/version"

// Detect queries the ffmpeg build's hwaccels, encoders, and decoders, plus
// the platform driver check, and returns the capability snapshot. A
// negative result is a normal outcome that selects the software path, not
// an error; accordingly Detect never fails — a broken ffmpeg simply probes
// as all-negative (and the pre-flight check reports the real problem).
func Detect(ctx context.Context, log *logrus.Logger) Snapshot {
	snap := Snapshot{
		HasCudaHwaccel:  listHas(ctx, "-hwaccels", "cuda"),
		HasNvencEncoder: listHas(ctx, "-encoders", "hevc_nvenc"),
		Decoders:        nameSet(ctx, "-decoders"),
	}
	for _, dec := range cuvidDecoders {
		if snap.Decoders[dec] {
			snap.HasCuvidDecoder = true
			break
		}
	}

	// The driver check only means anything once the build-level checks
	// passed, and only on Linux; elsewhere it is assumed satisfied.
	if snap.HasCudaHwaccel && snap.HasNvencEncoder && snap.HasCuvidDecoder {
		snap.DriverPresent = driverPresent()
	}

	log.WithFields(logrus.Fields{
		"cuda":   snap.HasCudaHwaccel,
		"nvenc":  snap.HasNvencEncoder,
		"cuvid":  snap.HasCuvidDecoder,
		"driver": snap.DriverPresent,
	}).Debug("Hardware capability snapshot")

	return snap
}

func driverPresent() bool {
	if runtime.GOOS != "linux" {
		return true
	}
	_, err := os.Stat(nvidiaDriverPath)
	return err == nil
}

// listHas runs "ffmpeg -hide_banner <listFlag>" and reports whether name
// appears as an advertised identifier.
func listHas(ctx context.Context, listFlag, name string) bool {
	return nameSet(ctx, listFlag)[name]
}

// nameSet parses an ffmpeg capability listing into the set of advertised
// identifiers. Output comes in two shapes: bare names per line (-hwaccels)
// and "flags name description" rows (-encoders, -decoders); taking the
// first field that is not a flag column handles both.
func nameSet(ctx context.Context, listFlag string) map[string]bool {
	out, err := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", listFlag).Output()
	if err != nil {
		return nil
	}
	return ParseNames(string(out))
}

// ParseNames extracts advertised identifiers from ffmpeg list output.
// Exported for testing against captured output.
func ParseNames(out string) map[string]bool {
	names := make(map[string]bool)
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasSuffix(line, ":") || strings.HasPrefix(line, "-") {
			continue
		}
		fields := strings.Fields(line)
		switch len(fields) {
		case 0:
			continue
		case 1:
			names[fields[0]] = true
		default:
			// "V....D h264_cuvid  Nvidia CUVID H264 decoder" puts the
			// identifier after a dot-padded flag column. Legend rows like
			// "V..... = Video" share that shape and are skipped.
			if strings.ContainsRune(fields[0], '.') {
				if fields[1] != "=" {
					names[fields[1]] = true
				}
			} else {
				names[fields[0]] = true
			}
		}
	}
	return names
}
