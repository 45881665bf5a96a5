package planner

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fadechain/fadechain/internal/config"
	"github.com/fadechain/fadechain/internal/probe"
)

// Output video encoders. The target codec is always HEVC regardless of the
// first clip's codec; that normalization is the point of the tool, not a
// preservation failure.
const (
	EncoderNvenc = "hevc_nvenc"
	EncoderX265  = "libx265"
)

// SelectVideoEncoder returns the encoder for the initial attempt.
func SelectVideoEncoder(useHardware bool) string {
	if useHardware {
		return EncoderNvenc
	}
	return EncoderX265
}

// audioEncoders is the fixed source-codec → encoder lookup. An unmapped
// codec is a fatal UnknownCodecError, never a silent default.
var audioEncoders = map[string]string{
	"aac":  "aac",
	"mp3":  "libmp3lame",
	"ac3":  "ac3",
	"opus": "libopus",
	"flac": "flac",
}

// faststartExts is the progressive-playback container family that gets
// the faststart trailer flag.
var faststartExts = map[string]bool{
	".mp4": true,
	".mov": true,
	".m4v": true,
}

// PlanEncode derives the encoder arguments that best preserve the first
// clip's profile. videoEncoder is EncoderNvenc or EncoderX265; the caller
// picks it from the capability snapshot (and may keep the hardware encoder
// on the decode-only fallback). Every carried parameter is independently
// optional: absent source values are omitted or defaulted per field, never
// guessed.
func PlanEncode(first *probe.MediaDescriptor, videoEncoder string, cfg *config.Config) (*EncodePlan, error) {
	plan := &EncodePlan{VideoEncoder: videoEncoder}
	hwEncode := videoEncoder == EncoderNvenc

	// Profile/level carry-over only applies to the software encoder; nvenc
	// rejects the libx265 profile/level vocabulary.
	if !hwEncode {
		if p := normalizeProfile(first.Profile); p != "" {
			plan.VideoArgs = append(plan.VideoArgs, "-profile:v", p)
		}
		if l := NormalizeLevel(first.Level); l != "" {
			plan.VideoArgs = append(plan.VideoArgs, "-level:v", l)
		}
	}

	plan.VideoArgs = append(plan.VideoArgs, "-pix_fmt", OutputPixelFormat(first, hwEncode))

	// Color metadata passes through verbatim when present, omitted when
	// absent. Defaulting these would stamp wrong metadata onto the output.
	if first.ColorPrimaries != "" {
		plan.VideoArgs = append(plan.VideoArgs, "-color_primaries", first.ColorPrimaries)
	}
	if first.ColorTransfer != "" {
		plan.VideoArgs = append(plan.VideoArgs, "-color_trc", first.ColorTransfer)
	}
	if first.ColorSpace != "" {
		plan.VideoArgs = append(plan.VideoArgs, "-colorspace", first.ColorSpace)
	}

	if first.VideoBitrate > 0 {
		b := strconv.FormatInt(first.VideoBitrate, 10)
		// maxrate = target, bufsize = 2x: a deliberately loose VBV bound
		// that tracks the source rate without starving complex scenes.
		plan.VideoArgs = append(plan.VideoArgs,
			"-b:v", b,
			"-maxrate", b,
			"-bufsize", strconv.FormatInt(first.VideoBitrate*2, 10),
		)
	} else if hwEncode {
		plan.VideoArgs = append(plan.VideoArgs,
			"-rc", "vbr",
			"-cq", strconv.Itoa(cfg.DefaultQuality),
		)
	} else {
		plan.VideoArgs = append(plan.VideoArgs, "-crf", strconv.Itoa(cfg.DefaultQuality))
	}

	if !hwEncode {
		plan.VideoArgs = append(plan.VideoArgs, "-preset", "medium")
	}

	if first.HasAudio {
		enc, ok := audioEncoders[first.AudioCodec]
		if !ok {
			return nil, &UnknownCodecError{Codec: first.AudioCodec}
		}
		plan.AudioEncoder = enc

		if first.AudioBitrate > 0 {
			plan.AudioArgs = append(plan.AudioArgs, "-b:a", strconv.FormatInt(first.AudioBitrate, 10))
		} else {
			plan.AudioArgs = append(plan.AudioArgs, "-b:a", cfg.AudioBitrate)
		}
		if first.AudioSampleRate > 0 {
			plan.AudioArgs = append(plan.AudioArgs, "-ar", strconv.Itoa(first.AudioSampleRate))
		} else {
			plan.AudioArgs = append(plan.AudioArgs, "-ar", strconv.Itoa(cfg.AudioSampleRate))
		}
		if first.AudioChannels > 0 {
			plan.AudioArgs = append(plan.AudioArgs, "-ac", strconv.Itoa(first.AudioChannels))
		} else {
			plan.AudioArgs = append(plan.AudioArgs, "-ac", strconv.Itoa(cfg.AudioChannels))
		}
	}

	if faststartExts[strings.ToLower(filepath.Ext(cfg.OutputPath))] {
		plan.ContainerFlags = []string{"-movflags", "+faststart"}
	}

	return plan, nil
}

// OutputPixelFormat maps the first clip's bit depth to the encoder input
// format: 10-bit sources use the packed p010le layout only when the
// hardware encoder is active, the planar yuv420p10le otherwise; 8-bit
// sources always use yuv420p.
func OutputPixelFormat(first *probe.MediaDescriptor, hwEncode bool) string {
	if first.Is10Bit() {
		if hwEncode {
			return "p010le"
		}
		return "yuv420p10le"
	}
	return "yuv420p"
}

// normalizeProfile strips whitespace and casefolds, e.g. "Main 10" →
// "main10", matching the encoder's profile vocabulary.
func normalizeProfile(p string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(p), " ", ""))
}

// NormalizeLevel reformats two-digit numeric level strings "NM" as "N.M"
// ("41" → "4.1"). Already-dotted or otherwise-shaped values pass through
// unchanged.
func NormalizeLevel(l string) string {
	l = strings.TrimSpace(l)
	if len(l) == 2 && isDigits(l) {
		return l[:1] + "." + l[1:]
	}
	return l
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
