package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoVideoStream is returned when a file has no decodable video stream.
var ErrNoVideoStream = errors.New("no decodable video stream")

// Probe runs a single ffprobe JSON call against path and returns the
// parsed MediaDescriptor.
func Probe(ctx context.Context, path string) (*MediaDescriptor, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out, path)
}

// ParseJSON converts raw ffprobe JSON output into a MediaDescriptor.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte, path string) (*MediaDescriptor, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildDescriptor(&raw, path)
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
	BitRate  string `json:"bit_rate"`
}

type ffprobeStream struct {
	CodecName      string         `json:"codec_name"`
	CodecType      string         `json:"codec_type"`
	Profile        string         `json:"profile"`
	Level          int            `json:"level"`
	PixFmt         string         `json:"pix_fmt"`
	Width          int            `json:"width"`
	Height         int            `json:"height"`
	BitRate        string         `json:"bit_rate"`
	Duration       string         `json:"duration"`
	AvgFrameRate   string         `json:"avg_frame_rate"`
	RFrameRate     string         `json:"r_frame_rate"`
	ColorTransfer  string         `json:"color_transfer"`
	ColorPrimaries string         `json:"color_primaries"`
	ColorSpace     string         `json:"color_space"`
	Channels       int            `json:"channels"`
	SampleRate     string         `json:"sample_rate"`
	Disposition    map[string]int `json:"disposition"`
}

// --- Conversion from wire types to the descriptor ---

func buildDescriptor(raw *ffprobeOutput, path string) (*MediaDescriptor, error) {
	var video *ffprobeStream
	var audio *ffprobeStream

	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			if s.Disposition["attached_pic"] == 1 {
				continue
			}
			if video == nil {
				video = s
			}
		case "audio":
			if audio == nil {
				audio = s
			}
		}
	}

	if video == nil {
		return nil, fmt.Errorf("%q: %w", path, ErrNoVideoStream)
	}

	d := &MediaDescriptor{
		Path:           path,
		Width:          video.Width,
		Height:         video.Height,
		PixFmt:         video.PixFmt,
		VideoCodec:     video.CodecName,
		VideoBitrate:   parseInt64(video.BitRate),
		Profile:        video.Profile,
		ColorPrimaries: normalizeColorTag(video.ColorPrimaries),
		ColorTransfer:  normalizeColorTag(video.ColorTransfer),
		ColorSpace:     normalizeColorTag(video.ColorSpace),
	}
	if video.Level > 0 {
		d.Level = strconv.Itoa(video.Level)
	}

	d.FPS, d.FPSRational, d.FPSKnown = parseFrameRate(video.AvgFrameRate, video.RFrameRate)

	// Stream duration wins; the container value is the fallback. Either
	// may be missing, in which case the descriptor reports "unknown" and
	// the offset planner downgrades to a zero-length clip with a warning.
	if dur := parseFloat(video.Duration); dur > 0 {
		d.DurationSeconds = dur
		d.DurationKnown = true
	} else if dur := parseFloat(raw.Format.Duration); dur > 0 {
		d.DurationSeconds = dur
		d.DurationKnown = true
	}

	if audio != nil {
		d.HasAudio = true
		d.AudioCodec = audio.CodecName
		d.AudioBitrate = parseInt64(audio.BitRate)
		d.AudioSampleRate = parseInt(audio.SampleRate)
		d.AudioChannels = audio.Channels
	}

	return d, nil
}

// parseFrameRate reduces an ffprobe fraction ("30000/1001") to a float.
// avg_frame_rate is preferred; r_frame_rate is the fallback. When neither
// parses to a positive value the result is DefaultFPS with known=false.
func parseFrameRate(avg, nominal string) (fps float64, rational string, known bool) {
	for _, s := range []string{avg, nominal} {
		if f, ok := parseFraction(s); ok && f > 0 {
			return f, strings.TrimSpace(s), true
		}
	}
	return DefaultFPS, "", false
}

func parseFraction(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0/0" {
		return 0, false
	}
	num, den, found := strings.Cut(s, "/")
	if !found {
		f, err := strconv.ParseFloat(num, 64)
		return f, err == nil
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}

// normalizeColorTag drops the "unknown" placeholder ffprobe emits for
// unset color metadata so consumers can treat "" uniformly as absent.
func normalizeColorTag(s string) string {
	if s == "unknown" || s == "unspecified" {
		return ""
	}
	return s
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	n, _ := strconv.Atoi(s)
	return n
}
