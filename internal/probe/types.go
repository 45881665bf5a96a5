package probe

import (
	"strconv"
	"strings"
)

// DefaultFPS is assumed when a clip's frame rate cannot be parsed.
const DefaultFPS = 30.0

// MediaDescriptor holds the normalized probe result for one input clip.
// Optional fields keep their zero value when the probe did not report them;
// DurationKnown and FPSKnown record whether the corresponding value was
// actually observed (a duration of 0 with DurationKnown=false means
// "unknown", which downstream planning must warn about, never fail on).
// Immutable once constructed.
type MediaDescriptor struct {
	Path string

	// Video stream (always present; absence is a probe error).
	Width        int
	Height       int
	FPS          float64 // reduced from the probe's fraction; DefaultFPS when unparseable
	FPSRational  string  // the probe's fraction verbatim, e.g. "30000/1001"; "" when unparseable
	FPSKnown     bool
	PixFmt       string
	VideoCodec   string
	VideoBitrate int64  // bits/sec, 0 = unknown
	Profile      string // "" = absent
	Level        string // "" = absent; raw form, e.g. "41" or "4.1"

	// Color metadata, passed through verbatim when present.
	ColorPrimaries string
	ColorTransfer  string
	ColorSpace     string

	// Container/stream duration.
	DurationSeconds float64
	DurationKnown   bool

	// First audio stream, if any.
	HasAudio        bool
	AudioCodec      string
	AudioBitrate    int64 // bits/sec, 0 = unknown
	AudioSampleRate int
	AudioChannels   int
}

// Is10Bit reports whether the clip's pixel format indicates 10-bit
// sampling (planar *10le/*10be or the packed p010 family).
func (d *MediaDescriptor) Is10Bit() bool {
	return strings.Contains(d.PixFmt, "10le") ||
		strings.Contains(d.PixFmt, "10be") ||
		strings.HasPrefix(d.PixFmt, "p010")
}

// Resolution returns "WxH", or "unknown" when dimensions are missing.
func (d *MediaDescriptor) Resolution() string {
	if d.Width <= 0 || d.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(d.Width) + "x" + strconv.Itoa(d.Height)
}
