package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleH264 = `{
  "streams": [
    {
      "codec_name": "h264",
      "codec_type": "video",
      "profile": "High",
      "level": 41,
      "pix_fmt": "yuv420p",
      "width": 1920,
      "height": 1080,
      "bit_rate": "4000000",
      "duration": "10.500000",
      "avg_frame_rate": "30000/1001",
      "r_frame_rate": "30000/1001",
      "color_transfer": "bt709",
      "color_primaries": "bt709",
      "color_space": "bt709",
      "disposition": {"attached_pic": 0}
    },
    {
      "codec_name": "aac",
      "codec_type": "audio",
      "bit_rate": "192000",
      "sample_rate": "48000",
      "channels": 2,
      "disposition": {}
    }
  ],
  "format": {"duration": "10.533000", "bit_rate": "4250000"}
}`

func TestParseJSON_FullDescriptor(t *testing.T) {
	d, err := ParseJSON([]byte(sampleH264), "clip.mp4")
	require.NoError(t, err)

	assert.Equal(t, "clip.mp4", d.Path)
	assert.Equal(t, 1920, d.Width)
	assert.Equal(t, 1080, d.Height)
	assert.Equal(t, "yuv420p", d.PixFmt)
	assert.Equal(t, "h264", d.VideoCodec)
	assert.Equal(t, int64(4000000), d.VideoBitrate)
	assert.Equal(t, "High", d.Profile)
	assert.Equal(t, "41", d.Level)

	assert.InDelta(t, 29.97, d.FPS, 0.001)
	assert.Equal(t, "30000/1001", d.FPSRational)
	assert.True(t, d.FPSKnown)

	// Stream duration wins over the container value.
	assert.Equal(t, 10.5, d.DurationSeconds)
	assert.True(t, d.DurationKnown)

	assert.Equal(t, "bt709", d.ColorPrimaries)
	assert.Equal(t, "bt709", d.ColorTransfer)
	assert.Equal(t, "bt709", d.ColorSpace)

	assert.True(t, d.HasAudio)
	assert.Equal(t, "aac", d.AudioCodec)
	assert.Equal(t, int64(192000), d.AudioBitrate)
	assert.Equal(t, 48000, d.AudioSampleRate)
	assert.Equal(t, 2, d.AudioChannels)
}

func TestParseJSON_ContainerDurationFallback(t *testing.T) {
	d, err := ParseJSON([]byte(`{
	  "streams": [{"codec_type": "video", "codec_name": "h264", "avg_frame_rate": "25/1"}],
	  "format": {"duration": "42.0"}
	}`), "clip.mkv")
	require.NoError(t, err)
	assert.Equal(t, 42.0, d.DurationSeconds)
	assert.True(t, d.DurationKnown)
}

func TestParseJSON_MissingDuration(t *testing.T) {
	d, err := ParseJSON([]byte(`{
	  "streams": [{"codec_type": "video", "codec_name": "h264", "avg_frame_rate": "25/1"}],
	  "format": {}
	}`), "clip.ts")
	require.NoError(t, err)
	assert.False(t, d.DurationKnown)
	assert.Zero(t, d.DurationSeconds)
}

func TestParseJSON_FrameRateFallsBackToNominal(t *testing.T) {
	d, err := ParseJSON([]byte(`{
	  "streams": [{"codec_type": "video", "codec_name": "h264",
	    "avg_frame_rate": "0/0", "r_frame_rate": "24/1", "duration": "5"}]
	}`), "clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, 24.0, d.FPS)
	assert.Equal(t, "24/1", d.FPSRational)
	assert.True(t, d.FPSKnown)
}

func TestParseJSON_UnknownFrameRateUsesDefault(t *testing.T) {
	d, err := ParseJSON([]byte(`{
	  "streams": [{"codec_type": "video", "codec_name": "h264",
	    "avg_frame_rate": "0/0", "r_frame_rate": "0/0", "duration": "5"}]
	}`), "clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, DefaultFPS, d.FPS)
	assert.Empty(t, d.FPSRational)
	assert.False(t, d.FPSKnown)
}

func TestParseJSON_SkipsAttachedPicture(t *testing.T) {
	d, err := ParseJSON([]byte(`{
	  "streams": [
	    {"codec_type": "video", "codec_name": "mjpeg", "width": 600, "height": 600,
	     "disposition": {"attached_pic": 1}},
	    {"codec_type": "video", "codec_name": "hevc", "width": 3840, "height": 2160,
	     "avg_frame_rate": "24/1", "duration": "8"}
	  ]
	}`), "clip.mkv")
	require.NoError(t, err)
	assert.Equal(t, "hevc", d.VideoCodec)
	assert.Equal(t, 3840, d.Width)
}

func TestParseJSON_NoVideoStream(t *testing.T) {
	_, err := ParseJSON([]byte(`{
	  "streams": [{"codec_type": "audio", "codec_name": "mp3", "channels": 2}]
	}`), "song.mp3")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoVideoStream)
	assert.Contains(t, err.Error(), "song.mp3")
}

func TestParseJSON_ColorTagNormalization(t *testing.T) {
	d, err := ParseJSON([]byte(`{
	  "streams": [{"codec_type": "video", "codec_name": "h264",
	    "avg_frame_rate": "30/1", "duration": "3",
	    "color_primaries": "unknown", "color_transfer": "unspecified",
	    "color_space": "bt2020nc"}]
	}`), "clip.mp4")
	require.NoError(t, err)
	assert.Empty(t, d.ColorPrimaries)
	assert.Empty(t, d.ColorTransfer)
	assert.Equal(t, "bt2020nc", d.ColorSpace)
}

func TestParseJSON_MalformedInput(t *testing.T) {
	_, err := ParseJSON([]byte("not json"), "clip.mp4")
	assert.Error(t, err)
}

func TestIs10Bit(t *testing.T) {
	cases := []struct {
		pixFmt string
		want   bool
	}{
		{"yuv420p", false},
		{"nv12", false},
		{"yuv420p10le", true},
		{"yuv422p10le", true},
		{"yuv420p10be", true},
		{"p010le", true},
		{"", false},
	}
	for _, tc := range cases {
		d := &MediaDescriptor{PixFmt: tc.pixFmt}
		assert.Equal(t, tc.want, d.Is10Bit(), "pix_fmt %q", tc.pixFmt)
	}
}
