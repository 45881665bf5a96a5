package config

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Inputs = []string{"a.mp4", "b.mp4"}
	cfg.OutputPath = "out.mp4"
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown transition", func(c *Config) { c.Transition = "swirl" }},
		{"zero transition duration", func(c *Config) { c.TransitionDuration = 0 }},
		{"negative transition duration", func(c *Config) { c.TransitionDuration = -1 }},
		{"quality above range", func(c *Config) { c.DefaultQuality = 52 }},
		{"quality below range", func(c *Config) { c.DefaultQuality = -1 }},
		{"zero sample rate", func(c *Config) { c.AudioSampleRate = 0 }},
		{"zero channels", func(c *Config) { c.AudioChannels = 0 }},
		{"empty audio bitrate", func(c *Config) { c.AudioBitrate = "" }},
		{"garbage audio bitrate", func(c *Config) { c.AudioBitrate = "fast" }},
		{"invalid color mode", func(c *Config) { c.ColorMode = "rainbow" }},
		{"missing output", func(c *Config) { c.OutputPath = "" }},
		{"no inputs", func(c *Config) { c.Inputs = nil }},
		{"too many inputs", func(c *Config) { c.Inputs = []string{"a", "b", "c"} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_NormalizesAudioBitrate(t *testing.T) {
	cases := map[string]string{
		"192":     "192k",
		"192k":    "192k",
		"192K":    "192k",
		"256kbps": "256k",
		" 128k ":  "128k",
	}
	for in, want := range cases {
		cfg := validConfig()
		cfg.AudioBitrate = in
		require.NoError(t, cfg.Validate())
		assert.Equal(t, want, cfg.AudioBitrate, "input %q", in)
	}
}

func TestValidate_CheckOnlySkipsIOChecks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckOnly = true
	assert.NoError(t, cfg.Validate())
}

func TestTransitionKinds_SortedAndComplete(t *testing.T) {
	kinds := TransitionKinds()
	require.NotEmpty(t, kinds)
	assert.True(t, sort.StringsAreSorted(kinds))
	assert.Contains(t, kinds, "fade")
	assert.Contains(t, kinds, "dissolve")
	assert.Len(t, kinds, len(transitionKinds))
}
