// Package config holds runtime configuration: defaults, a viper-backed
// environment/file overlay, and validation.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [Load] (defaults
// plus environment/file overlay) and then mutated by CLI flag binding
// before being passed by pointer to the packages that need it.
type Config struct {
	// Inputs: either exactly two file paths, or one directory (folder mode).
	Inputs     []string `mapstructure:"-"`
	OutputPath string   `mapstructure:"output"`

	// Transition settings.
	Transition         string  `mapstructure:"transition"`          // xfade transition kind. Default: "fade".
	TransitionDuration float64 `mapstructure:"transition_duration"` // Seconds. Default: 1.0.

	// Quality default, used only when the first clip reports no video bitrate.
	DefaultQuality int `mapstructure:"quality"` // CQ (nvenc) / CRF (libx265). Default: 23.

	// Audio defaults, substituted when the first clip's audio stream does
	// not report the corresponding value.
	AudioBitrate    string `mapstructure:"audio_bitrate"`     // Default: "192k".
	AudioSampleRate int    `mapstructure:"audio_sample_rate"` // Default: 48000.
	AudioChannels   int    `mapstructure:"audio_channels"`    // Default: 2.

	// Behavior flags.
	DisableHwaccel bool `mapstructure:"no_hwaccel"` // Force the software path.
	DryRun         bool `mapstructure:"dry_run"`
	CheckOnly      bool `mapstructure:"-"` // Run --check diagnostics and exit.

	// Display and logging.
	Verbose   bool      `mapstructure:"verbose"`
	ColorMode ColorMode `mapstructure:"color"`
	LogFile   string    `mapstructure:"log_file"` // Optional log file path.
}

// transitionKinds is the fixed set of accepted xfade transition operators.
var transitionKinds = map[string]bool{
	"fade":        true,
	"fadeblack":   true,
	"fadewhite":   true,
	"dissolve":    true,
	"wipeleft":    true,
	"wiperight":   true,
	"wipeup":      true,
	"wipedown":    true,
	"slideleft":   true,
	"slideright":  true,
	"slideup":     true,
	"slidedown":   true,
	"circleopen":  true,
	"circleclose": true,
	"radial":      true,
	"pixelize":    true,
	"distance":    true,
	"smoothleft":  true,
	"smoothright": true,
	"smoothup":    true,
	"smoothdown":  true,
}

// TransitionKinds returns the accepted transition names sorted, for help text.
func TransitionKinds() []string {
	kinds := make([]string, 0, len(transitionKinds))
	for k := range transitionKinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [Load] applies the environment/file overlay and the CLI applies flags.
func DefaultConfig() Config {
	return Config{
		Transition:         "fade",
		TransitionDuration: 1.0,
		DefaultQuality:     23,
		AudioBitrate:       "192k",
		AudioSampleRate:    48000,
		AudioChannels:      2,
		ColorMode:          ColorAuto,
	}
}

// Load returns a Config built from defaults, an optional config file
// (fadechain.yaml in the working directory or ~/.config/fadechain), and
// FADECHAIN_* environment variables. A missing config file is not an error.
func Load() (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetDefault("transition", cfg.Transition)
	v.SetDefault("transition_duration", cfg.TransitionDuration)
	v.SetDefault("quality", cfg.DefaultQuality)
	v.SetDefault("audio_bitrate", cfg.AudioBitrate)
	v.SetDefault("audio_sample_rate", cfg.AudioSampleRate)
	v.SetDefault("audio_channels", cfg.AudioChannels)
	v.SetDefault("no_hwaccel", cfg.DisableHwaccel)
	v.SetDefault("dry_run", cfg.DryRun)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("color", string(cfg.ColorMode))
	v.SetDefault("log_file", cfg.LogFile)
	v.SetDefault("output", cfg.OutputPath)

	v.SetConfigName("fadechain")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/fadechain")

	v.SetEnvPrefix("FADECHAIN")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks enum fields and value ranges. When not in CheckOnly mode
// it also requires an output path and a plausible input arrangement: two
// file paths, or a single directory (folder mode). Which arrangement it
// actually is gets verified against the filesystem by the pipeline.
func (c *Config) Validate() error {
	if !transitionKinds[c.Transition] {
		return fmt.Errorf("unknown transition %q (see --help for the accepted set)", c.Transition)
	}
	if c.TransitionDuration <= 0 {
		return errors.New("transition duration must be positive")
	}
	if c.DefaultQuality < 0 || c.DefaultQuality > 51 {
		return errors.New("quality must be between 0 and 51")
	}
	if c.AudioSampleRate <= 0 {
		return errors.New("audio sample rate must be positive")
	}
	if c.AudioChannels < 1 {
		return errors.New("audio channels must be at least 1")
	}

	normalized, err := normalizeAudioBitrate(c.AudioBitrate)
	if err != nil {
		return err
	}
	c.AudioBitrate = normalized

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.CheckOnly {
		return nil
	}
	if c.OutputPath == "" {
		return errors.New("output path is required (use --output)")
	}
	switch len(c.Inputs) {
	case 1, 2:
		// valid
	default:
		return errors.New("need either two input files or one input directory")
	}
	return nil
}

// normalizeAudioBitrate validates and canonicalizes user bitrate input.
// Accepted forms: "192", "192k", "192K", "192kbps". Output is "<n>k".
func normalizeAudioBitrate(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", errors.New("audio bitrate must not be empty")
	}
	if strings.HasSuffix(s, "kbps") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "kbps"))
	} else if strings.HasSuffix(s, "k") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "k"))
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return "", fmt.Errorf("invalid audio bitrate %q (use positive Kbps value, e.g. 192k)", raw)
	}
	return fmt.Sprintf("%dk", n), nil
}
