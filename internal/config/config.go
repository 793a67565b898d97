package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/soundfx/internal/resource"
)

const appName = "soundfx"

type Config struct {
	SoundsDirs []string `koanf:"sounds_dirs"` // directories searched for sounds, in order
	Pack       string   `koanf:"pack"`        // sqlite sound pack (default: XDG data home)

	Audio AudioConfig `koanf:"audio"`
	Log   LogConfig   `koanf:"log"`
}

// AudioConfig holds audio output and playback defaults.
type AudioConfig struct {
	SampleRate    int      `koanf:"sample_rate"`    // output sample rate (default: 44100)
	BufferMS      int      `koanf:"buffer_ms"`      // device buffer (default: 100)
	DefaultVolume *float64 `koanf:"default_volume"` // 0.0-1.0 (default: 1.0)
	FadeMS        *int     `koanf:"fade_ms"`        // volume change fade (default: 250, 0 disables)
}

// LogConfig holds log file settings.
type LogConfig struct {
	Level string `koanf:"level"` // debug, info, warn, error (default: info)
	File  string `koanf:"file"`  // default: XDG state home
}

// AudioSettings is AudioConfig with defaults applied.
type AudioSettings struct {
	SampleRate    int
	Buffer        time.Duration
	DefaultVolume float64
	Fade          time.Duration
}

// LogSettings is LogConfig with defaults applied.
type LogSettings struct {
	Level slog.Level
	File  string
}

// Load reads the user config then ./config.toml, the latter winning.
func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given TOML files in order, later files overriding
// earlier ones. Missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	for i, dir := range cfg.SoundsDirs {
		cfg.SoundsDirs[i] = expandPath(dir)
	}
	cfg.Pack = expandPath(cfg.Pack)
	cfg.Log.File = expandPath(cfg.Log.File)

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/soundfx/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetSoundsDirs returns the configured sound directories, or the existing
// soundfx/sounds directories under the XDG data dirs when none are set.
func (c *Config) GetSoundsDirs() []string {
	if len(c.SoundsDirs) > 0 {
		return c.SoundsDirs
	}
	return resource.DataDirs(appName)
}

// HasPack returns true if a sound pack path is configured.
func (c *Config) HasPack() bool {
	return c.Pack != ""
}

// GetAudioConfig returns the audio configuration with defaults applied.
func (c *Config) GetAudioConfig() AudioSettings {
	cfg := AudioSettings{
		SampleRate:    44100,
		Buffer:        100 * time.Millisecond,
		DefaultVolume: 1.0,
		Fade:          250 * time.Millisecond,
	}

	if c.Audio.SampleRate >= 8000 && c.Audio.SampleRate <= 192000 {
		cfg.SampleRate = c.Audio.SampleRate
	}
	if c.Audio.BufferMS > 0 {
		cfg.Buffer = time.Duration(c.Audio.BufferMS) * time.Millisecond
	}
	if v := c.Audio.DefaultVolume; v != nil && *v >= 0 && *v <= 1 {
		cfg.DefaultVolume = *v
	}
	if f := c.Audio.FadeMS; f != nil && *f >= 0 {
		cfg.Fade = time.Duration(*f) * time.Millisecond
	}

	return cfg
}

// GetLogConfig returns the log configuration with defaults applied. An
// unknown level falls back to info.
func (c *Config) GetLogConfig() LogSettings {
	cfg := LogSettings{
		Level: slog.LevelInfo,
		File:  c.Log.File,
	}
	if c.Log.Level != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(c.Log.Level)); err == nil {
			cfg.Level = level
		}
	}
	if cfg.File == "" {
		cfg.File = filepath.Join(xdg.StateHome, appName, appName+".log")
	}
	return cfg
}
