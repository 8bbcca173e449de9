package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig is the optional TOML file read by the terminal client.
type FileConfig struct {
	Capture CaptureFileConfig `toml:"capture"`
	Log     LogFileConfig     `toml:"log"`
}

// CaptureFileConfig holds recording settings. Nil fields fall back to the
// environment.
type CaptureFileConfig struct {
	TimeLimit *string `toml:"time-limit"`
	Format    *string `toml:"format"`
	Device    *string `toml:"device"`
}

type LogFileConfig struct {
	Path *string `toml:"path"`
}

// LoadFileConfig reads a TOML config from path. A missing file is not an error.
func LoadFileConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// ApplyFile overlays file settings on the capture config.
func (c *Config) ApplyFile(f FileConfig) error {
	if f.Capture.TimeLimit != nil {
		d, err := time.ParseDuration(*f.Capture.TimeLimit)
		if err != nil {
			return fmt.Errorf("invalid capture time-limit %q: %w", *f.Capture.TimeLimit, err)
		}
		c.Capture.TimeLimit = d
	}
	if f.Capture.Format != nil {
		c.Capture.Format = *f.Capture.Format
	}
	if f.Capture.Device != nil {
		c.Capture.Device = *f.Capture.Device
	}
	return nil
}

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGStateHome returns the XDG state home or a default fallback.
func XDGStateHome() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "state")
}

func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "vocalize", "config.toml")
}

func DefaultLogPath() string {
	return filepath.Join(XDGStateHome(), "vocalize", "vocalize.log")
}

// DefaultFileTemplate is written by `vocalize config` when no file exists.
func DefaultFileTemplate() string {
	return `# vocalize terminal client settings

[capture]
# time-limit = "30s"   # 0s disables the limit
# format = "pulse"     # ffmpeg input format
# device = "default"   # ffmpeg input device

[log]
# path = "~/.local/state/vocalize/vocalize.log"
`
}
