package electric

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the tunables for a Runtime and the host that shows it.
// Hosts load it from an electric.toml file; zero sections fall back to
// DefaultConfig.
type Config struct {
	Runtime RuntimeConfig `toml:"runtime"`
	Window  WindowConfig  `toml:"window"`
	Logging LoggingConfig `toml:"logging"`
	Audio   AudioConfig   `toml:"audio"`
}

type RuntimeConfig struct {
	BackgroundColor string  `toml:"background_color"` // CSS color; empty = transparent
	MaxDeltaTime    float64 `toml:"max_delta_time"`   // seconds; 0 disables the clamp
	Debug           bool    `toml:"debug"`
}

type WindowConfig struct {
	Title         string  `toml:"title"`
	Width         int     `toml:"width"`
	Height        int     `toml:"height"`
	FontPath      string  `toml:"font_path"` // TTF/OTF; empty = built-in bitmap face
	ScreenshotDir string  `toml:"screenshot_dir"`
	DPR           float64 `toml:"dpr"` // 0 = ask the monitor
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type AudioConfig struct {
	SampleRate int `toml:"sample_rate"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Runtime: RuntimeConfig{
			BackgroundColor: "#000000",
			MaxDeltaTime:    0.25,
		},
		Window: WindowConfig{
			Title:         "electric",
			Width:         800,
			Height:        600,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Audio: AudioConfig{
			SampleRate: 44100,
		},
	}
}

// LoadConfig reads a TOML file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes TOML data over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and color syntax.
func (c Config) Validate() error {
	if c.Runtime.MaxDeltaTime < 0 {
		return fmt.Errorf("runtime.max_delta_time must be >= 0, got %v", c.Runtime.MaxDeltaTime)
	}
	if c.Runtime.BackgroundColor != "" {
		if _, err := ParseColor(c.Runtime.BackgroundColor); err != nil {
			return fmt.Errorf("runtime.background_color: %w", err)
		}
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	return nil
}

// MaxDelta returns Runtime.MaxDeltaTime as a duration.
func (c Config) MaxDelta() time.Duration {
	return time.Duration(c.Runtime.MaxDeltaTime * float64(time.Second))
}

// Background returns the parsed background paint, or nil for none.
func (c Config) Background() Paint {
	if c.Runtime.BackgroundColor == "" {
		return nil
	}
	col, err := ParseColor(c.Runtime.BackgroundColor)
	if err != nil {
		return nil
	}
	return col
}
