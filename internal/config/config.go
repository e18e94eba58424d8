// Package config loads the gocull settings file
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultFile is read when no --config flag is given. A missing default
// file is not an error.
const DefaultFile = "gocull.toml"

// ErrInvalid reports a config value outside its allowed range
var ErrInvalid = errors.New("invalid config")

// Config holds the settings shared by all commands
type Config struct {
	Workers       int      `toml:"workers"`
	Precise       bool     `toml:"precise"`
	LogLevel      string   `toml:"log_level"`
	LogFormat     string   `toml:"log_format"`
	MetricsAddr   string   `toml:"metrics_addr"`
	WatchDebounce Duration `toml:"watch_debounce"`
}

// Duration decodes TOML strings like "300ms"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Workers:       runtime.NumCPU(),
		Precise:       true,
		LogLevel:      "info",
		LogFormat:     "text",
		WatchDebounce: Duration{300 * time.Millisecond},
	}
}

// Load reads path over the defaults. An empty path means DefaultFile, which
// may be absent.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}

	return cfg, cfg.Validate()
}

// Validate checks ranges and enumerations
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalid, c.LogFormat)
	}
	if c.WatchDebounce.Duration < 0 {
		return fmt.Errorf("%w: watch_debounce must not be negative", ErrInvalid)
	}
	return nil
}
