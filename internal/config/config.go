package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/pagecraft/internal/config/loader"
	"github.com/dshills/pagecraft/internal/input/key"
	"github.com/dshills/pagecraft/internal/logging"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every pagecraft setting.
type Config struct {
	Logging   LoggingConfig     `toml:"logging"`
	History   HistoryConfig     `toml:"history"`
	Autosave  AutosaveConfig    `toml:"autosave"`
	Drag      DragConfig        `toml:"drag"`
	Registry  RegistryConfig    `toml:"registry"`
	Document  DocumentConfig    `toml:"document"`
	Clipboard ClipboardConfig   `toml:"clipboard"`
	Keymap    map[string]string `toml:"keymap"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// HistoryConfig configures undo history.
type HistoryConfig struct {
	MaxEntries int `toml:"max_entries"`
}

// AutosaveConfig configures periodic saving.
type AutosaveConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval Duration `toml:"interval"`
}

// DragConfig configures pointer gestures.
type DragConfig struct {
	// Threshold is the travel in cells that starts a drag.
	Threshold int `toml:"threshold"`

	// DoubleClick is the longest gap between presses of a double click.
	DoubleClick Duration `toml:"double_click"`
}

// RegistryConfig points at extra component definitions.
type RegistryConfig struct {
	Path string `toml:"path"`
}

// DocumentConfig names the document file.
type DocumentConfig struct {
	Path string `toml:"path"`
}

// ClipboardConfig configures the system clipboard mirror.
type ClipboardConfig struct {
	System bool `toml:"system"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		History:   HistoryConfig{MaxEntries: 100},
		Autosave:  AutosaveConfig{Enabled: true, Interval: Duration(30 * time.Second)},
		Drag:      DragConfig{Threshold: 4, DoubleClick: Duration(400 * time.Millisecond)},
		Document:  DocumentConfig{Path: "page.json"},
		Clipboard: ClipboardConfig{System: true},
		Keymap:    map[string]string{},
	}
}

// DefaultPath returns the user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "pagecraft.toml"
	}
	return filepath.Join(dir, "pagecraft", "config.toml")
}

// Options controls Load.
type Options struct {
	// FS reads the config file and its includes. Defaults to the OS.
	FS loader.FileSystem

	// Environ replaces os.Environ. Nil reads the process environment.
	Environ []string

	// SkipEnv ignores environment overrides.
	SkipEnv bool
}

// Load reads path (which may be missing) on top of the defaults, applies
// environment overrides and validates the result.
func Load(path string, opts Options) (*Config, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = loader.DefaultFS()
	}

	merged := make(map[string]any)
	if path != "" {
		file, err := loader.NewTOMLLoaderWithFS(fsys, path).Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, file)
	}

	if !opts.SkipEnv {
		env := loader.NewEnvLoader(loader.DefaultEnvPrefix)
		if opts.Environ != nil {
			env = loader.NewEnvLoaderFrom(loader.DefaultEnvPrefix, opts.Environ)
		}
		vars, err := env.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, vars)
	}

	cfg, err := decode(merged)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", displayPath(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML text on top of the defaults without includes or
// environment overrides.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode re-encodes the merged map and decodes it over the defaults so
// typed fields (durations, ints) get the same conversions as a file.
func decode(m map[string]any) (*Config, error) {
	cfg := Default()
	if len(m) == 0 {
		return cfg, nil
	}
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding merged config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func displayPath(path string) string {
	if path == "" {
		return "<environment>"
	}
	return path
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, fmt.Sprintf(format, args...)))
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		add("logging.level", "%v", err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		add("logging.format", "must be console or json, got %q", c.Logging.Format)
	}
	if c.History.MaxEntries <= 0 {
		add("history.max_entries", "must be positive, got %d", c.History.MaxEntries)
	}
	if c.Autosave.Enabled && c.Autosave.Interval.Std() <= 0 {
		add("autosave.interval", "must be positive, got %s", c.Autosave.Interval.Std())
	}
	if c.Drag.Threshold < 0 {
		add("drag.threshold", "must not be negative, got %d", c.Drag.Threshold)
	}
	if c.Drag.DoubleClick.Std() < 0 {
		add("drag.double_click", "must not be negative")
	}
	for chord := range c.Keymap {
		if _, err := key.Parse(chord); err != nil {
			add("keymap", "%q: %v", chord, err)
		}
	}
	return errors.Join(errs...)
}

// Marshal writes c as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// LoggingOptions converts the logging section for logging.New.
func (c *Config) LoggingOptions() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.File = c.Logging.File
	return cfg
}
