// Package config loads keystate's tool configuration.
//
// Settings come from built-in defaults, then an optional TOML file, then
// KEYSTATE_* environment variables. Later sources win.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/keystate/internal/logging"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "KEYSTATE_"

// Output formats accepted by Output.Format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Common configuration errors.
var (
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidFormat   = errors.New("invalid output format")
	ErrInvalidValue    = errors.New("invalid value")
)

// Config holds the tool configuration.
type Config struct {
	Log     LogConfig     `toml:"log"`
	Output  OutputConfig  `toml:"output"`
	History HistoryConfig `toml:"history"`
	Watch   WatchConfig   `toml:"watch"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// OutputConfig configures how results are printed.
type OutputConfig struct {
	Format string `toml:"format"`
}

// HistoryConfig configures the undo history.
type HistoryConfig struct {
	MaxEntries int `toml:"max_entries"`
}

// WatchConfig configures file watching.
type WatchConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:     LogConfig{Level: "info"},
		Output:  OutputConfig{Format: FormatText},
		History: HistoryConfig{MaxEntries: 1000},
		Watch:   WatchConfig{DebounceMS: 100},
	}
}

// LogLevel returns the parsed log level.
func (c Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}

// Debounce returns the watch debounce interval.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// Validate checks that every setting holds an accepted value.
func (c Config) Validate() error {
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}
	switch c.Output.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Output.Format)
	}
	if c.History.MaxEntries <= 0 {
		return fmt.Errorf("%w: history.max_entries must be positive, got %d", ErrInvalidValue, c.History.MaxEntries)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("%w: watch.debounce_ms must not be negative, got %d", ErrInvalidValue, c.Watch.DebounceMS)
	}
	return nil
}

// FileSystem reads configuration files. fstest.MapFS satisfies it.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
}

// OSFS reads files from the operating system.
type OSFS struct{}

// ReadFile reads the named file.
func (OSFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// Loader builds a Config from a file and the environment.
type Loader struct {
	fs     FileSystem
	lookup func(string) (string, bool)
}

// Option configures a Loader.
type Option func(*Loader)

// WithFS sets the file system used to read configuration files.
func WithFS(fsys FileSystem) Option {
	return func(l *Loader) {
		l.fs = fsys
	}
}

// WithLookupEnv sets the environment lookup function.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(l *Loader) {
		l.lookup = lookup
	}
}

// NewLoader creates a loader reading from the OS file system and environment.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		fs:     OSFS{},
		lookup: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the defaults overlaid with path (if non-empty) and the
// environment. A missing file is an error only when path was given
// explicitly; callers pass "" to skip the file.
func (l *Loader) Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := l.fs.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return cfg, fmt.Errorf("config file %s: %w", path, err)
			}
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := parse(path, data, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := l.applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// parse decodes TOML data over cfg.
func parse(source string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}

// applyEnv overlays KEYSTATE_* variables onto cfg.
func (l *Loader) applyEnv(cfg *Config) error {
	if v, ok := l.lookup(EnvPrefix + "LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := l.lookup(EnvPrefix + "FORMAT"); ok {
		cfg.Output.Format = v
	}
	if v, ok := l.lookup(EnvPrefix + "MAX_UNDO"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sMAX_UNDO=%q", ErrInvalidValue, EnvPrefix, v)
		}
		cfg.History.MaxEntries = n
	}
	if v, ok := l.lookup(EnvPrefix + "DEBOUNCE_MS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sDEBOUNCE_MS=%q", ErrInvalidValue, EnvPrefix, v)
		}
		cfg.Watch.DebounceMS = n
	}
	return nil
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
