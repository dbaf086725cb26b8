// Package config loads settings for the uvh5 command from a config file,
// UVH5_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by BindEnv.
const EnvPrefix = "UVH5"

// ErrInvalid is returned by Load and Validate for out of range settings.
var ErrInvalid = errors.New("invalid configuration")

// Formats lists the supported output formats.
var Formats = []string{"yaml", "json", "toml"}

// OutputConfig controls how reports are printed.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// Backends lists the supported HDF5 writers.
var Backends = []string{"go", "libhdf5"}

// WriteConfig controls how files are written.
type WriteConfig struct {
	Compression int    `mapstructure:"compression"`
	Backend     string `mapstructure:"backend"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Config holds the runtime settings of the uvh5 command.
type Config struct {
	Output  OutputConfig `mapstructure:"output"`
	Write   WriteConfig  `mapstructure:"write"`
	Log     LogConfig    `mapstructure:"log"`
	Verbose bool         `mapstructure:"verbose"`
}

// BindEnv maps UVH5_* environment variables onto config keys, so that
// UVH5_OUTPUT_FORMAT sets output.format.
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("output.format", "yaml")
	viper.SetDefault("write.compression", 4)
	viper.SetDefault("write.backend", "go")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	cfg.Write.Backend = strings.ToLower(cfg.Write.Backend)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting.
func (c Config) Validate() error {
	if !slices.Contains(Formats, c.Output.Format) {
		return fmt.Errorf("%w: output.format %q, want one of %v", ErrInvalid, c.Output.Format, Formats)
	}
	if c.Write.Compression < 0 || c.Write.Compression > 9 {
		return fmt.Errorf("%w: write.compression %d, want 0-9", ErrInvalid, c.Write.Compression)
	}
	if !slices.Contains(Backends, c.Write.Backend) {
		return fmt.Errorf("%w: write.backend %q, want one of %v", ErrInvalid, c.Write.Backend, Backends)
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	return nil
}

// LogLevel returns the configured level; Verbose forces debug.
func (c Config) LogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	var l slog.Level
	_ = l.UnmarshalText([]byte(c.Log.Level))
	return l
}
