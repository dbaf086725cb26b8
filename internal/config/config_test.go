package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Output.Format", cfg.Output.Format, "yaml"},
		{"Write.Compression", cfg.Write.Compression, 4},
		{"Write.Backend", cfg.Write.Backend, "go"},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Verbose", cfg.Verbose, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "output.format",
			envKey: "UVH5_OUTPUT_FORMAT",
			envVal: "JSON",
			field:  func(c Config) any { return c.Output.Format },
			want:   "json",
		},
		{
			name:   "write.compression",
			envKey: "UVH5_WRITE_COMPRESSION",
			envVal: "9",
			field:  func(c Config) any { return c.Write.Compression },
			want:   9,
		},
		{
			name:   "write.backend",
			envKey: "UVH5_WRITE_BACKEND",
			envVal: "LIBHDF5",
			field:  func(c Config) any { return c.Write.Backend },
			want:   "libhdf5",
		},
		{
			name:   "log.level",
			envKey: "UVH5_LOG_LEVEL",
			envVal: "debug",
			field:  func(c Config) any { return c.Log.Level },
			want:   "debug",
		},
		{
			name:   "verbose",
			envKey: "UVH5_VERBOSE",
			envVal: "true",
			field:  func(c Config) any { return c.Verbose },
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			BindEnv()
			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			if got := tt.field(cfg); got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	resetViper()

	path := filepath.Join(t.TempDir(), "uvh5.toml")
	body := "[output]\nformat = \"toml\"\n\n[write]\ncompression = 0\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Output.Format != "toml" {
		t.Errorf("Output.Format = %q, want toml", cfg.Output.Format)
	}
	if cfg.Write.Compression != 0 {
		t.Errorf("Write.Compression = %d, want 0", cfg.Write.Compression)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{"output.format", "xml"},
		{"write.compression", 12},
		{"write.backend", "cgo"},
		{"log.level", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			resetViper()
			viper.Set(tt.key, tt.value)

			if _, err := Load(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Load() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLogLevel(t *testing.T) {
	cfg := Config{Log: LogConfig{Level: "warn"}}
	if got := cfg.LogLevel(); got != slog.LevelWarn {
		t.Errorf("LogLevel() = %v, want WARN", got)
	}
	cfg.Verbose = true
	if got := cfg.LogLevel(); got != slog.LevelDebug {
		t.Errorf("LogLevel() with Verbose = %v, want DEBUG", got)
	}
}
