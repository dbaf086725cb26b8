// Command uvh5 inspects and converts UVH5 visibility files.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robert-malhotra/go-uvh5/internal/config"
	"github.com/robert-malhotra/go-uvh5/uvh5"
)

var rootCmd = &cobra.Command{
	Use:           "uvh5",
	Short:         "Inspect and convert UVH5 visibility files",
	Version:       uvh5.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "uvh5:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .uvh5.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".uvh5")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}
	config.BindEnv()

	// No config file is fine; defaults apply.
	_ = viper.ReadInConfig()
}

// setup loads the configuration and builds the logger for a command.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel())
	logger.Debug("configuration loaded", "file", viper.ConfigFileUsed(), "format", cfg.Output.Format)
	return cfg, logger, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
