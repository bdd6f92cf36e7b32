// Package config handles configuration loading for reduceprep.
// It supports XDG config paths and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all configuration for reduceprep.
type Config struct {
	// BuildCommand is the verbose build command preamble run in the
	// kernel tree, without the target goal.
	BuildCommand []string `mapstructure:"build_command"`
	// OutputDir receives the generated artifacts.
	OutputDir string `mapstructure:"output_dir"`
	// FailFast bakes -Wfatal-errors into generated harnesses.
	FailFast bool `mapstructure:"fail_fast"`
	// HistoryDB overrides the run-history database location.
	HistoryDB string `mapstructure:"history_db"`
}

// Load reads configuration from $XDG_CONFIG_HOME/reduceprep/config.yaml
// (or ~/.config), applies REDUCEPREP_* environment overrides, and falls
// back to defaults. A missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir())

	v.SetEnvPrefix("REDUCEPREP")
	v.AutomaticEnv()

	v.SetDefault("build_command", DefaultBuildCommand())
	v.SetDefault("output_dir", ".")
	v.SetDefault("fail_fast", true)
	v.SetDefault("history_db", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// DefaultBuildCommand is a parallel verbose make, the invocation the
// transcript scraper is built around.
func DefaultBuildCommand() []string {
	return []string{"make", fmt.Sprintf("-j%d", runtime.NumCPU()), "V=1"}
}

func configDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "reduceprep")
}
