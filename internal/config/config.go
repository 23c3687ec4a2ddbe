package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all prefill configuration.
type Config struct {
	DataDir   string `mapstructure:"data_dir" yaml:"data_dir"`
	DraftsDir string `mapstructure:"drafts_dir" yaml:"drafts_dir"`

	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	History  HistoryConfig  `mapstructure:"history" yaml:"history"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// DatabaseConfig holds database settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"` // Path to SQLite database file
}

// DefaultsConfig holds values used when a command does not supply them.
type DefaultsConfig struct {
	Owner    string `mapstructure:"owner" yaml:"owner"`
	Repo     string `mapstructure:"repo" yaml:"repo"`
	Labels   string `mapstructure:"labels" yaml:"labels"` // Comma separated
	Assignee string `mapstructure:"assignee" yaml:"assignee"`
	Template string `mapstructure:"template" yaml:"template"`
}

// HistoryConfig controls recording of generated links.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads configuration from file, environment, and defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	defaultDataDir := filepath.Join(home, ".prefill")

	viper.SetDefault("data_dir", defaultDataDir)
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides for paths, before derived defaults
	if dir := os.Getenv("PREFILL_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if dir := os.Getenv("PREFILL_DRAFTS_DIR"); dir != "" {
		cfg.DraftsDir = dir
	}
	if path := os.Getenv("PREFILL_DATABASE_PATH"); path != "" {
		cfg.Database.Path = path
	}

	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}
	if cfg.DraftsDir == "" {
		cfg.DraftsDir = filepath.Join(cfg.DataDir, "drafts")
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(cfg.DataDir, "prefill.db")
	}

	if owner := os.Getenv("PREFILL_OWNER"); owner != "" {
		cfg.Defaults.Owner = owner
	}
	if repo := os.Getenv("PREFILL_REPO"); repo != "" {
		cfg.Defaults.Repo = repo
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}

	return cfg, nil
}

// EnsureDirectories creates all required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.DataDir,
		c.DraftsDir,
		filepath.Dir(c.Database.Path),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// YAML renders the effective configuration as YAML.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to serialize config: %w", err)
	}
	return string(data), nil
}
