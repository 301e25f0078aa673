// internal/config/config.go
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel     string        `mapstructure:"LOG_LEVEL"`
	HTTPAddr     string        `mapstructure:"HTTP_ADDR"`
	DBURL        string        `mapstructure:"DB_URL"`
	GithubToken  string        `mapstructure:"GITHUB_TOKEN"`
	GitlabToken  string        `mapstructure:"GITLAB_TOKEN"`
	SyncTargets  []string      `mapstructure:"SYNC_TARGETS"`
	SyncInterval time.Duration `mapstructure:"SYNC_INTERVAL"`
}

// LoadConfig reads configuration from file and/or environment variables.
// Provider tokens are optional: without one, requests run unauthenticated
// under the provider's public rate limits.
func LoadConfig() (*Config, error) {
	// Set default values
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("SYNC_INTERVAL", "6h")

	// Load from .env file if it exists
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate required fields
	if cfg.DBURL == "" {
		return nil, errors.New("DB_URL is a required configuration field")
	}
	if len(cfg.SyncTargets) == 0 {
		return nil, errors.New("SYNC_TARGETS must contain at least one 'source/username' entry")
	}
	if cfg.SyncInterval <= 0 {
		return nil, errors.New("SYNC_INTERVAL must be a positive duration")
	}

	return &cfg, nil
}
