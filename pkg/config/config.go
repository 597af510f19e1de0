// Package config loads application settings and the source list.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/lepinkainen/feed-weave/pkg/filesystem"
)

// Config holds the central application configuration
type Config struct {
	// Sources is the path to the source list file
	Sources string `mapstructure:"sources"`

	// Fetch settings applied to every listing page request
	Fetch struct {
		UserAgent      string `mapstructure:"user_agent"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
		MaxRetries     int    `mapstructure:"max_retries"`
	} `mapstructure:"fetch"`

	// Watch holds the cron schedule for periodic regeneration
	Watch struct {
		Schedule string `mapstructure:"schedule"`
	} `mapstructure:"watch"`

	// Enrich holds article-page enrichment settings
	Enrich struct {
		CachePath string `mapstructure:"cache_path"`
	} `mapstructure:"enrich"`
}

// LoadConfig loads the configuration from a file
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}

	// If path is relative, try current directory first, then executable directory
	if !filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			if execPath, err := filesystem.GetDefaultPath(path); err == nil {
				if _, err := os.Stat(execPath); err == nil {
					path = execPath
				}
			}
		}
	}

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	// Set default values
	viper.SetDefault("sources", "sources.yaml")
	viper.SetDefault("fetch.user_agent", "feed-weave/1.0 (+https://github.com/lepinkainen/feed-weave)")
	viper.SetDefault("fetch.timeout_seconds", 20)
	viper.SetDefault("fetch.max_retries", 3)
	viper.SetDefault("watch.schedule", "@every 1h")
	viper.SetDefault("enrich.cache_path", "enrich-cache.db")

	// Read configuration file
	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
