// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration. It is built once at startup
// and passed explicitly into each component.
type Config struct {
	// HTTP server settings
	ListenAddr string `json:"listen_addr"`

	// YouTube Data API settings
	YouTubeAPIKey string `json:"youtube_api_key"`

	// Relational store settings
	DatabaseURL string `json:"database_url"`

	// Download settings
	DownloadFolder string        `json:"download_folder"`
	YtdlpPath      string        `json:"ytdlp_path"`
	YtdlpTimeout   time.Duration `json:"ytdlp_timeout"`

	// Retry settings for provider calls
	MaxRetries     int           `json:"max_retries"`
	InitialBackoff time.Duration `json:"initial_backoff"`
	MaxBackoff     time.Duration `json:"max_backoff"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:     ":5001",
		DownloadFolder: "downloads",
		YtdlpPath:      "yt-dlp",
		YtdlpTimeout:   10 * time.Minute,
		MaxRetries:     2,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
	}
}

// Load loads configuration from environment variables, an optional config
// file, and defaults. Priority: env vars > config file > defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from ytgrab.json in the current
// directory or the user config directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytgrab.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytgrab", "ytgrab.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YTGRAB_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.YouTubeAPIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("YTGRAB_DOWNLOAD_FOLDER"); v != "" {
		c.DownloadFolder = v
	}
	if v := os.Getenv("YTGRAB_YTDLP_PATH"); v != "" {
		c.YtdlpPath = v
	}
	if v := os.Getenv("YTGRAB_YTDLP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.YtdlpTimeout = d
		}
	}
	if v := os.Getenv("YTGRAB_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("YTGRAB_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = d
		}
	}
	if v := os.Getenv("YTGRAB_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = d
		}
	}
}

// Validate checks configuration for invalid values.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("config: listen address required")
	}
	if c.DownloadFolder == "" {
		return fmt.Errorf("config: download folder required")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("config: max retries must be >= 0")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("config: initial backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("config: max backoff must be >= initial backoff")
	}
	if c.YtdlpTimeout <= 0 {
		return fmt.Errorf("config: yt-dlp timeout must be positive")
	}
	return nil
}
