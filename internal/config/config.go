// Package config loads application configuration from YAML with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Discord struct {
		BotToken string `yaml:"bot_token"`
	} `yaml:"discord"`
	Provider struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"provider"`
	Autopost struct {
		MinScore     float64 `yaml:"min_score"`
		ScanInterval string  `yaml:"scan_interval"`
	} `yaml:"autopost"`
	Filter struct {
		MinLiquidityUSD        float64 `yaml:"min_liquidity_usd"`
		MinVolumeM5            float64 `yaml:"min_volume_m5"`
		MaxAgeHours            float64 `yaml:"max_age_hours"`
		ExcludeRuggedDeployers *bool   `yaml:"exclude_rugged_deployers"`
	} `yaml:"filter"`
	Alert struct {
		PinnedMint string `yaml:"pinned_mint"`
	} `yaml:"alert"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	LogLevel string `yaml:"log_level"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is fine; env alone can carry a
// full config.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DISCORD_BOT_TOKEN"); v != "" {
		cfg.Discord.BotToken = v
	}
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("AUTOPOST_MIN_SCORE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Autopost.MinScore = f
		}
	}
	if v := os.Getenv("AUTOPOST_SCAN_INTERVAL"); v != "" {
		cfg.Autopost.ScanInterval = v
	}
	if v := os.Getenv("PINNED_ALERT_MINT"); v != "" {
		cfg.Alert.PinnedMint = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	// Defaults
	if cfg.Autopost.MinScore == 0 {
		cfg.Autopost.MinScore = 6.5
	}
	if cfg.Autopost.ScanInterval == "" {
		cfg.Autopost.ScanInterval = "1m"
	}
	if cfg.Filter.MinLiquidityUSD == 0 {
		cfg.Filter.MinLiquidityUSD = 10000
	}
	if cfg.Filter.MinVolumeM5 == 0 {
		cfg.Filter.MinVolumeM5 = 2000
	}
	if cfg.Filter.MaxAgeHours == 0 {
		cfg.Filter.MaxAgeHours = 24
	}
	if cfg.Filter.ExcludeRuggedDeployers == nil {
		t := true
		cfg.Filter.ExcludeRuggedDeployers = &t
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/disclaw.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// ScanInterval parses the configured scan interval.
func (c *Config) ScanInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Autopost.ScanInterval)
	if err != nil {
		return 0, fmt.Errorf("parse scan_interval: %w", err)
	}
	return d, nil
}

// Validate checks that all required fields are set and sane.
func (c *Config) Validate() error {
	if c.Discord.BotToken == "" {
		return fmt.Errorf("discord.bot_token is required")
	}
	if c.Autopost.MinScore < 0 || c.Autopost.MinScore > 10 {
		return fmt.Errorf("autopost.min_score must be between 0 and 10")
	}
	d, err := c.ScanInterval()
	if err != nil {
		return err
	}
	if d < 10*time.Second {
		return fmt.Errorf("autopost.scan_interval must be at least 10s")
	}
	return nil
}
