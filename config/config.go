package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config aggregates all application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Skyscanner SkyscannerConfig `yaml:"skyscanner"`
	Cache      CacheConfig      `yaml:"cache"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	// Mode selects the MCP transport: stdio or http.
	Mode string `yaml:"mode" env:"SERVER_MODE" env-default:"stdio"`
	Port int    `yaml:"port" env:"SERVER_PORT" env-default:"5859"`
}

type SkyscannerConfig struct {
	BaseURL        string `yaml:"base_url" env:"SKYSCANNER_BASE_URL"`
	APIKey         string `yaml:"api_key" env:"SKYSCANNER_API_KEY"`
	Market         string `yaml:"market" env:"SKYSCANNER_MARKET" env-default:"US"`
	Locale         string `yaml:"locale" env:"SKYSCANNER_LOCALE" env-default:"en-US"`
	SiteURL        string `yaml:"site_url" env:"SKYSCANNER_SITE_URL" env-default:"https://www.skyscanner.net"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"SKYSCANNER_TIMEOUT_SECONDS" env-default:"10"`
}

// Timeout returns the upstream call timeout as a duration.
func (c SkyscannerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type CacheConfig struct {
	TTLSeconds        int `yaml:"ttl_seconds" env:"CACHE_TTL_SECONDS" env-default:"300"`
	MaxEntries        int `yaml:"max_entries" env:"CACHE_MAX_ENTRIES" env-default:"128"`
	SessionTTLSeconds int `yaml:"session_ttl_seconds" env:"SESSION_TTL_SECONDS" env-default:"900"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func (c CacheConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Load reads configuration from config.yaml and environment variables.
// Priority: env vars > config file > defaults.
func Load() (*Config, error) {
	var cfg Config

	err := cleanenv.ReadConfig("config.yaml", &cfg)
	if err != nil {
		// Only a missing file falls back to env vars and defaults; a
		// malformed file must not be silently ignored.
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env config: %w", err)
		}
	}

	return &cfg, nil
}
