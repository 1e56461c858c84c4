// Package config loads CLI defaults from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/FocuswithJustin/JuniperPhonetic/internal/logging"
)

// Config holds settings that flags may override.
type Config struct {
	DBPath    string `env:"PHONETIC_DB" envDefault:"phonetic.db"`
	LogLevel  string `env:"PHONETIC_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"PHONETIC_LOG_FORMAT" envDefault:"text"`
	CacheSize int    `env:"PHONETIC_CACHE_SIZE" envDefault:"1024"`
}

// Load reads Config from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.CacheSize < 0 {
		return Config{}, fmt.Errorf("PHONETIC_CACHE_SIZE must be >= 0, got %d", cfg.CacheSize)
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Logging resolves the configured log level and format.
func (c Config) Logging() (logging.Level, logging.Format, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, 0, fmt.Errorf("PHONETIC_LOG_LEVEL: %w", err)
	}
	format, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		return 0, 0, fmt.Errorf("PHONETIC_LOG_FORMAT: %w", err)
	}
	return level, format, nil
}
