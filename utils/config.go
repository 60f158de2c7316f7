package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting. All fields come from the environment.
type Config struct {
	BotToken string `env:"BOT_TOKEN"`
	GuildID  string `env:"GUILD_ID"`
	Port     string `env:"PORT" envDefault:"8080"`

	DatabaseURL string        `env:"DATABASE_URL"`
	SQLitePath  string        `env:"SQLITE_PATH"`
	RedisURL    string        `env:"REDIS_URL"`
	CacheTTL    time.Duration `env:"CACHE_TTL" envDefault:"30m"`

	CatalogPath     string        `env:"CATALOG_PATH"`
	StartingBalance int64         `env:"STARTING_BALANCE" envDefault:"100"`
	PlayTimeout     time.Duration `env:"PLAY_TIMEOUT" envDefault:"60s"`
	SelectTimeout   time.Duration `env:"SELECT_TIMEOUT" envDefault:"30s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// Settings is the loaded configuration, set once in main
var Settings = DefaultConfig()

// DefaultConfig returns the values used when nothing is configured
func DefaultConfig() *Config {
	return &Config{
		Port:            "8080",
		CacheTTL:        30 * time.Minute,
		StartingBalance: StartingBalance,
		PlayTimeout:     DefaultPlayTimeout,
		SelectTimeout:   DefaultSelectWindow,
		LogLevel:        "info",
		LogFormat:       "console",
	}
}

// LoadConfig reads an optional .env file and parses the environment
func LoadConfig(dotenvPaths ...string) (*Config, error) {
	if err := godotenv.Load(dotenvPaths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the game cannot run with
func (c *Config) Validate() error {
	if c.StartingBalance < 0 {
		return fmt.Errorf("STARTING_BALANCE must not be negative")
	}
	if c.PlayTimeout <= 0 {
		return fmt.Errorf("PLAY_TIMEOUT must be positive")
	}
	if c.SelectTimeout <= 0 {
		return fmt.Errorf("SELECT_TIMEOUT must be positive")
	}
	return nil
}
