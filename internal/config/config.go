// internal/config/config.go
//
// Process configuration, read from the environment after an optional .env
// file has been loaded.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the server.
type Config struct {
	Port     string `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Store selects where board sessions live: "memory" or "sqlite".
	Store  string `env:"STORE" envDefault:"memory"`
	DBPath string `env:"DB_PATH" envDefault:"./data/memory.db"`

	ClientOrigin   string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME" envDefault:"memory_token"`
	NodeEnv        string `env:"NODE_ENV" envDefault:"development"`

	DailySalt  string `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	DailyLevel string `env:"DAILY_LEVEL" envDefault:"medio"`

	DeckFile string `env:"DECK_FILE"`
	DeckPool string `env:"DECK_POOL" envDefault:"default"`
}

// Production reports whether cookies should be marked Secure / SameSite=None.
func (c Config) Production() bool { return c.NodeEnv == "production" }

// Load reads .env (if present) and parses the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := ParseEnv(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
