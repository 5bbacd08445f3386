/*
config.go - Server configuration from environment

PURPOSE:
  Collects the server settings from the environment, optionally seeded by
  a .env file in the working directory. Command-line flags in
  cmd/server override whatever is loaded here.

VARIABLES:
  PORT          HTTP port (default 8080)
  DB_PATH       SQLite database path (default vacation.db, ":memory:" allowed)
  APP_ENV       development | production (default development)
  LOG_LEVEL     debug | info | warn | error (default info)
  CORS_ORIGINS  comma separated allowed origins
  ROLLOVER_INTERVAL  how often the year-end scheduler checks (default 1h, 0 disables)
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration.
type Config struct {
	Port        int
	DBPath      string
	Env         string
	LogLevel    string
	CORSOrigins []string

	RolloverInterval time.Duration
}

// Load reads .env (when present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	interval, err := time.ParseDuration(getEnv("ROLLOVER_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ROLLOVER_INTERVAL: %w", err)
	}

	cfg := &Config{
		Port:        port,
		DBPath:      getEnv("DB_PATH", "vacation.db"),
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnvSlice("CORS_ORIGINS"),

		RolloverInterval: interval,
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string) []string {
	value := getEnv(key, "")
	if value == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
