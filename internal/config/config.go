// Package config содержит логику чтения конфигурации сервиса учёта займов.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultRunAddress = "localhost:8080"
	defaultTokenTTL   = 30 * 24 * time.Hour
)

// Config содержит параметры конфигурации сервиса.
type Config struct {
	RunAddress  string        `env:"RUN_ADDRESS"`
	DatabaseURI string        `env:"DATABASE_URI"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL"`
	Debug       bool          `env:"DEBUG"`
}

// Parse считывает конфигурацию из файла .env, флагов командной строки и переменных
// окружения. Переменные окружения имеют приоритет над флагами, файл .env не перекрывает
// уже заданные переменные.
func Parse() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.JWTSecret, "s", "", "secret for signing access tokens")
	flag.DurationVar(&cfg.TokenTTL, "t", defaultTokenTTL, "access token lifetime")
	flag.BoolVar(&cfg.Debug, "debug", false, "development logging and detailed error responses")

	flag.Parse()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", cfg.TokenTTL)
	}

	return cfg, nil
}
