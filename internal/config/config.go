// Package config loads server settings from the environment.
//
// An optional .env file is read first; variables already set in the process
// environment take precedence over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port int

	DBDriver    string
	DBPath      string
	DatabaseURL string

	JWTSecret     string
	AdminPassword string
	TokenTTL      time.Duration

	StaticPath string

	KafkaBrokers []string
	KafkaTopic   string

	LogLevel  string
	LogFormat string
}

// Load reads the configuration. envFiles default to ".env"; missing files are
// ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	port, err := strconv.Atoi(getEnv("PORT", "3000"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "12h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q", os.Getenv("TOKEN_TTL"))
	}

	cfg := &Config{
		Port:          port,
		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBPath:        getEnv("DB_PATH", filepath.Join(getEnv("DATA_DIR", "./data"), "data.db")),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     getEnv("JWT_SECRET", "dev_secret_change_me"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		TokenTTL:      ttl,
		StaticPath:    getEnv("STATIC_PATH", "./public"),
		KafkaBrokers:  splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "transaction_recorded"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		LogFormat:     os.Getenv("LOG_FORMAT"),
	}

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
