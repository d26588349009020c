// Package config reads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config is the full process configuration.
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Storage StorageConfig
}

// AppConfig holds environment and logging settings.
type AppConfig struct {
	Environment string
	LogLevel    string
	LogFormat   string
}

// HTTPConfig holds the HTTP listener settings.
type HTTPConfig struct {
	Addr            string
	APIPrefix       string
	ShutdownTimeout time.Duration
}

// StorageConfig selects and configures the storage backend.
type StorageConfig struct {
	Backend       string
	PostgresDSN   string
	RunMigrations bool
	SeedOnStart   bool
}

// Load reads the given .env files (missing files are ignored) and then the
// environment. Variables already set in the environment win over file values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return New(), nil
}

// New builds a Config from the current environment.
func New() *Config {
	return &Config{
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "json"),
		},
		HTTP: HTTPConfig{
			Addr:            getEnv("HTTP_ADDR", ":5000"),
			APIPrefix:       getEnv("API_PREFIX", "/api"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Storage: StorageConfig{
			Backend:       strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory)),
			PostgresDSN:   getEnv("POSTGRES_DSN", ""),
			RunMigrations: getEnvAsBool("RUN_MIGRATIONS", true),
			SeedOnStart:   getEnvAsBool("SEED_ON_START", true),
		},
	}
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (want %s or %s)",
			c.Storage.Backend, BackendMemory, BackendPostgres)
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
