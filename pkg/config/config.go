// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Supported auth modes.
const (
	// AuthModePlatform verifies tokens against the managed auth platform.
	AuthModePlatform = "platform"
	// AuthModeJWT verifies platform-issued tokens locally with a shared secret.
	AuthModeJWT = "jwt"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string

	// HTTP server
	HTTPAddr        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Database
	DatabaseDriver string
	DatabaseURL    string
	SQLitePath     string

	// Auth
	AuthMode        string
	AuthPlatformURL string
	AuthPlatformKey string
	AuthTimeout     time.Duration
	JWTSecret       string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", ""),

		HTTPAddr:        getEnv("HTTP_ADDR", "0.0.0.0:8080"),
		ReadTimeout:     getDurationEnv("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getDurationEnv("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getDurationEnv("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getDurationEnv("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),

		DatabaseDriver: getEnv("DATABASE_DRIVER", ""),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "biblechat.db"),

		AuthMode:        getEnv("AUTH_MODE", ""),
		AuthPlatformURL: getEnv("AUTH_PLATFORM_URL", ""),
		AuthPlatformKey: getEnv("AUTH_PLATFORM_KEY", ""),
		AuthTimeout:     getDurationEnv("AUTH_TIMEOUT", 10*time.Second),
		JWTSecret:       getEnv("JWT_SECRET", ""),
	}

	// Driver follows DATABASE_URL unless pinned explicitly.
	if cfg.DatabaseDriver == "" {
		if cfg.DatabaseURL != "" {
			cfg.DatabaseDriver = DriverPostgres
		} else {
			cfg.DatabaseDriver = DriverSQLite
		}
	}

	// Auth mode follows AUTH_PLATFORM_URL unless pinned explicitly.
	if cfg.AuthMode == "" {
		if cfg.AuthPlatformURL != "" {
			cfg.AuthMode = AuthModePlatform
		} else {
			cfg.AuthMode = AuthModeJWT
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required with the postgres driver")
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unknown database driver %q", c.DatabaseDriver)
	}

	switch c.AuthMode {
	case AuthModePlatform:
		if c.AuthPlatformURL == "" {
			return fmt.Errorf("AUTH_PLATFORM_URL is required in platform auth mode")
		}
	case AuthModeJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in jwt auth mode")
		}
	default:
		return fmt.Errorf("unknown auth mode %q", c.AuthMode)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
