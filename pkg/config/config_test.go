package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnvVars clears all configuration environment variables.
func clearEnvVars() {
	envVars := []string{
		"APP_ENV", "LOG_LEVEL", "LOG_FORMAT",
		"HTTP_ADDR", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT", "HTTP_SHUTDOWN_TIMEOUT",
		"DATABASE_DRIVER", "DATABASE_URL", "SQLITE_PATH",
		"AUTH_MODE", "AUTH_PLATFORM_URL", "AUTH_PLATFORM_KEY",
		"AUTH_TIMEOUT", "JWT_SECRET",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()
	os.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	// SQLite and local JWT auth are the defaults when nothing points at
	// external services.
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "biblechat.db", cfg.SQLitePath)
	assert.Equal(t, AuthModeJWT, cfg.AuthMode)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_DatabaseURLSelectsPostgres(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()
	os.Setenv("JWT_SECRET", "secret")
	os.Setenv("DATABASE_URL", "postgres://localhost:5432/biblechat")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
}

func TestLoad_PlatformURLSelectsPlatformAuth(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()
	os.Setenv("AUTH_PLATFORM_URL", "https://project.example.co")
	os.Setenv("AUTH_PLATFORM_KEY", "service-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, AuthModePlatform, cfg.AuthMode)
	assert.Equal(t, "https://project.example.co", cfg.AuthPlatformURL)
}

func TestLoad_JWTModeRequiresSecret(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_PostgresDriverRequiresURL(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()
	os.Setenv("JWT_SECRET", "secret")
	os.Setenv("DATABASE_DRIVER", "postgres")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_UnknownDriverRejected(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()
	os.Setenv("JWT_SECRET", "secret")
	os.Setenv("DATABASE_DRIVER", "oracle")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown database driver")
}

func TestLoad_DurationOverride(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()
	os.Setenv("JWT_SECRET", "secret")
	os.Setenv("HTTP_READ_TIMEOUT", "5s")
	os.Setenv("HTTP_WRITE_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	// Unparseable values fall back to the default.
	assert.Equal(t, 15*time.Second, cfg.WriteTimeout)
}
