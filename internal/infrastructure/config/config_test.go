package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"WELLFIELD_APP_NAME":          os.Getenv("WELLFIELD_APP_NAME"),
		"WELLFIELD_APP_ENVIRONMENT":   os.Getenv("WELLFIELD_APP_ENVIRONMENT"),
		"WELLFIELD_APP_PORT":          os.Getenv("WELLFIELD_APP_PORT"),
		"WELLFIELD_DATABASE_HOST":     os.Getenv("WELLFIELD_DATABASE_HOST"),
		"WELLFIELD_DATABASE_PORT":     os.Getenv("WELLFIELD_DATABASE_PORT"),
		"WELLFIELD_DATABASE_USER":     os.Getenv("WELLFIELD_DATABASE_USER"),
		"WELLFIELD_DATABASE_PASSWORD": os.Getenv("WELLFIELD_DATABASE_PASSWORD"),
		"WELLFIELD_DATABASE_SSL_MODE": os.Getenv("WELLFIELD_DATABASE_SSL_MODE"),
		"WELLFIELD_JWT_SECRET":        os.Getenv("WELLFIELD_JWT_SECRET"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "wellfield", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Environment)
		assert.Equal(t, 8080, cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 100, cfg.Event.OutboxBatchSize)
		assert.Equal(t, 5*time.Second, cfg.Event.OutboxPollInterval)
		assert.True(t, cfg.Scheduler.Enabled)
		assert.False(t, cfg.Telemetry.Enabled)
	})

	t.Run("env vars override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("WELLFIELD_DATABASE_HOST", "db.internal")
		os.Setenv("WELLFIELD_DATABASE_PORT", "5433")
		os.Setenv("WELLFIELD_APP_PORT", "9090")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 9090, cfg.App.Port)
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("WELLFIELD_APP_ENVIRONMENT", "production")
		os.Setenv("WELLFIELD_JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt secret")
	})

	t.Run("production rejects disabled ssl", func(t *testing.T) {
		clearEnv()
		os.Setenv("WELLFIELD_APP_ENVIRONMENT", "production")
		os.Setenv("WELLFIELD_JWT_SECRET", "0123456789abcdef0123456789abcdef")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ssl_mode")
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "wellfield",
		Password: "p@ss/word",
		Name:     "wellfield",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestAppConfigAddr(t *testing.T) {
	a := AppConfig{Host: "0.0.0.0", Port: 8080}
	assert.Equal(t, "0.0.0.0:8080", a.Addr())
}
