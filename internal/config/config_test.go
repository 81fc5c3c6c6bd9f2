package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "accounts")
	t.Setenv("JWT_SECRET", "jwt-secret")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SERVER_PORT", "")
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		t.Setenv("MAX_UPLOAD_SIZE", "")
		t.Setenv("RATE_LIMIT_PER_MINUTE", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxSize)
		assert.Equal(t, 100, cfg.RateLimit.RequestsPerMinute)
		assert.Equal(t, "jwt-secret", cfg.JWT.Secret)
	})

	t.Run("custom values", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, ,http://b.example")
		t.Setenv("ADMIN_USERNAME", "  root  ")
		t.Setenv("ADMIN_PASSWORD", "changeme")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, "root", cfg.Admin.Username)
		assert.Equal(t, "changeme", cfg.Admin.Password)
	})

	t.Run("missing DB_HOST", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DB_HOST", "")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "DB_HOST")
	})

	t.Run("missing JWT_SECRET", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("invalid port", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DB_PORT", "abc")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("non-positive upload size", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("MAX_UPLOAD_SIZE", "0")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host:     "db",
		Port:     3306,
		User:     "user",
		Password: "pass",
		DBName:   "accounts",
	}}

	assert.Equal(t, "user:pass@tcp(db:3306)/accounts?parseTime=true&charset=utf8mb4&multiStatements=true", cfg.DSN())
	assert.Empty(t, (&Config{}).DSN())
}
