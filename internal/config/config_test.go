package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("FRONTEND_URL", "https://app.example.com")
	t.Setenv("SMTP_HOST", "mail.example.com")

	cfg := Load()

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenExpires)
	assert.Equal(t, "https://app.example.com", cfg.FrontendURL)
	assert.Equal(t, "mail.example.com", cfg.SMTPHost)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 24*time.Hour, cfg.TokenExpires)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
}
