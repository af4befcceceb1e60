package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvReader_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, "8090", cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.Notify.TTL)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.AllowedOrigins)
}

func TestEnvReader_Overrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("ENV", EnvProd)
	t.Setenv("API_BASE_URL", "https://ops.example.com/api")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)

	assert.Equal(t, EnvProd, cfg.Env)
	assert.Equal(t, "https://ops.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.HTTP.AllowedOrigins)
}

func TestEnvReader_RequiresSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	require.NoError(t, os.Unsetenv("SESSION_SECRET"))

	_, err := NewEnvReader().Read()
	assert.ErrorContains(t, err, "failed to read server config")
}

func TestEnvReader_RejectsBlankSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "  ")

	_, err := NewEnvReader().Read()
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestEnvReader_Client(t *testing.T) {
	t.Setenv("FIELDOPS_SESSION_PATH", "/tmp/session.json")

	cfg, err := NewEnvReader().ReadClient()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/session.json", cfg.SessionPath)
	assert.Equal(t, 15*time.Second, cfg.API.RequestTimeout)
}
