package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 30*time.Second, cfg.CompletionTimeout)
	assert.Equal(t, 1000, cfg.MaxTokens)
	assert.Equal(t, "sv", cfg.DefaultLanguage)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("COMPLETION_TIMEOUT", "5s")
	t.Setenv("COMPLETION_MAX_TOKENS", "256")
	t.Setenv("COMPLETION_TEMPERATURE", "0.2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://axiestudio.se, https://www.axiestudio.se")
	t.Setenv("REDIS_TLS", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.CompletionTimeout)
	assert.Equal(t, 256, cfg.MaxTokens)
	assert.Equal(t, 0.2, cfg.Temperature)
	assert.Equal(t, []string{"https://axiestudio.se", "https://www.axiestudio.se"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.RedisTLS)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("COMPLETION_MAX_TOKENS", "lots")
	t.Setenv("COMPLETION_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 1000, cfg.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.CompletionTimeout)
}
