package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 120, cfg.RateLimit.WindowSeconds)
	assert.Equal(t, 3, cfg.RateLimit.Ceiling)

	// Must match the registered route, or out-of-the-box payment
	// confirmations land on a 404.
	assert.Equal(t, "http://localhost:8080/api/v1/payments/callback", cfg.Chapa.CallbackURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CHAPA_CALLBACK_URL", "https://staybook.example.com/api/v1/payments/callback")
	t.Setenv("RATE_LIMIT_CEILING", "10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://staybook.example.com/api/v1/payments/callback", cfg.Chapa.CallbackURL)
	assert.Equal(t, 10, cfg.RateLimit.Ceiling)
}

func TestValidateRejectsBadRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "0")

	_, err := Load()
	assert.Error(t, err)
}
