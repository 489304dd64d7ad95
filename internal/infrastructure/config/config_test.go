package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("AI_PROVIDER", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.0-flash", "gemini-1.5-flash"}, cfg.Gemini.Models)
	assert.Equal(t, 60*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, "https://api.paystack.co", cfg.Paystack.BaseURL)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, StorageMemory, cfg.RateLimit.Storage)
	assert.Equal(t, []string{"200 per day", "50 per hour"}, cfg.RateLimit.DefaultLimits)
	assert.Equal(t, []string{"5 per minute"}, cfg.RateLimit.RecipeLimits)
	assert.Equal(t, int64(1<<20), cfg.MaxBodySize)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-test-key")
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_123")
	t.Setenv("AI_PROVIDER", "openrouter")
	t.Setenv("PORT", "8081")
	t.Setenv("GEMINI_MODELS", "gemini-a,gemini-b")
	t.Setenv("RATE_LIMIT_RECIPES", "10 per minute")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "gemini-test-key", cfg.Gemini.APIKey)
	assert.Equal(t, "sk_test_123", cfg.Paystack.SecretKey)
	assert.Equal(t, ProviderOpenRouter, cfg.AI.Provider)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, []string{"gemini-a", "gemini-b"}, cfg.Gemini.Models)
	assert.Equal(t, []string{"10 per minute"}, cfg.RateLimit.RecipeLimits)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("AI_PROVIDER", "llama")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown ai provider")
	})

	t.Run("bad limit", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_RECIPES", "lots per minute")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid rate limit")
	})
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw     string
		want    Limit
		wantErr bool
	}{
		{raw: "5 per minute", want: Limit{Requests: 5, Window: time.Minute}},
		{raw: "200 per day", want: Limit{Requests: 200, Window: 24 * time.Hour}},
		{raw: "50 per hour", want: Limit{Requests: 50, Window: time.Hour}},
		{raw: "3/second", want: Limit{Requests: 3, Window: time.Second}},
		{raw: " 10 PER Minutes ", want: Limit{Requests: 10, Window: time.Minute}},
		{raw: "0 per minute", wantErr: true},
		{raw: "5 per fortnight", wantErr: true},
		{raw: "five per minute", wantErr: true},
		{raw: "5 minute", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseLimit(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "sk_t...2345", MaskAPIKey("sk_test_abc12345"))
}
