package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "PORT", "GEMINI_MODEL", "GEMINI_TIMEOUT",
		"PLAN_CACHE_SIZE", "PLAN_CACHE_TTL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, DefaultPort, cfg.Port)
		assert.Equal(t, ":5001", cfg.Addr())
		assert.Equal(t, DefaultGeminiModel, cfg.GeminiModel)
		assert.Zero(t, cfg.GeminiTimeout)
		assert.Zero(t, cfg.PlanCacheSize)
		assert.Equal(t, DefaultPlanCacheTTL, cfg.PlanCacheTTL)
		assert.False(t, cfg.HasAPIKey())
	})

	t.Run("FromEnvironment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "  secret-key ")
		t.Setenv("PORT", "8081")
		t.Setenv("GEMINI_MODEL", "gemini-2.5-flash")
		t.Setenv("GEMINI_TIMEOUT", "45s")
		t.Setenv("PLAN_CACHE_SIZE", "128")
		t.Setenv("PLAN_CACHE_TTL", "1h")
		t.Setenv("LOG_LEVEL", "DEBUG")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "secret-key", cfg.GeminiAPIKey)
		assert.True(t, cfg.HasAPIKey())
		assert.Equal(t, 8081, cfg.Port)
		assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
		assert.Equal(t, 45*time.Second, cfg.GeminiTimeout)
		assert.Equal(t, 128, cfg.PlanCacheSize)
		assert.Equal(t, time.Hour, cfg.PlanCacheTTL)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("InvalidPort", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "not-a-port")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PORT")
	})

	t.Run("ZeroPortFallsBack", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, DefaultPort, cfg.Port)
	})

	t.Run("LeadingZeroPortIsDecimal", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "010")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 10, cfg.Port)
	})

	t.Run("PortOutOfRange", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "70000")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("InvalidTimeout", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_TIMEOUT", "soon")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GEMINI_TIMEOUT")
	})
}
