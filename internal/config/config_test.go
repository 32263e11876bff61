package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 1e-4, cfg.Engine.DerivativeStep)
	assert.Equal(t, 100, cfg.Engine.IntegralSteps)
	assert.Equal(t, 1000, cfg.Engine.RootSamples)
	assert.Equal(t, 500, cfg.Engine.InflectionSamples)
	assert.False(t, cfg.Engine.PropagateUndefined)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ENGINE_ROOT_SAMPLES", "2000")
	t.Setenv("ENGINE_INTEGRAL_PROPAGATE_UNDEFINED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 2000, cfg.Engine.RootSamples)
	assert.True(t, cfg.Engine.PropagateUndefined)

	// Unset values keep their defaults.
	assert.Equal(t, 100, cfg.Engine.IntegralSteps)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	t.Setenv("ENGINE_INTEGRAL_STEPS", "not-a-number")

	_, err := Load()
	require.Error(t, err)

	cfg := LoadOrDefault()
	assert.Equal(t, 100, cfg.Engine.IntegralSteps)
}
