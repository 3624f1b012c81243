package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "guild-setup-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 300*time.Second, cfg.Wizard.PromptTimeout())
	assert.Equal(t, "!", cfg.Platform.CommandPrefix)
	assert.True(t, cfg.Postgres.EnsureSchema)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("WIZARD_PROMPT_TIMEOUT_SECONDS", "42")
	t.Setenv("PLATFORM_COMMAND_PREFIX", "?")
	t.Setenv("POSTGRES_ENSURE_SCHEMA", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.App.Port)
	assert.Equal(t, 42*time.Second, cfg.Wizard.PromptTimeout())
	assert.Equal(t, "?", cfg.Platform.CommandPrefix)
	assert.False(t, cfg.Postgres.EnsureSchema)
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestPromptTimeoutFallsBackWhenUnset(t *testing.T) {
	w := WizardConfig{PromptTimeoutSeconds: 0}
	assert.Equal(t, 300*time.Second, w.PromptTimeout())
}
