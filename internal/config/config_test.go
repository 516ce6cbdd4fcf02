package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/bulkferm/internal/domain"
	"github.com/hammamikhairi/bulkferm/internal/logger"
	"github.com/hammamikhairi/bulkferm/internal/units"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		EnvUnit:           "c",
		EnvLogFile:        "stderr",
		EnvLogLevel:       "verbose",
		EnvDataset:        "/tmp/table.yaml",
		EnvChime:          "false",
		EnvTick:           "250ms",
		EnvNotifyCooldown: "1m",
		EnvMaxEscalation:  "5",
		EnvWatchInterval:  "30m",
	}))
	require.NoError(t, err)

	assert.Equal(t, units.Celsius, cfg.Unit)
	assert.Equal(t, "stderr", cfg.LogFile)
	assert.Equal(t, logger.LevelVerbose, cfg.LogLevel)
	assert.Equal(t, "/tmp/table.yaml", cfg.DatasetPath)
	assert.False(t, cfg.Chime)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, time.Minute, cfg.NotifyCooldown)
	assert.Equal(t, 5, cfg.MaxEscalation)
	assert.Equal(t, 30*time.Minute, cfg.WatchInterval)
}

func TestFromEnvInvalid(t *testing.T) {
	tests := map[string]string{
		EnvUnit:           "kelvin",
		EnvLogLevel:       "shouty",
		EnvChime:          "maybe",
		EnvTick:           "0s",
		EnvNotifyCooldown: "soon",
		EnvMaxEscalation:  "-1",
		EnvWatchInterval:  "-5m",
	}

	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			_, err := FromEnv(envMap(map[string]string{key: val}))
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BULKFERM_UNIT=C\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		_ = os.Unsetenv(EnvUnit)
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, units.Celsius, cfg.Unit)
}
