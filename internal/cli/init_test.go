package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyz/internal/config"
	"moneyz/internal/log"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestSetupLogger(t *testing.T) {
	logger, err := SetupLogger("debug")
	require.NoError(t, err)
	assert.Equal(t, log.ComponentCLI, logger.Component())

	_, err = SetupLogger("loud")
	assert.Error(t, err)
}

func TestLoadEnvFileMissing(t *testing.T) {
	chdir(t, t.TempDir())
	assert.NoError(t, LoadEnvFile())
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MONEYZ_BACKEND=memory\n"), 0o644))
	chdir(t, dir)
	t.Setenv("MONEYZ_BACKEND", "")
	require.NoError(t, os.Unsetenv("MONEYZ_BACKEND"))

	require.NoError(t, LoadEnvFile())
	assert.Equal(t, "memory", os.Getenv("MONEYZ_BACKEND"))
}

func TestLoadAndValidateConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MONEYZ_BACKEND", "memory")

	cfg, err := LoadAndValidateConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)

	t.Setenv("MONEYZ_BACKEND", "mongo")
	_, err = LoadAndValidateConfig(dir)
	assert.ErrorContains(t, err, "invalid backend")
}

func TestLoadLocale(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{DataDir: dir}

	assert.Equal(t, "en_GB", LoadLocale(log.Discard(), cfg).ID())
	assert.FileExists(t, config.SettingsPath(dir), "defaults are written on first start")

	require.NoError(t, config.SaveSettings(dir, config.Settings{Language: "it_IT"}))
	assert.Equal(t, "it_IT", LoadLocale(log.Discard(), cfg).ID())

	require.NoError(t, os.WriteFile(config.SettingsPath(dir), []byte("language = ["), 0o644))
	assert.Equal(t, "en_GB", LoadLocale(log.Discard(), cfg).ID())
}

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{DataDir: dir, Backend: config.BackendJSON, CacheSize: 2, CacheTTL: time.Minute, LogLevel: "info"}

	res, err := OpenBackend(context.Background(), log.Discard(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Cleanup() })

	reg, err := res.Backend.LoadCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())

	cfg.Backend = "mongo"
	_, err = OpenBackend(context.Background(), log.Discard(), cfg)
	assert.Error(t, err)
}
