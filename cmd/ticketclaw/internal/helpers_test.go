package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/ticketclaw/pkg/logger"
)

func TestGetConfigPath_EnvOverride(t *testing.T) {
	t.Setenv("TICKETCLAW_CONFIG", "/tmp/custom.yaml")
	assert.Equal(t, "/tmp/custom.yaml", GetConfigPath())
}

func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv("TICKETCLAW_CONFIG", "")
	assert.True(t, strings.HasSuffix(GetConfigPath(), filepath.Join(".ticketclaw", "config.json")))
}

func TestLoadConfig_DebugOverridesLevel(t *testing.T) {
	defer logger.SetLevel(logger.INFO)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log":{"level":"warn"}}`), 0o600))

	cfg, err := LoadConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, logger.WARN, logger.GetLevel())

	_, err = LoadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, logger.DEBUG, logger.GetLevel())
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, GetVersion(), FormatVersion())
	_, goVer := FormatBuildInfo()
	assert.NotEmpty(t, goVer)
}
