package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 30, cfg.Limits.Quota)
	require.Equal(t, time.Minute, cfg.Limits.Window)
	require.Equal(t, 4000, cfg.Limits.MaxMessageLength)
	require.Equal(t, 30*time.Second, cfg.AILink.CallTimeout)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
limits:
  quota: 5
  window: 30s
  max_message_length: 250
ailink:
  provider: anthropic
  model: claude-sonnet-4-20250514
  call_timeout: 10s
store:
  path: ":memory:"
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Limits.Quota)
	require.Equal(t, 30*time.Second, cfg.Limits.Window)
	require.Equal(t, 250, cfg.Limits.MaxMessageLength)
	require.Equal(t, "anthropic", cfg.AILink.Provider)
	require.Equal(t, 10*time.Second, cfg.AILink.CallTimeout)
	require.Equal(t, ":memory:", cfg.Store.Path)
}

func TestValidateRejectsZeroQuota(t *testing.T) {
	cfg := &Config{
		Limits: LimitsConfig{Quota: 0, Window: time.Minute, MaxMessageLength: 4000},
		AILink: AILinkConfig{CallTimeout: time.Second},
	}
	require.Error(t, cfg.Validate())

	cfg.Limits.Quota = 1
	require.NoError(t, cfg.Validate())
}
