package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "America/Los_Angeles", cfg.Stats.ReferenceZone)
}

func TestLoadFromFileYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  addr: ":8080"
store:
  path: /var/lib/glizzy/data.db
discord:
  app_id: "app123"
  public_key: "abcd"
stats:
  reference_zone: UTC
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "/var/lib/glizzy/data.db", cfg.Store.Path)
	assert.Equal(t, "app123", cfg.Discord.AppID)
	assert.Equal(t, "UTC", cfg.Stats.ReferenceZone)
}

func TestLoadFromFileJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	data := []byte(`{"server": {"addr": ":9000"}}`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	// Unset sections keep their defaults.
	assert.Equal(t, "America/Los_Angeles", cfg.Stats.ReferenceZone)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("DISCORD_APP_ID", "env-app")
	t.Setenv("DISCORD_PUBLIC_KEY", "env-key")
	t.Setenv("GLIZZY_DB", "/tmp/env.db")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, ":4000", cfg.Server.Addr)
	assert.Equal(t, "env-app", cfg.Discord.AppID)
	assert.Equal(t, "env-key", cfg.Discord.PublicKey)
	assert.Equal(t, "/tmp/env.db", cfg.Store.Path)
}

func TestValidateRejectsBadZone(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Stats.ReferenceZone = "Mars/Olympus_Mons"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Store.Path = ""
	assert.Error(t, cfg.Validate())
}
