package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	cfg, err := Load(writeConfig(t, `{"bot": {"token": "tok"}}`))
	require.NoError(t, err)

	assert.Equal(t, "tok", cfg.Bot.Token)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "chatmod.log", cfg.Logging.Path)
	assert.Equal(t, 4096, cfg.Ingest.QueueSize)
	assert.Equal(t, 10, cfg.Extensions.FetchTimeoutSeconds)
	assert.Equal(t, 30, cfg.Watchdog.IntervalSeconds)
	assert.Equal(t, 2048, cfg.Watchdog.MaxQueueDepth)
	assert.Equal(t, 512, cfg.Watchdog.MaxRSSMegabytes)
}

func TestLoadEnvTokenOverride(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")

	cfg, err := Load(writeConfig(t, `{"bot": {"token": "file-token"}}`))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Bot.Token)
}

func TestLoadParsesExtensionSources(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{
		"extensions": {
			"rules": {
				"300": {"rules": []},
				"301": "https://example.com/rules.json"
			},
			"help_channels": {"300": {"channels": {"help-a": "10"}}}
		}
	}`))
	require.NoError(t, err)

	require.Len(t, cfg.Extensions.Rules, 2)
	assert.JSONEq(t, `{"rules": []}`, string(cfg.Extensions.Rules["300"]))
	assert.Equal(t, `"https://example.com/rules.json"`, string(cfg.Extensions.Rules["301"]))
	require.Len(t, cfg.Extensions.HelpChannels, 1)
}

func TestLoadRejectsBadJSON(t *testing.T) {
	_, err := Load(writeConfig(t, `{"bot":`))
	require.Error(t, err)
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	cfg := LoadOrDefault(filepath.Join(t.TempDir(), "missing.json"))
	require.NotNil(t, cfg)
	assert.Equal(t, 4096, cfg.Ingest.QueueSize)
}
