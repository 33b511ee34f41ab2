package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 6.5, cfg.Autopost.MinScore)
	assert.Equal(t, "1m", cfg.Autopost.ScanInterval)
	assert.Equal(t, 10000.0, cfg.Filter.MinLiquidityUSD)
	assert.Equal(t, 2000.0, cfg.Filter.MinVolumeM5)
	assert.Equal(t, 24.0, cfg.Filter.MaxAgeHours)
	require.NotNil(t, cfg.Filter.ExcludeRuggedDeployers)
	assert.True(t, *cfg.Filter.ExcludeRuggedDeployers)
	assert.Equal(t, "data/disclaw.db", cfg.Database.SQLitePath)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
discord:
  bot_token: token-123
autopost:
  min_score: 7.5
  scan_interval: 2m
filter:
  min_liquidity_usd: 5000
  exclude_rugged_deployers: false
alert:
  pinned_mint: SomeMint111
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "token-123", cfg.Discord.BotToken)
	assert.Equal(t, 7.5, cfg.Autopost.MinScore)
	assert.Equal(t, "2m", cfg.Autopost.ScanInterval)
	assert.Equal(t, 5000.0, cfg.Filter.MinLiquidityUSD)
	require.NotNil(t, cfg.Filter.ExcludeRuggedDeployers)
	assert.False(t, *cfg.Filter.ExcludeRuggedDeployers)
	assert.Equal(t, "SomeMint111", cfg.Alert.PinnedMint)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
discord:
  bot_token: from-yaml
autopost:
  min_score: 7.5
`)
	t.Setenv("DISCORD_BOT_TOKEN", "from-env")
	t.Setenv("AUTOPOST_MIN_SCORE", "8.5")
	t.Setenv("SQLITE_PATH", "/tmp/override.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Discord.BotToken)
	assert.Equal(t, 8.5, cfg.Autopost.MinScore)
	assert.Equal(t, "/tmp/override.db", cfg.Database.SQLitePath)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "discord: [not a map")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestScanInterval(t *testing.T) {
	cfg := &Config{}
	cfg.Autopost.ScanInterval = "90s"
	d, err := cfg.ScanInterval()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	cfg.Autopost.ScanInterval = "often"
	_, err = cfg.ScanInterval()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Error(t, cfg.Validate(), "missing bot token must fail")

	cfg.Discord.BotToken = "token"
	assert.NoError(t, cfg.Validate())

	cfg.Autopost.MinScore = 12
	assert.Error(t, cfg.Validate())

	cfg.Autopost.MinScore = 6.5
	cfg.Autopost.ScanInterval = "5s"
	assert.Error(t, cfg.Validate(), "sub-10s scan interval must fail")
}
