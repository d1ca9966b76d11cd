package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks the variables a developer shell may export; empty values
// are ignored by viper
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range env {
		t.Setenv(name, "")
	}
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	clearEnv(t)

	dir := t.TempDir()
	cfg := `{
		"mode": "discord",
		"logLevel": "debug",
		"battle": { "applyNatures": true, "viewTimeout": "90s" },
		"db": { "driver": "postgres", "host": "10.0.0.1", "port": "5433" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(cfg), 0644))

	require.NoError(t, Load(dir))

	assert.Equal(t, "discord", viper.GetString("mode"))
	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.True(t, viper.GetBool("battle.applyNatures"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))

	c, err := Get()
	require.NoError(t, err)
	assert.Equal(t, ModeDiscord, c.Mode)
	assert.Equal(t, 90*time.Second, c.Battle.ViewTimeout)
	assert.Equal(t, 3, c.Battle.TeamSize)
	assert.Equal(t, "postgres", c.DB.Driver)
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)
	clearEnv(t)

	require.NoError(t, Load(t.TempDir()))

	c, err := Get()
	require.NoError(t, err)

	assert.Equal(t, ModeSim, c.Mode)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "data", c.DataDir)
	assert.Equal(t, 150, c.OpenAI.MaxTokens)
	assert.InDelta(t, 0.7, c.OpenAI.Temperature, 1e-9)
	assert.Equal(t, "assets/backgrounds", c.Render.BackgroundsDir)
	assert.Equal(t, time.Hour, c.Render.SpriteTTL)
	assert.False(t, c.Battle.ApplyNatures)
	assert.Equal(t, 3, c.Battle.TeamSize)
	assert.Equal(t, 300*time.Second, c.Battle.ViewTimeout)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, "pokebot.db", c.DB.SqlitePath)
	assert.Equal(t, "gym_leader_brock", c.Sim.Boss)
	assert.Equal(t, []string{"Squirtle", "Bulbasaur", "Pikachu"}, c.Sim.Team)
	assert.Equal(t, 50, c.Sim.Level)
	assert.Equal(t, "battle.png", c.Sim.Output)
	assert.False(t, c.Metrics.Enabled)
	assert.Equal(t, time.Minute, c.Metrics.Interval)
	assert.NoError(t, c.Validate())
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	clearEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"mode":`), 0644))

	err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	clearEnv(t)
	t.Setenv("MODE", "discord")
	t.Setenv("DISCORD_TOKEN", "token-from-env")
	t.Setenv("MAX_TOKENS", "300")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"discord": {"token": "token-from-file"}}`), 0644))
	require.NoError(t, Load(dir))

	c, err := Get()
	require.NoError(t, err)
	assert.Equal(t, ModeDiscord, c.Mode)
	assert.Equal(t, "token-from-env", c.Discord.Token)
	assert.Equal(t, 300, c.OpenAI.MaxTokens)
}

func TestLoadDotEnv(t *testing.T) {
	t.Cleanup(func() {
		os.Unsetenv("POKEBOT_TEST_KEY1")
		os.Unsetenv("POKEBOT_TEST_KEY2")
	})
	t.Setenv("POKEBOT_TEST_KEY3", "from-shell")

	dir := t.TempDir()
	content := `# This is a comment
POKEBOT_TEST_KEY1=value1
POKEBOT_TEST_KEY2="quoted value"

POKEBOT_TEST_KEY3=from-file`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DotEnvFile), []byte(content), 0644))

	require.NoError(t, LoadDotEnv(dir))

	tests := []struct {
		key      string
		expected string
	}{
		{"POKEBOT_TEST_KEY1", "value1"},
		{"POKEBOT_TEST_KEY2", "quoted value"},
		{"POKEBOT_TEST_KEY3", "from-shell"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, os.Getenv(tt.key), tt.key)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(t.TempDir()))
}

func TestLoad_DotEnvFeedsConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	clearEnv(t)
	os.Unsetenv("GUILD_ID")
	t.Cleanup(func() { os.Unsetenv("GUILD_ID") })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DotEnvFile), []byte("GUILD_ID=12345\n"), 0644))
	require.NoError(t, Load(dir))

	c, err := Get()
	require.NoError(t, err)
	assert.Equal(t, "12345", c.Discord.GuildID)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Mode:    ModeDiscord,
			Discord: DiscordConfig{Token: "abc"},
			Battle:  BattleConfig{TeamSize: 3},
			DB:      DBConfig{Driver: "memory"},
			Sim:     SimConfig{Boss: "gym_leader_brock", Team: []string{"Pikachu"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid discord", func(c *Config) {}, ""},
		{"valid sim", func(c *Config) { c.Mode = ModeSim; c.Discord.Token = "" }, ""},
		{"missing token", func(c *Config) { c.Discord.Token = "" }, "DISCORD_TOKEN is required"},
		{"unknown mode", func(c *Config) { c.Mode = "tft" }, "unknown mode"},
		{"sim without boss", func(c *Config) { c.Mode = ModeSim; c.Sim.Boss = "" }, "sim.boss is required"},
		{"sim without team", func(c *Config) { c.Mode = ModeSim; c.Sim.Team = nil }, "sim.team"},
		{"team size", func(c *Config) { c.Battle.TeamSize = 0 }, "battle.teamSize"},
		{"db driver", func(c *Config) { c.DB.Driver = "mongo" }, "unknown db driver"},
		{"metrics interval", func(c *Config) { c.Metrics.Enabled = true }, "metrics.interval"},
		{"metrics", func(c *Config) { c.Metrics = MetricsConfig{Enabled: true, Interval: time.Second} }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetters(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	viper.Set("testInt", 42)
	viper.Set("testBool", true)

	assert.Equal(t, "testValue", GetString("testKey"))
	assert.Equal(t, 42, GetInt("testInt"))
	assert.True(t, GetBool("testBool"))
}
