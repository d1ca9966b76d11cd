package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the optional JSON config file looked up in the config directory
const FileName = "pokebot.json"

// Run modes
const (
	ModeDiscord = "discord"
	ModeSim     = "sim"
)

// DiscordConfig holds the bot credentials
type DiscordConfig struct {
	Token     string `json:"token" mapstructure:"token"`
	GuildID   string `json:"guildId" mapstructure:"guildId"`
	ChannelID string `json:"channelId" mapstructure:"channelId"`
}

// OpenAIConfig holds the battle recap settings. An empty key disables recaps.
type OpenAIConfig struct {
	APIKey      string  `json:"apiKey" mapstructure:"apiKey"`
	Model       string  `json:"model" mapstructure:"model"`
	MaxTokens   int     `json:"maxTokens" mapstructure:"maxTokens"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
}

// RenderConfig holds scene renderer asset locations
type RenderConfig struct {
	BackgroundsDir string        `json:"backgroundsDir" mapstructure:"backgroundsDir"`
	SpritesDir     string        `json:"spritesDir" mapstructure:"spritesDir"`
	SpriteBaseURL  string        `json:"spriteBaseUrl" mapstructure:"spriteBaseUrl"`
	SpriteTTL      time.Duration `json:"spriteTTL" mapstructure:"spriteTTL"`
}

// BattleConfig holds battle rules
type BattleConfig struct {
	ApplyNatures bool          `json:"applyNatures" mapstructure:"applyNatures"`
	TeamSize     int           `json:"teamSize" mapstructure:"teamSize"`
	ViewTimeout  time.Duration `json:"viewTimeout" mapstructure:"viewTimeout"`
}

// DBConfig selects the storage backend. Driver is one of postgres, sqlite or memory.
type DBConfig struct {
	Driver     string `json:"driver" mapstructure:"driver"`
	SqlitePath string `json:"sqlitePath" mapstructure:"sqlitePath"`
	Host       string `json:"host" mapstructure:"host"`
	Port       string `json:"port" mapstructure:"port"`
	Username   string `json:"username" mapstructure:"username"`
	Password   string `json:"password" mapstructure:"password"`
	Database   string `json:"database" mapstructure:"database"`
}

// MetricsConfig enables the OTel metrics exporter. An empty File writes to stdout.
type MetricsConfig struct {
	Enabled  bool          `json:"enabled" mapstructure:"enabled"`
	File     string        `json:"file" mapstructure:"file"`
	Interval time.Duration `json:"interval" mapstructure:"interval"`
}

// SimConfig drives the headless battle mode
type SimConfig struct {
	Boss   string   `json:"boss" mapstructure:"boss"`
	Team   []string `json:"team" mapstructure:"team"`
	Level  int      `json:"level" mapstructure:"level"`
	Seed   uint64   `json:"seed" mapstructure:"seed"`
	Output string   `json:"output" mapstructure:"output"`
}

// Config is the resolved application configuration
type Config struct {
	Mode     string        `json:"mode" mapstructure:"mode"`
	LogLevel string        `json:"logLevel" mapstructure:"logLevel"`
	LogJSON  bool          `json:"logJSON" mapstructure:"logJSON"`
	LogFile  string        `json:"logFile" mapstructure:"logFile"`
	DataDir  string        `json:"dataDir" mapstructure:"dataDir"`
	Discord  DiscordConfig `json:"discord" mapstructure:"discord"`
	OpenAI   OpenAIConfig  `json:"openai" mapstructure:"openai"`
	Render   RenderConfig  `json:"render" mapstructure:"render"`
	Battle   BattleConfig  `json:"battle" mapstructure:"battle"`
	DB       DBConfig      `json:"db" mapstructure:"db"`
	Metrics  MetricsConfig `json:"metrics" mapstructure:"metrics"`
	Sim      SimConfig     `json:"sim" mapstructure:"sim"`
}

// env maps config keys to the environment variables that override them
var env = map[string]string{
	"mode":               "MODE",
	"logLevel":           "LOG_LEVEL",
	"logFile":            "LOG_FILE",
	"dataDir":            "DATA_DIR",
	"discord.token":      "DISCORD_TOKEN",
	"discord.guildId":    "GUILD_ID",
	"discord.channelId":  "CHANNEL_ID",
	"openai.apiKey":      "OPENAI_API_KEY",
	"openai.maxTokens":   "MAX_TOKENS",
	"openai.temperature": "TEMPERATURE",
	"db.driver":          "DB_DRIVER",
	"db.host":            "DB_HOST",
	"db.port":            "DB_PORT",
	"db.username":        "DB_USER",
	"db.password":        "DB_PASSWORD",
	"db.database":        "DB_NAME",
	"metrics.enabled":    "METRICS_ENABLED",
	"metrics.file":       "METRICS_FILE",
	"sim.boss":           "SIM_BOSS",
}

func setDefaults() {
	viper.SetDefault("mode", ModeSim)
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logJSON", false)
	viper.SetDefault("logFile", "")
	viper.SetDefault("dataDir", "data")

	viper.SetDefault("discord.token", "")
	viper.SetDefault("discord.guildId", "")
	viper.SetDefault("discord.channelId", "")

	viper.SetDefault("openai.apiKey", "")
	viper.SetDefault("openai.model", "gpt-4o-mini")
	viper.SetDefault("openai.maxTokens", 150)
	viper.SetDefault("openai.temperature", 0.7)

	viper.SetDefault("render.backgroundsDir", "assets/backgrounds")
	viper.SetDefault("render.spritesDir", "assets/sprites")
	viper.SetDefault("render.spriteBaseUrl", "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon")
	viper.SetDefault("render.spriteTTL", "1h")

	viper.SetDefault("battle.applyNatures", false)
	viper.SetDefault("battle.teamSize", 3)
	viper.SetDefault("battle.viewTimeout", "300s")

	viper.SetDefault("db.driver", "sqlite")
	viper.SetDefault("db.sqlitePath", "pokebot.db")
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "pokebot")

	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.file", "")
	viper.SetDefault("metrics.interval", "60s")

	viper.SetDefault("sim.boss", "gym_leader_brock")
	viper.SetDefault("sim.team", []string{"Squirtle", "Bulbasaur", "Pikachu"})
	viper.SetDefault("sim.level", 50)
	viper.SetDefault("sim.seed", 0)
	viper.SetDefault("sim.output", "battle.png")
}

// Load sets defaults, applies the .env file and environment overrides, then
// reads pokebot.json from configDir when present.
func Load(configDir string) error {
	setDefaults()

	if err := LoadDotEnv(configDir); err != nil {
		return err
	}

	for key, name := range env {
		if err := viper.BindEnv(key, name); err != nil {
			return fmt.Errorf("error binding %s: %w", name, err)
		}
	}

	viper.SetConfigName(strings.TrimSuffix(FileName, ".json"))
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %v", err)
		}
	}

	return nil
}

// Get decodes the loaded settings into a Config
func Get() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	return &cfg, nil
}

// Validate checks the settings the selected mode needs
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeDiscord:
		if c.Discord.Token == "" {
			return fmt.Errorf("DISCORD_TOKEN is required")
		}
	case ModeSim:
		if c.Sim.Boss == "" {
			return fmt.Errorf("sim.boss is required")
		}
		if len(c.Sim.Team) == 0 {
			return fmt.Errorf("sim.team needs at least one pokemon")
		}
	default:
		return fmt.Errorf("unknown mode: %q", c.Mode)
	}

	if c.Battle.TeamSize < 1 {
		return fmt.Errorf("battle.teamSize must be positive, got %d", c.Battle.TeamSize)
	}

	switch c.DB.Driver {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown db driver: %q", c.DB.Driver)
	}

	if c.Metrics.Enabled && c.Metrics.Interval <= 0 {
		return fmt.Errorf("metrics.interval must be positive, got %s", c.Metrics.Interval)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
