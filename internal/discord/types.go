package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hunterjsb/pokebot/internal/battle"
	"github.com/hunterjsb/pokebot/internal/metrics"
	"github.com/hunterjsb/pokebot/internal/pokedata"
	"github.com/hunterjsb/pokebot/internal/store"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

// DiscordBot represents a Discord bot
type DiscordBot struct {
	Session         *discordgo.Session
	Config          *Config
	OpenAI          *OpenAIClient
	BotUserID       string
	GuildID         string
	Commands        []*discordgo.ApplicationCommand
	CommandHandlers map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	// ComponentHandlers are keyed by the custom ID prefix before the first ':'
	ComponentHandlers map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)

	Data     *pokedata.Data
	Store    Store
	Renderer SceneRenderer
	Battles  *battle.Registry
	Rewarder *battle.Rewarder
	Metrics  *metrics.Battle
	Logger   zerolog.Logger

	stopJanitor func()
}

// Config holds Discord bot configuration
type Config struct {
	DiscordToken string
	OpenAIToken  string
	OpenAIModel  string
	GuildID      string
	ChannelID    string
	MaxTokens    int
	Temperature  float64

	TeamSize     int
	ApplyNatures bool
	ViewTimeout  time.Duration
}

// Deps are the services the bot drives
type Deps struct {
	Data     *pokedata.Data
	Store    Store
	Renderer SceneRenderer
	Metrics  *metrics.Battle
	Logger   zerolog.Logger
}

// Store is the persistence the battle commands need
type Store interface {
	battle.Ledger
	Team(ctx context.Context, userID string, numbers []int, size int) ([]battle.Owned, error)
	DailyBossQuest(ctx context.Context, userID string, candidates []string) (store.BossQuest, error)
	Coins(ctx context.Context, userID string) (int, error)
	BossWins(ctx context.Context, userID, boss string) (int, error)
}

// SceneRenderer turns a battle snapshot into a PNG
type SceneRenderer interface {
	Render(ctx context.Context, snap battle.Snapshot) ([]byte, error)
}

// OpenAIClient wraps the OpenAI API client
type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}
