package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hunterjsb/pokebot/internal/config"
	"github.com/hunterjsb/pokebot/internal/discord"
	"github.com/hunterjsb/pokebot/internal/logging"
	"github.com/hunterjsb/pokebot/internal/metrics"
	"github.com/hunterjsb/pokebot/internal/pokedata"
	"github.com/hunterjsb/pokebot/internal/render"
	"github.com/hunterjsb/pokebot/internal/sim"
	"github.com/hunterjsb/pokebot/internal/store"
	"github.com/rs/zerolog"
)

func main() {
	if err := config.Load("."); err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Get()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	var logFile io.Writer
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Printf("Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logFile = f
	}
	log := logging.New(logging.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON, File: logFile})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Configuration validation failed")
	}

	switch cfg.Mode {
	case config.ModeDiscord:
		runDiscordBot(cfg, log)
	default:
		runSimulation(cfg, log)
	}
}

// app holds the collaborators both modes share
type app struct {
	data     *pokedata.Data
	store    *store.Store
	renderer *render.Renderer
	provider *metrics.Provider
	metrics  *metrics.Battle
	closers  []io.Closer
}

// close flushes metrics and releases the store
func (a *app) close(log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.provider.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("Error flushing metrics")
	}
	if err := a.store.Close(); err != nil {
		log.Warn().Err(err).Msg("Error closing database")
	}
	for _, c := range a.closers {
		c.Close()
	}
}

func newMetricsProvider(cfg config.MetricsConfig) (*metrics.Provider, io.Closer, error) {
	if !cfg.Enabled {
		p, err := metrics.NewProvider(metrics.Config{})
		return p, nil, err
	}

	var w io.Writer = os.Stdout
	var closer io.Closer
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("error opening metrics file: %w", err)
		}
		w, closer = f, f
	}

	p, err := metrics.NewProvider(metrics.Config{
		Enabled:     true,
		ServiceName: "pokebot",
		Writer:      w,
		Interval:    cfg.Interval,
	})
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, nil, err
	}
	return p, closer, nil
}

func setup(cfg *config.Config, log zerolog.Logger) (*app, error) {
	data, err := pokedata.Load(cfg.DataDir, log)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	provider, metricsFile, err := newMetricsProvider(cfg.Metrics)
	if err != nil {
		st.Close()
		return nil, err
	}
	a := &app{data: data, store: st, provider: provider}
	if metricsFile != nil {
		a.closers = append(a.closers, metricsFile)
	}

	a.metrics, err = metrics.New(provider.MeterProvider())
	if err != nil {
		a.close(log)
		return nil, err
	}

	renderer, err := render.NewRenderer(render.Options{
		BackgroundDir: cfg.Render.BackgroundsDir,
		SpriteDir:     cfg.Render.SpritesDir,
		SpriteBaseURL: cfg.Render.SpriteBaseURL,
		SpriteTTL:     cfg.Render.SpriteTTL,
		SpriteID:      data.Dex.SpriteID,
		Logger:        log,
	})
	if err != nil {
		a.close(log)
		return nil, err
	}
	a.renderer = renderer

	return a, nil
}

func runDiscordBot(cfg *config.Config, log zerolog.Logger) {
	log.Info().Msg("Starting Discord bot mode...")

	a, err := setup(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initialising bot")
	}
	stopSprites := a.renderer.Sprites().StartJanitor(10 * time.Minute)

	bot, err := discord.NewDiscordBot(&discord.Config{
		DiscordToken: cfg.Discord.Token,
		OpenAIToken:  cfg.OpenAI.APIKey,
		OpenAIModel:  cfg.OpenAI.Model,
		GuildID:      cfg.Discord.GuildID,
		ChannelID:    cfg.Discord.ChannelID,
		MaxTokens:    cfg.OpenAI.MaxTokens,
		Temperature:  cfg.OpenAI.Temperature,
		TeamSize:     cfg.Battle.TeamSize,
		ApplyNatures: cfg.Battle.ApplyNatures,
		ViewTimeout:  cfg.Battle.ViewTimeout,
	}, discord.Deps{
		Data:     a.data,
		Store:    a.store,
		Renderer: a.renderer,
		Metrics:  a.metrics,
		Logger:   log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating bot")
	}
	if err := bot.Config.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Bot configuration validation failed")
	}

	if err := bot.Start(); err != nil {
		log.Fatal().Err(err).Msg("Error starting bot")
	}

	discord.SetupCloseHandler(log, func() error {
		log.Info().Msg("Shutting down bot...")
		stopSprites()
		err := bot.Stop()
		a.close(log)
		return err
	})

	log.Info().Msg("Bot is now running. Press CTRL-C to exit.")
	select {}
}

func runSimulation(cfg *config.Config, log zerolog.Logger) {
	log.Info().Str("boss", cfg.Sim.Boss).Strs("team", cfg.Sim.Team).Msg("Starting battle simulation...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initialising simulation")
	}
	defer a.close(log)

	runner := &sim.Runner{Data: a.data, Store: a.store, Renderer: a.renderer, Metrics: a.metrics, Logger: log}
	res, err := runner.Run(ctx, sim.Config{
		Boss:         cfg.Sim.Boss,
		Team:         cfg.Sim.Team,
		Level:        cfg.Sim.Level,
		Seed:         cfg.Sim.Seed,
		ApplyNatures: cfg.Battle.ApplyNatures,
	})
	if err != nil {
		log.Error().Err(err).Msg("Simulation failed")
		return
	}

	m := res.Manager
	fmt.Printf("=== %s vs %s ===\n", sim.UserID, m.Boss.Name)
	for _, line := range m.Log {
		fmt.Println(line)
	}
	fmt.Printf("Result: %s after %d turns\n", m.Outcome(), m.TurnCount)
	if res.Reward.Coins > 0 {
		fmt.Printf("Reward: %d coins\n", res.Reward.Coins)
	}

	if res.Scene == nil {
		return
	}
	if err := os.WriteFile(cfg.Sim.Output, res.Scene, 0o644); err != nil {
		log.Error().Err(err).Str("path", cfg.Sim.Output).Msg("Error writing scene")
		return
	}
	log.Info().Str("path", cfg.Sim.Output).Msg("Final scene written")
}
