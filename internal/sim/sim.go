// Package sim plays a boss battle without Discord. The user's side picks its
// strongest move every turn.
package sim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/hunterjsb/pokebot/internal/battle"
	"github.com/hunterjsb/pokebot/internal/metrics"
	"github.com/hunterjsb/pokebot/internal/pokedata"
	"github.com/hunterjsb/pokebot/internal/store"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

// UserID owns the simulated team in the store
const UserID = "sim"

const (
	movesPerPokemon = 4
	maxTurns        = 500
	maxIV           = 31
)

// Store is what a simulation reads and writes
type Store interface {
	battle.Ledger
	AddPokemon(ctx context.Context, p *store.OwnedPokemon) error
	Team(ctx context.Context, userID string, numbers []int, size int) ([]battle.Owned, error)
}

// SceneRenderer draws the final scene
type SceneRenderer interface {
	Render(ctx context.Context, snap battle.Snapshot) ([]byte, error)
}

// Config selects the battle to play
type Config struct {
	Boss  string
	Team  []string
	Level int
	// Seed fixes IVs and boss move choices; zero seeds from the clock
	Seed         uint64
	ApplyNatures bool
}

// Result is a finished simulation
type Result struct {
	Manager *battle.Manager
	Reward  battle.Reward
	// Scene is the final frame as PNG; nil when rendering failed
	Scene []byte
}

// Runner plays simulations against the static data
type Runner struct {
	Data     *pokedata.Data
	Store    Store
	Renderer SceneRenderer
	// Metrics may be nil
	Metrics *metrics.Battle
	Logger  zerolog.Logger
}

// BuildTeam turns species names into owned creatures with type-matching moves
func BuildTeam(data *pokedata.Data, names []string, level int, rng *rand.Rand) ([]battle.Owned, error) {
	if level < 1 {
		level = 50
	}
	natures := data.Natures.Names()
	sort.Strings(natures)

	team := make([]battle.Owned, 0, len(names))
	for _, name := range names {
		sp, ok := data.Dex.ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown pokemon %q", name)
		}

		o := battle.Owned{
			PokemonID: sp.ID,
			Name:      sp.Name,
			Level:     level,
			IVs: battle.IVs{
				HP:        rng.IntN(maxIV + 1),
				Attack:    rng.IntN(maxIV + 1),
				Defense:   rng.IntN(maxIV + 1),
				SpAttack:  rng.IntN(maxIV + 1),
				SpDefense: rng.IntN(maxIV + 1),
				Speed:     rng.IntN(maxIV + 1),
			},
			Moves: movesFor(data.Moves, sp.Types),
		}
		if len(natures) > 0 {
			o.Nature = natures[rng.IntN(len(natures))]
		}
		team = append(team, o)
	}
	return team, nil
}

// movesFor picks the two strongest moves of each type, then pads with Tackle
func movesFor(moves *pokedata.Moves, types []string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(name string) {
		key := strings.ToLower(name)
		if seen[key] || len(out) == movesPerPokemon {
			return
		}
		seen[key] = true
		out = append(out, name)
	}

	for _, t := range types {
		for i, mv := range moves.OfType(t) {
			if i == 2 {
				break
			}
			add(pokedata.TitleType(strings.ReplaceAll(mv.Name, "-", " ")))
		}
	}
	add(moves.Tackle().Name)
	return out
}

// BestMove returns the move slot that deals the most damage to the boss's
// active creature
func BestMove(m *battle.Manager) int {
	user, boss := m.UserPokemon(), m.BossPokemon()

	best, bestDamage := 0, -1
	for i, mv := range user.Moves {
		damage, _ := m.CalculateDamage(user, boss, mv)
		if damage > bestDamage {
			best, bestDamage = i, damage
		}
	}
	return best
}

// Run stores the team, plays the battle to the end and pays out a victory.
// A cancelled context makes the team flee.
func (r *Runner) Run(ctx context.Context, cfg Config) (Result, error) {
	boss, ok := r.Data.Boss(cfg.Boss)
	if !ok {
		return Result{}, fmt.Errorf("unknown boss %q", cfg.Boss)
	}

	seed := cfg.Seed
	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	log := r.Logger.With().Str("component", "sim").Str("boss", boss.Name).Logger()

	owned, err := BuildTeam(r.Data, cfg.Team, cfg.Level, rng)
	if err != nil {
		return Result{}, err
	}

	numbers := make([]int, 0, len(owned))
	for _, o := range owned {
		row := &store.OwnedPokemon{
			UserID:    UserID,
			PokemonID: o.PokemonID,
			Name:      o.Name,
			Level:     o.Level,
			Nature:    o.Nature,
		}
		row.IVs = datatypes.NewJSONType(o.IVs)
		row.Moves = datatypes.NewJSONSlice(o.Moves)
		if err := r.Store.AddPokemon(ctx, row); err != nil {
			return Result{}, fmt.Errorf("error storing team: %w", err)
		}
		numbers = append(numbers, row.Number)
	}

	team, err := r.Store.Team(ctx, UserID, numbers, len(numbers))
	if err != nil {
		return Result{}, fmt.Errorf("error loading team: %w", err)
	}

	m, err := battle.NewManager(UserID, boss, team, r.Data, battle.Options{
		Rand:         rng,
		Logger:       r.Logger,
		ApplyNatures: cfg.ApplyNatures,
		MinTeamSize:  len(team),
	})
	if err != nil {
		return Result{}, err
	}

	r.Metrics.Started(ctx, boss.Name)
	for !m.Over() {
		if ctx.Err() != nil || m.TurnCount >= maxTurns {
			log.Warn().Int("turns", m.TurnCount).Msg("Simulation interrupted, fleeing")
			if err := m.Flee(); err != nil {
				return Result{}, err
			}
			break
		}
		if _, err := m.ProcessTurn(battle.UseMove(BestMove(m))); err != nil {
			return Result{}, fmt.Errorf("error processing turn %d: %w", m.TurnCount+1, err)
		}
		r.Metrics.Turn(ctx)
	}
	r.Metrics.Finished(context.WithoutCancel(ctx), boss.Name, m.Outcome().String())

	res := Result{Manager: m}
	res.Reward, err = battle.NewRewarder(r.Store, r.Logger).Grant(ctx, m)
	if err != nil {
		log.Error().Err(err).Msg("Error granting reward")
	}

	if r.Renderer != nil {
		start := time.Now()
		png, err := r.Renderer.Render(context.WithoutCancel(ctx), m.Snapshot())
		r.Metrics.Rendered(context.WithoutCancel(ctx), time.Since(start), err)
		if err != nil {
			log.Error().Err(err).Msg("Error rendering final scene")
		} else {
			res.Scene = png
		}
	}

	log.Info().
		Str("outcome", m.Outcome().String()).
		Int("turns", m.TurnCount).
		Int("coins", res.Reward.Coins).
		Msg("Simulation finished")
	return res, nil
}
