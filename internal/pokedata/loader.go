package pokedata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// File names inside the data directory
const (
	PokedexFile   = "pokedex.json"
	CustomFile    = "custom_pokemon.json"
	MovesFile     = "moves_data.json"
	TypeChartFile = "type_chart.json"
	NaturesFile   = "nature.json"
	BossesFile    = "boss_data.json"
)

// Data bundles every static table the battle system reads
type Data struct {
	Dex     *Dex
	Moves   *Moves
	Chart   TypeChart
	Natures Natures

	bosses   map[string]Boss
	bossKeys []string
}

// Load reads all data files from dir. The pokedex and boss definitions are
// required; every other file falls back to a built-in default when missing.
func Load(dir string, log zerolog.Logger) (*Data, error) {
	log = log.With().Str("component", "pokedata").Str("dir", dir).Logger()

	var pokedex map[string]Species
	if err := readJSON(filepath.Join(dir, PokedexFile), &pokedex); err != nil {
		return nil, fmt.Errorf("error loading pokedex: %w", err)
	}
	dex := NewDex(pokedex)

	var custom map[string]Species
	switch err := readJSON(filepath.Join(dir, CustomFile), &custom); {
	case err == nil:
		dex.Merge(custom)
		log.Info().Int("count", len(custom)).Msg("Loaded custom pokemon")
	case errors.Is(err, fs.ErrNotExist):
		log.Debug().Msg("No custom pokemon file found, only base pokemon available")
	default:
		return nil, fmt.Errorf("error loading custom pokemon: %w", err)
	}

	var rawMoves map[string]rawMove
	if err := readJSON(filepath.Join(dir, MovesFile), &rawMoves); err != nil {
		log.Warn().Err(err).Msg("Moves data unavailable, using generic moves")
		rawMoves = map[string]rawMove{}
	}

	var chart TypeChart
	var rawChart map[string]map[string]float64
	if err := readJSON(filepath.Join(dir, TypeChartFile), &rawChart); err != nil {
		log.Warn().Err(err).Msg("Type chart unavailable, using fallback type chart")
		chart = FallbackTypeChart()
	} else {
		chart = NewTypeChart(rawChart)
	}

	natures := Natures{}
	var natureFile struct {
		Natures Natures `json:"natures"`
	}
	if err := readJSON(filepath.Join(dir, NaturesFile), &natureFile); err != nil {
		log.Warn().Err(err).Msg("Nature table unavailable, natures are neutral")
	} else {
		natures = natureFile.Natures
	}

	var bossFile struct {
		Bosses map[string]Boss `json:"bosses"`
	}
	if err := readJSON(filepath.Join(dir, BossesFile), &bossFile); err != nil {
		return nil, fmt.Errorf("error loading boss data: %w", err)
	}

	data := &Data{
		Dex:     dex,
		Moves:   newMoves(rawMoves),
		Chart:   chart,
		Natures: natures,
	}
	data.SetBosses(bossFile.Bosses)

	log.Info().
		Int("species", dex.Len()).
		Int("moves", data.Moves.Len()).
		Int("bosses", len(data.bossKeys)).
		Msg("Static data loaded")

	return data, nil
}

// SetBosses replaces the boss table
func (d *Data) SetBosses(bosses map[string]Boss) {
	d.bosses = make(map[string]Boss, len(bosses))
	d.bossKeys = d.bossKeys[:0]
	for key, boss := range bosses {
		boss.Key = key
		if boss.Name == "" {
			boss.Name = titleCaser.String(strings.ReplaceAll(key, "_", " "))
		}
		d.bosses[key] = boss
		d.bossKeys = append(d.bossKeys, key)
	}
	sort.Strings(d.bossKeys)
}

// Boss returns a boss definition by key
func (d *Data) Boss(key string) (Boss, bool) {
	b, ok := d.bosses[key]
	return b, ok
}

// Bosses returns all bosses ordered by key
func (d *Data) Bosses() []Boss {
	out := make([]Boss, 0, len(d.bossKeys))
	for _, k := range d.bossKeys {
		out = append(out, d.bosses[k])
	}
	return out
}

func readJSON(path string, out interface{}) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}
