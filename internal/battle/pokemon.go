package battle

import (
	"github.com/hunterjsb/pokebot/internal/pokedata"
)

// IVs are the per-stat individual values of an owned creature (0-31)
type IVs struct {
	HP        int
	Attack    int
	Defense   int
	SpAttack  int
	SpDefense int
	Speed     int
}

// Owned is a user-owned creature as handed over by the store
type Owned struct {
	PokemonID int
	Name      string
	Nickname  string
	Level     int
	Nature    string
	Shiny     bool
	IVs       IVs
	Moves     []string
}

// Pokemon is a creature inside a battle. Stats are fixed at construction.
type Pokemon struct {
	PokemonID int
	Name      string
	Nickname  string
	Level     int
	Nature    string
	Ability   string
	Shiny     bool
	Types     []string

	MaxHP     int
	Attack    int
	Defense   int
	SpAttack  int
	SpDefense int
	Speed     int

	CurrentHP int
	Fainted   bool
	Moves     []pokedata.MoveInfo
}

const maxMoves = 4

// CalculateStat applies the standard stat formula with integer arithmetic
func CalculateStat(base, iv, ev, level int, isHP bool) int {
	stat := (2*base + iv + ev/4) * level / 100
	if isHP {
		return stat + level + 10
	}
	return stat + 5
}

// NewUserPokemon builds a battle creature from an owned record. When
// applyNature is set the nature multipliers scale the computed stats.
func NewUserPokemon(data *pokedata.Data, o Owned, applyNature bool) *Pokemon {
	id := o.PokemonID
	if id == 0 {
		id = 1
	}
	nature := o.Nature
	if nature == "" {
		nature = "Hardy"
	}

	species := data.Dex.Resolve(o.Name, id)
	base := species.Stats

	p := &Pokemon{
		PokemonID: id,
		Name:      o.Name,
		Nickname:  o.Nickname,
		Level:     o.Level,
		Nature:    nature,
		Shiny:     o.Shiny,
		Types:     data.Dex.TypesOf(o.Name, id),
		MaxHP:     CalculateStat(base.HP, o.IVs.HP, 0, o.Level, true),
		Attack:    CalculateStat(base.Attack, o.IVs.Attack, 0, o.Level, false),
		Defense:   CalculateStat(base.Defense, o.IVs.Defense, 0, o.Level, false),
		SpAttack:  CalculateStat(base.SpAttack, o.IVs.SpAttack, 0, o.Level, false),
		SpDefense: CalculateStat(base.SpDefense, o.IVs.SpDefense, 0, o.Level, false),
		Speed:     CalculateStat(base.Speed, o.IVs.Speed, 0, o.Level, false),
	}
	if p.Name == "" {
		p.Name = species.Name
	}

	if applyNature {
		scale := func(v, stat int) int {
			return int(float64(v) * data.Natures.Multiplier(nature, stat))
		}
		p.Attack = scale(p.Attack, pokedata.StatAttack)
		p.Defense = scale(p.Defense, pokedata.StatDefense)
		p.SpAttack = scale(p.SpAttack, pokedata.StatSpAttack)
		p.SpDefense = scale(p.SpDefense, pokedata.StatSpDefense)
		p.Speed = scale(p.Speed, pokedata.StatSpeed)
	}

	for _, name := range o.Moves {
		if name == "" || name == "None" {
			continue
		}
		if len(p.Moves) == maxMoves {
			break
		}
		p.Moves = append(p.Moves, data.Moves.Lookup(name))
	}
	if len(p.Moves) == 0 {
		p.Moves = []pokedata.MoveInfo{data.Moves.Tackle()}
	}

	p.CurrentHP = p.MaxHP
	return p
}

// NewBossPokemon builds a battle creature from a boss team entry; its stats
// are taken as-is from the boss definition.
func NewBossPokemon(data *pokedata.Data, m pokedata.BossMember) *Pokemon {
	p := &Pokemon{
		PokemonID: m.PokemonID,
		Name:      m.Name,
		Level:     m.Level,
		Nature:    m.Nature,
		Ability:   m.Ability,
		Shiny:     m.Shiny,
		Types:     data.Dex.TypesOf(m.Name, m.PokemonID),
		MaxHP:     m.Stats.HP,
		Attack:    m.Stats.Attack,
		Defense:   m.Stats.Defense,
		SpAttack:  m.Stats.SpAttack,
		SpDefense: m.Stats.SpDefense,
		Speed:     m.Stats.Speed,
	}
	for _, mv := range m.Moves {
		mv.Type = pokedata.TitleType(mv.Type)
		p.Moves = append(p.Moves, mv)
	}
	if len(p.Moves) == 0 {
		p.Moves = []pokedata.MoveInfo{data.Moves.Tackle()}
	}
	p.CurrentHP = p.MaxHP
	return p
}

// DisplayName returns the nickname when one is set
func (p *Pokemon) DisplayName() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.Name
}

func (p *Pokemon) TakeDamage(damage int) {
	p.CurrentHP = max(0, p.CurrentHP-damage)
	if p.CurrentHP == 0 {
		p.Fainted = true
	}
}

func (p *Pokemon) Heal(amount int) {
	p.CurrentHP = min(p.MaxHP, p.CurrentHP+amount)
	if p.CurrentHP > 0 {
		p.Fainted = false
	}
}

// HPRatio is the fraction of max HP remaining
func (p *Pokemon) HPRatio() float64 {
	if p.MaxHP <= 0 {
		return 0
	}
	return float64(p.CurrentHP) / float64(p.MaxHP)
}

func firstAlive(team []*Pokemon) int {
	for i, p := range team {
		if !p.Fainted {
			return i
		}
	}
	return -1
}

// AllFainted reports whether every member of a team has fainted
func AllFainted(team []*Pokemon) bool {
	return firstAlive(team) < 0
}
