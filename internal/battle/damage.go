package battle

import (
	"slices"
	"strings"

	"github.com/hunterjsb/pokebot/internal/pokedata"
)

// physicalTypes decide the damage class of moves without one on record
var physicalTypes = []string{"normal", "fighting", "flying", "poison", "ground", "rock", "bug", "ghost", "steel"}

const stabMultiplier = 1.5

func (m *Manager) isPhysical(move pokedata.MoveInfo) bool {
	class := move.DamageClass
	if class == "" {
		class = m.moves.DamageClassOf(move.Name)
	}
	if class != "" {
		return class == "physical"
	}
	return slices.Contains(physicalTypes, strings.ToLower(move.Type))
}

func hasType(types []string, t string) bool {
	for _, own := range types {
		if strings.EqualFold(own, t) {
			return true
		}
	}
	return false
}

// CalculateDamage returns the damage dealt by move and the type effectiveness
// applied to it. Moves without power deal nothing.
func (m *Manager) CalculateDamage(attacker, defender *Pokemon, move pokedata.MoveInfo) (int, float64) {
	if move.Power == 0 {
		return 0, 1.0
	}

	attack, defense := attacker.SpAttack, defender.SpDefense
	if m.isPhysical(move) {
		attack, defense = attacker.Attack, defender.Defense
	}
	if defense <= 0 {
		defense = 1
	}

	level := float64(attacker.Level)
	base := ((2*level/5+2)*float64(move.Power)*float64(attack)/float64(defense))/50 + 2

	effectiveness := m.chart.Effectiveness(move.Type, defender.Types)
	damage := base * effectiveness

	stab := 1.0
	if hasType(attacker.Types, move.Type) {
		stab = stabMultiplier
		damage *= stab
	}

	m.log.Debug().
		Str("attacker", attacker.Name).
		Str("move", move.Name).
		Str("move_type", move.Type).
		Strs("attacker_types", attacker.Types).
		Strs("defender_types", defender.Types).
		Float64("base_damage", base).
		Float64("effectiveness", effectiveness).
		Float64("stab", stab).
		Int("damage", int(damage)).
		Msg("Damage calculated")

	return int(damage), effectiveness
}

// EffectivenessText is appended to the action line of a move
func EffectivenessText(effectiveness float64) string {
	switch {
	case effectiveness > 1:
		return " It's super effective!"
	case effectiveness == 0:
		return " It doesn't affect the target..."
	case effectiveness < 1:
		return " It's not very effective..."
	}
	return ""
}
