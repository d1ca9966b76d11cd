package pokedata

// Stat indexes into a nature's multiplier list
const (
	StatHP = iota
	StatAttack
	StatDefense
	StatSpAttack
	StatSpDefense
	StatSpeed
)

// Natures maps a nature name to its six stat multipliers [hp, atk, def, spa, spd, spe]
type Natures map[string][]float64

// Multiplier returns the nature's multiplier for a stat; unknown natures and
// malformed rows are neutral.
func (n Natures) Multiplier(nature string, stat int) float64 {
	row, ok := n[nature]
	if !ok || stat < 0 || stat >= len(row) {
		return 1
	}
	return row[stat]
}

// Names lists every nature in the table
func (n Natures) Names() []string {
	names := make([]string, 0, len(n))
	for name := range n {
		names = append(names, name)
	}
	return names
}
