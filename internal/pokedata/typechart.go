package pokedata

import "strings"

// TypeChart maps attacking type -> defending type -> damage multiplier.
// Keys are stored lower case.
type TypeChart map[string]map[string]float64

// NewTypeChart copies a chart, normalising every key to lower case
func NewTypeChart(raw map[string]map[string]float64) TypeChart {
	chart := make(TypeChart, len(raw))
	for atk, row := range raw {
		dst := make(map[string]float64, len(row))
		for def, mult := range row {
			dst[strings.ToLower(def)] = mult
		}
		chart[strings.ToLower(atk)] = dst
	}
	return chart
}

// Effectiveness multiplies the chart entries for moveType against every
// defender type. Pairs absent from the chart count as neutral.
func (c TypeChart) Effectiveness(moveType string, defenderTypes []string) float64 {
	effectiveness := 1.0
	row, ok := c[strings.ToLower(moveType)]
	if !ok {
		return effectiveness
	}
	for _, t := range defenderTypes {
		if mult, ok := row[strings.ToLower(t)]; ok {
			effectiveness *= mult
		}
	}
	return effectiveness
}

// FallbackTypeChart is used when type_chart.json is missing
func FallbackTypeChart() TypeChart {
	return NewTypeChart(map[string]map[string]float64{
		"Normal":   {"Rock": 0.5, "Steel": 0.5, "Ghost": 0},
		"Fire":     {"Fire": 0.5, "Water": 0.5, "Grass": 2, "Ice": 2, "Bug": 2, "Rock": 0.5, "Dragon": 0.5, "Steel": 2},
		"Water":    {"Fire": 2, "Water": 0.5, "Grass": 0.5, "Ground": 2, "Rock": 2, "Dragon": 0.5},
		"Electric": {"Water": 2, "Electric": 0.5, "Grass": 0.5, "Ground": 0, "Flying": 2, "Dragon": 0.5},
		"Grass":    {"Fire": 0.5, "Water": 2, "Grass": 0.5, "Poison": 0.5, "Flying": 0.5, "Bug": 0.5, "Rock": 2, "Dragon": 0.5, "Steel": 0.5},
		"Ice":      {"Fire": 0.5, "Water": 0.5, "Grass": 2, "Ice": 0.5, "Ground": 2, "Flying": 2, "Dragon": 2, "Steel": 0.5},
		"Fighting": {"Normal": 2, "Ice": 2, "Poison": 0.5, "Flying": 0.5, "Psychic": 0.5, "Bug": 0.5, "Rock": 2, "Ghost": 0, "Dark": 2, "Steel": 2, "Fairy": 0.5},
		"Poison":   {"Grass": 2, "Poison": 0.5, "Ground": 0.5, "Rock": 0.5, "Ghost": 0.5, "Steel": 0, "Fairy": 2},
		"Ground":   {"Fire": 2, "Electric": 2, "Grass": 0.5, "Poison": 2, "Flying": 0, "Bug": 0.5, "Rock": 2, "Steel": 2},
		"Flying":   {"Electric": 0.5, "Grass": 2, "Ice": 0.5, "Fighting": 2, "Bug": 2, "Rock": 0.5, "Steel": 0.5},
		"Psychic":  {"Fighting": 2, "Poison": 2, "Psychic": 0.5, "Dark": 0, "Steel": 0.5},
		"Bug":      {"Fire": 0.5, "Grass": 2, "Fighting": 0.5, "Poison": 0.5, "Flying": 0.5, "Psychic": 2, "Ghost": 0.5, "Dark": 2, "Steel": 0.5, "Fairy": 0.5},
		"Rock":     {"Fire": 2, "Ice": 2, "Fighting": 0.5, "Ground": 0.5, "Flying": 2, "Bug": 2, "Steel": 0.5},
		"Ghost":    {"Normal": 0, "Psychic": 2, "Ghost": 2, "Dark": 0.5},
		"Dragon":   {"Dragon": 2, "Steel": 0.5, "Fairy": 0},
		"Dark":     {"Fighting": 0.5, "Psychic": 2, "Ghost": 2, "Dark": 0.5, "Fairy": 0.5},
		"Steel":    {"Fire": 0.5, "Water": 0.5, "Electric": 0.5, "Ice": 2, "Rock": 2, "Steel": 0.5, "Fairy": 2},
		"Fairy":    {"Fire": 0.5, "Fighting": 2, "Poison": 0.5, "Dragon": 2, "Dark": 2, "Steel": 0.5},
	})
}
