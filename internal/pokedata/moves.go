package pokedata

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// TitleType normalises a type name for display ("fire" -> "Fire")
func TitleType(t string) string {
	if t == "" {
		return "Normal"
	}
	return titleCaser.String(strings.ToLower(t))
}

// DefaultMove is used for move names missing from the moves table
func DefaultMove(name string) MoveInfo {
	return MoveInfo{Name: name, Type: "Normal", Power: 40, Accuracy: 100, PP: 35}
}

var tackle = MoveInfo{Name: "Tackle", Type: "Normal", Power: 40, Accuracy: 100, PP: 35, DamageClass: "physical"}

// Moves is the moves table keyed by its file key
type Moves struct {
	byKey  map[string]MoveInfo
	byName map[string]MoveInfo
}

func normaliseMoveName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", " ")
}

func newMoves(raw map[string]rawMove) *Moves {
	m := &Moves{
		byKey:  make(map[string]MoveInfo, len(raw)),
		byName: make(map[string]MoveInfo, len(raw)),
	}
	for key, r := range raw {
		info := MoveInfo{
			Name:        r.Name,
			Type:        TitleType(r.Type),
			Power:       0,
			Accuracy:    100,
			PP:          35,
			DamageClass: strings.ToLower(r.DamageClass),
		}
		// Status moves have null power
		if r.Power != nil {
			info.Power = *r.Power
		}
		if r.Accuracy != nil {
			info.Accuracy = *r.Accuracy
		}
		if r.PP != nil {
			info.PP = *r.PP
		}
		if info.Name == "" {
			info.Name = key
		}
		m.byKey[key] = info
		m.byName[normaliseMoveName(info.Name)] = info
	}
	return m
}

// NewMoves builds a table from resolved moves, keyed by their names
func NewMoves(moves ...MoveInfo) *Moves {
	m := &Moves{
		byKey:  make(map[string]MoveInfo, len(moves)),
		byName: make(map[string]MoveInfo, len(moves)),
	}
	for _, info := range moves {
		info.Type = TitleType(info.Type)
		m.byKey[info.Name] = info
		m.byName[normaliseMoveName(info.Name)] = info
	}
	return m
}

// Len returns the number of moves in the table
func (m *Moves) Len() int {
	if m == nil {
		return 0
	}
	return len(m.byKey)
}

// Find looks a move up by exact key, then by name ignoring case and dashes
func (m *Moves) Find(name string) (MoveInfo, bool) {
	if m == nil {
		return MoveInfo{}, false
	}
	if info, ok := m.byKey[name]; ok {
		return info, true
	}
	info, ok := m.byName[normaliseMoveName(name)]
	return info, ok
}

// Lookup resolves a move for battle. The returned move keeps the caller's
// spelling of the name; unknown moves become a generic Normal attack.
func (m *Moves) Lookup(name string) MoveInfo {
	info, ok := m.Find(name)
	if !ok {
		return DefaultMove(name)
	}
	info.Name = name
	return info
}

// DamageClassOf returns the damage class recorded for a move, or "" when unknown
func (m *Moves) DamageClassOf(name string) string {
	info, ok := m.Find(name)
	if !ok {
		return ""
	}
	return info.DamageClass
}

// Tackle returns Tackle from the table, falling back to the built-in definition
func (m *Moves) Tackle() MoveInfo {
	info, ok := m.Find("tackle")
	if !ok {
		return tackle
	}
	if info.Power == 0 {
		info.Power = 40
	}
	info.Name = "Tackle"
	return info
}

// OfType lists the damaging moves of a type, strongest first
func (m *Moves) OfType(t string) []MoveInfo {
	if m == nil {
		return nil
	}
	var out []MoveInfo
	for _, info := range m.byKey {
		if info.Power > 0 && strings.EqualFold(info.Type, t) {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Power != out[j].Power {
			return out[i].Power > out[j].Power
		}
		return out[i].Name < out[j].Name
	})
	return out
}
