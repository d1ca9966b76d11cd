package pokedata

import (
	"strconv"
	"strings"
)

// bulbasaur is the last-resort species when a lookup fails everywhere
var bulbasaur = Species{
	ID:    1,
	Name:  "Bulbasaur",
	Types: []string{"Grass", "Poison"},
	Stats: BaseStats{HP: 45, Attack: 49, Defense: 49, SpAttack: 65, SpDefense: 65, Speed: 45},
}

// Dex is the merged pokedex (base entries plus custom species)
type Dex struct {
	byID   map[int]Species
	byName map[string]Species
}

// NewDex builds a Dex from entries keyed by their pokedex id string.
// Entries whose key is not numeric fall back to the entry's own id field.
func NewDex(entries map[string]Species) *Dex {
	d := &Dex{
		byID:   make(map[int]Species, len(entries)),
		byName: make(map[string]Species, len(entries)),
	}
	for key, sp := range entries {
		d.add(key, sp)
	}
	return d
}

func (d *Dex) add(key string, sp Species) {
	id := sp.ID
	if n, err := strconv.Atoi(key); err == nil {
		if id == 0 {
			id = n
			sp.ID = n
		}
		d.byID[n] = sp
	}
	if id != 0 {
		d.byID[id] = sp
	}
	if sp.Name != "" {
		d.byName[strings.ToLower(sp.Name)] = sp
	}
}

// Merge overlays custom entries on top of the current dex
func (d *Dex) Merge(entries map[string]Species) {
	for key, sp := range entries {
		d.add(key, sp)
	}
}

// Len returns the number of distinct species names
func (d *Dex) Len() int {
	return len(d.byName)
}

// ByName finds a species by case-insensitive name
func (d *Dex) ByName(name string) (Species, bool) {
	sp, ok := d.byName[strings.ToLower(strings.TrimSpace(name))]
	return sp, ok
}

// ByID finds a species by pokedex id
func (d *Dex) ByID(id int) (Species, bool) {
	sp, ok := d.byID[id]
	return sp, ok
}

// Resolve looks a species up by name, then id, then falls back to Bulbasaur.
// It never fails.
func (d *Dex) Resolve(name string, id int) Species {
	if sp, ok := d.ByName(name); ok {
		return sp
	}
	if sp, ok := d.ByID(id); ok {
		return sp
	}
	if sp, ok := d.ByID(1); ok {
		return sp
	}
	return bulbasaur
}

// TypesOf returns a species' types, defaulting to Normal when unknown
func (d *Dex) TypesOf(name string, id int) []string {
	if sp, ok := d.ByName(name); ok && len(sp.Types) > 0 {
		return sp.Types
	}
	if sp, ok := d.ByID(id); ok && len(sp.Types) > 0 {
		return sp.Types
	}
	return []string{"Normal"}
}

// SpriteID returns the pokedex id used for sprites, preferring the name lookup
func (d *Dex) SpriteID(name string, fallback int) int {
	if sp, ok := d.ByName(name); ok && sp.ID != 0 {
		return sp.ID
	}
	return fallback
}
