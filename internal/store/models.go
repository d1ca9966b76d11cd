package store

import (
	"time"

	"github.com/hunterjsb/pokebot/internal/battle"
	"gorm.io/datatypes"
)

// UserProfile is a user's wallet
type UserProfile struct {
	UserID    string `gorm:"primaryKey"`
	Coins     int    `gorm:"not null;default:0"`
	Diamonds  int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedPokemon is a creature in a user's collection. Number is the
// per-user position shown in listings and used to pick battle teams.
type OwnedPokemon struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"uniqueIndex:idx_owner_number;not null"`
	Number    int    `gorm:"uniqueIndex:idx_owner_number;not null"`
	PokemonID int
	Name      string
	Nickname  string
	Level     int
	Nature    string
	Shiny     bool
	IVs       datatypes.JSONType[battle.IVs]
	Moves     datatypes.JSONSlice[string]
	CreatedAt time.Time
}

// Owned converts the row into the battle representation
func (p OwnedPokemon) Owned() battle.Owned {
	return battle.Owned{
		PokemonID: p.PokemonID,
		Name:      p.Name,
		Nickname:  p.Nickname,
		Level:     p.Level,
		Nature:    p.Nature,
		Shiny:     p.Shiny,
		IVs:       p.IVs.Data(),
		Moves:     []string(p.Moves),
	}
}

// BossQuest is a user's daily "defeat this boss" quest
type BossQuest struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"uniqueIndex:idx_quest_day;not null"`
	Day       string `gorm:"uniqueIndex:idx_quest_day;not null"`
	Target    string `gorm:"not null"`
	Progress  int
	Completed bool
	Reward    int
	UpdatedAt time.Time
}

// BossWin counts quest-credited boss wins per day
type BossWin struct {
	ID     uint   `gorm:"primaryKey"`
	UserID string `gorm:"uniqueIndex:idx_boss_win_day;not null"`
	Boss   string `gorm:"uniqueIndex:idx_boss_win_day;not null"`
	Day    string `gorm:"uniqueIndex:idx_boss_win_day;not null"`
	Wins   int    `gorm:"not null;default:0"`
}

// Models lists every table the store migrates
var Models = []interface{}{
	&UserProfile{},
	&OwnedPokemon{},
	&BossQuest{},
	&BossWin{},
}
