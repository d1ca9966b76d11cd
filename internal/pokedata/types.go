package pokedata

// BaseStats holds a species' base stat line as stored in the pokedex file
type BaseStats struct {
	HP        int `json:"hp"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	SpAttack  int `json:"special-attack"`
	SpDefense int `json:"special-defense"`
	Speed     int `json:"speed"`
}

// Species is one pokedex entry
type Species struct {
	ID    int       `json:"id"`
	Name  string    `json:"name"`
	Types []string  `json:"types"`
	Stats BaseStats `json:"stats"`
}

// MoveInfo describes a move as used in battle
type MoveInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Power       int    `json:"power"`
	Accuracy    int    `json:"accuracy"`
	PP          int    `json:"pp"`
	DamageClass string `json:"damage_class,omitempty"`
}

// rawMove mirrors moves_data.json, where status moves carry null power/accuracy
type rawMove struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Power       *int   `json:"power"`
	Accuracy    *int   `json:"accuracy"`
	PP          *int   `json:"pp"`
	DamageClass string `json:"damage_class"`
}

// BossStats are the fixed, precomputed stats of a boss team member
type BossStats struct {
	HP        int `json:"hp"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	SpAttack  int `json:"sp_attack"`
	SpDefense int `json:"sp_defense"`
	Speed     int `json:"speed"`
}

// BossMember is one creature on a boss team
type BossMember struct {
	PokemonID int        `json:"pokemon_id"`
	Name      string     `json:"name"`
	Level     int        `json:"level"`
	Nature    string     `json:"nature"`
	Ability   string     `json:"ability"`
	Shiny     bool       `json:"shiny,omitempty"`
	Stats     BossStats  `json:"stats"`
	Moves     []MoveInfo `json:"moves"`
}

// Boss is a non-player opponent defined in boss_data.json
type Boss struct {
	Key           string       `json:"-"`
	Name          string       `json:"name"`
	Title         string       `json:"title"`
	RewardCredits int          `json:"reward_credits"`
	Team          []BossMember `json:"team"`
}
