package battle

// Snapshot is a copy of everything the scene renderer draws
type Snapshot struct {
	User     Pokemon
	Boss     Pokemon
	BossName string
	Log      string
	Scene    Scene
	LastHit  *Hit
	Turn     int
	Outcome  Outcome
}

// Snapshot captures the current battle state
func (m *Manager) Snapshot() Snapshot {
	s := Snapshot{
		User:     *m.UserPokemon(),
		Boss:     *m.BossPokemon(),
		BossName: m.Boss.Name,
		Log:      m.LatestLog(),
		Scene:    m.scene,
		Turn:     m.TurnCount,
		Outcome:  m.outcome,
	}
	if m.lastHit != nil {
		hit := *m.lastHit
		s.LastHit = &hit
	}
	return s
}
