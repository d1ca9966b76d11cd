package battle

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hunterjsb/pokebot/internal/pokedata"
)

// Side identifies one half of a battle
type Side int

const (
	SideUser Side = iota
	SideBoss
)

func (s Side) String() string {
	if s == SideBoss {
		return "boss"
	}
	return "user"
}

// ActionKind is what the user chose to do this turn
type ActionKind int

const (
	ActionMove ActionKind = iota
	ActionSwitch
)

// Action is a user's turn choice. Index is a move slot for ActionMove and a
// team slot for ActionSwitch.
type Action struct {
	Kind  ActionKind
	Index int
}

func UseMove(index int) Action  { return Action{Kind: ActionMove, Index: index} }
func SwitchTo(index int) Action { return Action{Kind: ActionSwitch, Index: index} }

// Outcome is the state of a battle
type Outcome int

const (
	Ongoing Outcome = iota
	Victory
	Defeat
	Fled
)

func (o Outcome) String() string {
	switch o {
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	case Fled:
		return "fled"
	}
	return "ongoing"
}

// Hit records the last move that landed, for the scene's move effect
type Hit struct {
	Target   Side
	MoveType string
	Damage   int
}

// Options tune a battle
type Options struct {
	Rand         *rand.Rand
	Logger       zerolog.Logger
	ApplyNatures bool
	MinTeamSize  int
	StartedAt    time.Time
}

// Manager runs a single battle between a user's team and a boss team
type Manager struct {
	UserID   string
	Boss     pokedata.Boss
	UserTeam []*Pokemon
	BossTeam []*Pokemon

	UserActive int
	BossActive int
	Log        []string
	TurnCount  int

	StartedAt time.Time

	scene   Scene
	outcome Outcome
	lastHit *Hit

	userLine string
	bossLine string

	chart pokedata.TypeChart
	moves *pokedata.Moves
	rng   *rand.Rand
	log   zerolog.Logger
}

// NewManager builds the battle state for userID against boss
func NewManager(userID string, boss pokedata.Boss, team []Owned, data *pokedata.Data, opts Options) (*Manager, error) {
	minSize := max(opts.MinTeamSize, 1)
	if len(team) < minSize {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrNotEnoughPokemon, minSize, len(team))
	}
	if len(boss.Team) == 0 {
		return nil, fmt.Errorf("%w: boss %q has no team", ErrNotEnoughPokemon, boss.Name)
	}

	rng := opts.Rand
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>1))
	}
	started := opts.StartedAt
	if started.IsZero() {
		started = time.Now()
	}

	m := &Manager{
		UserID:    userID,
		Boss:      boss,
		StartedAt: started,
		chart:     data.Chart,
		moves:     data.Moves,
		rng:       rng,
		log:       opts.Logger.With().Str("component", "battle").Str("user_id", userID).Str("boss", boss.Name).Logger(),
	}
	for _, o := range team {
		m.UserTeam = append(m.UserTeam, NewUserPokemon(data, o, opts.ApplyNatures))
	}
	for _, member := range boss.Team {
		m.BossTeam = append(m.BossTeam, NewBossPokemon(data, member))
	}
	m.scene = chooseScene(boss.Name, rng)

	m.log.Info().
		Str("environment", m.scene.Environment).
		Str("weather", m.scene.Weather).
		Int("team_size", len(m.UserTeam)).
		Msg("Battle started")

	return m, nil
}

// UserPokemon returns the user's active creature
func (m *Manager) UserPokemon() *Pokemon { return m.UserTeam[m.UserActive] }

// BossPokemon returns the boss's active creature
func (m *Manager) BossPokemon() *Pokemon { return m.BossTeam[m.BossActive] }

func (m *Manager) Scene() Scene { return m.scene }

func (m *Manager) Outcome() Outcome { return m.outcome }

func (m *Manager) Over() bool { return m.outcome != Ongoing }

// LastHit is the most recent move used this battle, or nil
func (m *Manager) LastHit() *Hit { return m.lastHit }

// LatestLog returns the newest log entry
func (m *Manager) LatestLog() string {
	if len(m.Log) == 0 {
		return "Battle started!"
	}
	return m.Log[len(m.Log)-1]
}

// SwitchOptions lists the team slots the user may switch to
func (m *Manager) SwitchOptions() []int {
	var out []int
	for i, p := range m.UserTeam {
		if i != m.UserActive && !p.Fainted {
			out = append(out, i)
		}
	}
	return out
}

func (m *Manager) validate(a Action) error {
	if m.Over() {
		return ErrBattleOver
	}
	switch a.Kind {
	case ActionMove:
		if a.Index < 0 || a.Index >= len(m.UserPokemon().Moves) {
			return fmt.Errorf("%w: slot %d", ErrInvalidMove, a.Index)
		}
	case ActionSwitch:
		if a.Index < 0 || a.Index >= len(m.UserTeam) {
			return fmt.Errorf("%w: slot %d out of range", ErrInvalidSwitch, a.Index)
		}
		if a.Index == m.UserActive {
			return fmt.Errorf("%w: %s is already in battle", ErrInvalidSwitch, m.UserTeam[a.Index].DisplayName())
		}
		if m.UserTeam[a.Index].Fainted {
			return fmt.Errorf("%w: %s has fainted", ErrInvalidSwitch, m.UserTeam[a.Index].DisplayName())
		}
	default:
		return fmt.Errorf("%w: unknown action", ErrInvalidMove)
	}
	return nil
}

type queued struct {
	side   Side
	action Action
	move   pokedata.MoveInfo
	actor  *Pokemon
}

// ProcessTurn resolves one full turn: the user's action plus a random boss
// move. Switching always goes first; otherwise the faster creature moves
// first and ties go to the user.
func (m *Manager) ProcessTurn(a Action) (Outcome, error) {
	if err := m.validate(a); err != nil {
		return m.outcome, err
	}

	userMon := m.UserPokemon()
	bossMon := m.BossPokemon()

	user := queued{side: SideUser, action: a, actor: userMon}
	if a.Kind == ActionMove {
		user.move = userMon.Moves[a.Index]
	}
	boss := queued{
		side:   SideBoss,
		action: UseMove(0),
		move:   bossMon.Moves[m.rng.IntN(len(bossMon.Moves))],
		actor:  bossMon,
	}

	first, second := user, boss
	if a.Kind == ActionMove && userMon.Speed < bossMon.Speed {
		first, second = boss, user
	}

	m.execute(first)
	if m.checkFainted() {
		return m.outcome, nil
	}

	if second.action.Kind == ActionMove && second.actor.Fainted {
		m.Log = append(m.Log, fmt.Sprintf("%s fainted before it could use %s!", second.actor.DisplayName(), second.move.Name))
	} else {
		m.execute(second)
		if m.checkFainted() {
			return m.outcome, nil
		}
	}

	m.endTurn()
	return m.outcome, nil
}

func (m *Manager) execute(q queued) {
	if q.action.Kind == ActionSwitch {
		m.UserActive = q.action.Index
		m.userLine = fmt.Sprintf("Go! %s!", m.UserPokemon().DisplayName())
		m.log.Debug().Str("pokemon", m.UserPokemon().Name).Msg("User switched")
		return
	}

	attacker, defender, target := m.UserPokemon(), m.BossPokemon(), SideBoss
	if q.side == SideBoss {
		attacker, defender, target = m.BossPokemon(), m.UserPokemon(), SideUser
	}

	damage, effectiveness := m.CalculateDamage(attacker, defender, q.move)
	defender.TakeDamage(damage)
	m.lastHit = &Hit{Target: target, MoveType: q.move.Type, Damage: damage}

	line := fmt.Sprintf("%s used %s! Dealt %d damage.%s", attacker.DisplayName(), q.move.Name, damage, EffectivenessText(effectiveness))
	if q.side == SideUser {
		m.userLine = line
	} else {
		m.bossLine = line
	}
}

// checkFainted forces a switch on any side whose active creature fainted.
// It returns true when the battle ended.
func (m *Manager) checkFainted() bool {
	if m.UserPokemon().Fainted {
		next := firstAlive(m.UserTeam)
		if next < 0 {
			m.finish(Defeat)
			return true
		}
		m.UserActive = next
		m.Log = append(m.Log, fmt.Sprintf("Go! %s!", m.UserPokemon().DisplayName()))
	}

	if m.BossPokemon().Fainted {
		next := firstAlive(m.BossTeam)
		if next < 0 {
			m.finish(Victory)
			return true
		}
		m.BossActive = next
		m.Log = append(m.Log, fmt.Sprintf("%s sent out %s!", m.Boss.Name, m.BossPokemon().Name))
	}
	return false
}

func (m *Manager) endTurn() {
	var lines []string
	if m.userLine != "" {
		lines = append(lines, m.userLine)
	}
	if m.bossLine != "" {
		lines = append(lines, m.bossLine)
	}
	if len(lines) > 0 {
		m.Log = append(m.Log, strings.Join(lines, "\n"))
	}
	m.userLine, m.bossLine = "", ""
	m.TurnCount++
}

func (m *Manager) finish(o Outcome) {
	m.endTurn()
	m.outcome = o
	m.log.Info().
		Str("outcome", o.String()).
		Int("turns", m.TurnCount).
		Msg("Battle finished")
}

// Flee ends the battle without a reward
func (m *Manager) Flee() error {
	if m.Over() {
		return ErrBattleOver
	}
	m.outcome = Fled
	m.log.Info().Int("turns", m.TurnCount).Msg("User fled")
	return nil
}
