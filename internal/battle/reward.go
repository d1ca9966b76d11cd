package battle

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Ledger persists what a won battle pays out
type Ledger interface {
	// AwardCoins adds coins to a user's profile, creating it if needed
	AwardCoins(ctx context.Context, userID string, amount int) error
	// RecordBossVictory advances the user's boss quest. It reports whether
	// the quest was completed by this win.
	RecordBossVictory(ctx context.Context, userID, target string) (bool, error)
}

// Reward is what a user received for a battle
type Reward struct {
	Coins          int
	QuestTarget    string
	QuestCompleted bool
}

// Rewarder grants battle rewards through a Ledger
type Rewarder struct {
	ledger Ledger
	log    zerolog.Logger
}

func NewRewarder(ledger Ledger, log zerolog.Logger) *Rewarder {
	return &Rewarder{ledger: ledger, log: log.With().Str("component", "rewards").Logger()}
}

// QuestTargetName maps a boss name to the name boss quests use
func QuestTargetName(bossName string) string {
	if !strings.Contains(bossName, "Gym Leader") {
		return bossName
	}
	short := strings.ReplaceAll(bossName, "Gym Leader ", "")
	if short == "Surge" {
		return "Lt. Surge"
	}
	return short
}

// Grant pays out a finished battle. Only victories are rewarded. A failing
// quest update is logged and does not fail the grant.
func (r *Rewarder) Grant(ctx context.Context, m *Manager) (Reward, error) {
	if m.Outcome() != Victory {
		return Reward{}, nil
	}

	log := r.log.With().Str("user_id", m.UserID).Str("boss", m.Boss.Name).Logger()
	reward := Reward{Coins: m.Boss.RewardCredits, QuestTarget: QuestTargetName(m.Boss.Name)}

	if err := r.ledger.AwardCoins(ctx, m.UserID, reward.Coins); err != nil {
		log.Error().Err(err).Msg("Error awarding credits")
		return Reward{}, fmt.Errorf("error awarding credits: %w", err)
	}

	completed, err := r.ledger.RecordBossVictory(ctx, m.UserID, reward.QuestTarget)
	if err != nil {
		log.Error().Err(err).Msg("Error updating quest progress")
	}
	reward.QuestCompleted = completed

	log.Info().
		Int("coins", reward.Coins).
		Bool("quest_completed", completed).
		Msg("Battle reward granted")
	return reward, nil
}
