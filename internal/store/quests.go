package store

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuestReward is the coin value of a completed boss quest
const QuestReward = 500

// Quests roll over at midnight GMT+2
var questZone = time.FixedZone("GMT+2", 2*60*60)

func (s *Store) questDay() string {
	return s.now().In(questZone).Format("2006-01-02")
}

// setBossQuest assigns today's boss quest, resetting any progress
func (s *Store) setBossQuest(ctx context.Context, userID, target string) (BossQuest, error) {
	quest := BossQuest{UserID: userID, Day: s.questDay(), Target: target, Reward: QuestReward}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"target": target, "progress": 0, "completed": false}),
	}).Create(&quest).Error
	if err != nil {
		return BossQuest{}, fmt.Errorf("error setting boss quest: %w", err)
	}
	return s.todaysQuest(ctx, userID)
}

// DailyBossQuest returns today's boss quest, generating it from candidates
// when the user has none. Every user gets the same target on a given day.
func (s *Store) DailyBossQuest(ctx context.Context, userID string, candidates []string) (BossQuest, error) {
	quest, err := s.todaysQuest(ctx, userID)
	if err == nil {
		return quest, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return BossQuest{}, err
	}
	if len(candidates) == 0 {
		return BossQuest{}, fmt.Errorf("no bosses available for quests")
	}

	day := s.questDay()
	h := fnv.New32a()
	h.Write([]byte(day))
	target := candidates[h.Sum32()%uint32(len(candidates))]

	quest = BossQuest{UserID: userID, Day: day, Target: target, Reward: QuestReward}
	if err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&quest).Error; err != nil {
		return BossQuest{}, fmt.Errorf("error creating boss quest: %w", err)
	}
	s.Logger.Debug().Str("user_id", userID).Str("target", target).Str("day", day).Msg("Generated boss quest")
	return s.todaysQuest(ctx, userID)
}

func (s *Store) todaysQuest(ctx context.Context, userID string) (BossQuest, error) {
	var quest BossQuest
	err := s.DB.WithContext(ctx).Where("user_id = ? AND day = ?", userID, s.questDay()).First(&quest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BossQuest{}, err
		}
		return BossQuest{}, fmt.Errorf("error loading boss quest: %w", err)
	}
	return quest, nil
}

// RecordBossVictory completes today's boss quest when target matches it and
// counts the win. It reports whether a quest was completed.
func (s *Store) RecordBossVictory(ctx context.Context, userID, target string) (bool, error) {
	day := s.questDay()
	completed := false

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quest BossQuest
		err := tx.Where("user_id = ? AND day = ?", userID, day).First(&quest).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if quest.Target != target || quest.Completed {
			s.Logger.Debug().
				Str("user_id", userID).
				Str("target", quest.Target).
				Str("received", target).
				Bool("completed", quest.Completed).
				Msg("Boss quest not advanced")
			return nil
		}

		quest.Progress = 1
		quest.Completed = true
		if err := tx.Save(&quest).Error; err != nil {
			return err
		}

		win := BossWin{UserID: userID, Boss: target, Day: day, Wins: 1}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "boss"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"wins": gorm.Expr("boss_wins.wins + 1")}),
		}).Create(&win).Error
		if err != nil {
			return err
		}

		completed = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("error recording boss victory: %w", err)
	}
	return completed, nil
}

// BossWins returns today's credited wins against a boss
func (s *Store) BossWins(ctx context.Context, userID, boss string) (int, error) {
	var win BossWin
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND boss = ? AND day = ?", userID, boss, s.questDay()).
		Limit(1).
		Find(&win).Error
	if err != nil {
		return 0, fmt.Errorf("error loading boss wins: %w", err)
	}
	return win.Wins, nil
}
