package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ensureProfile returns the user's profile, creating an empty one if needed
func (s *Store) ensureProfile(ctx context.Context, userID string) (UserProfile, error) {
	profile := UserProfile{UserID: userID}
	if err := s.DB.WithContext(ctx).Where(UserProfile{UserID: userID}).FirstOrCreate(&profile).Error; err != nil {
		return UserProfile{}, fmt.Errorf("error loading profile: %w", err)
	}
	return profile, nil
}

// AwardCoins adds coins to a user's balance, creating the profile if needed
func (s *Store) AwardCoins(ctx context.Context, userID string, amount int) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&UserProfile{UserID: userID}).Error; err != nil {
			return fmt.Errorf("error creating profile: %w", err)
		}
		return tx.Model(&UserProfile{}).
			Where("user_id = ?", userID).
			Update("coins", gorm.Expr("coins + ?", amount)).Error
	})
	if err != nil {
		return fmt.Errorf("error awarding coins: %w", err)
	}

	s.Logger.Debug().Str("user_id", userID).Int("amount", amount).Msg("Coins awarded")
	return nil
}

// Coins returns a user's balance, creating an empty profile on first use
func (s *Store) Coins(ctx context.Context, userID string) (int, error) {
	profile, err := s.ensureProfile(ctx, userID)
	if err != nil {
		return 0, err
	}
	return profile.Coins, nil
}
