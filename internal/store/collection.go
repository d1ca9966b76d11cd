package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/hunterjsb/pokebot/internal/battle"
	"gorm.io/gorm"
)

// ErrPokemonNotFound is returned when a user does not own a requested number
var ErrPokemonNotFound = errors.New("pokemon not found")

// AddPokemon stores a creature. A zero Number is assigned the user's next number.
func (s *Store) AddPokemon(ctx context.Context, p *OwnedPokemon) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.Number == 0 {
			var last int
			err := tx.Model(&OwnedPokemon{}).
				Where("user_id = ?", p.UserID).
				Select("COALESCE(MAX(number), 0)").
				Scan(&last).Error
			if err != nil {
				return err
			}
			p.Number = last + 1
		}
		return tx.Create(p).Error
	})
	if err != nil {
		return fmt.Errorf("error adding pokemon: %w", err)
	}
	return nil
}

// Collection lists a user's creatures ordered by number
func (s *Store) Collection(ctx context.Context, userID string) ([]OwnedPokemon, error) {
	var rows []OwnedPokemon
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("number").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("error loading collection: %w", err)
	}
	return rows, nil
}

// Team loads a battle team. With no numbers the user's first size creatures
// are used; otherwise the numbers are loaded in the order given.
func (s *Store) Team(ctx context.Context, userID string, numbers []int, size int) ([]battle.Owned, error) {
	var rows []OwnedPokemon
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)

	if len(numbers) == 0 {
		if err := q.Order("number").Limit(size).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("error loading team: %w", err)
		}
		if len(rows) < size {
			return nil, fmt.Errorf("%w: need %d, have %d", battle.ErrNotEnoughPokemon, size, len(rows))
		}
		return toOwned(rows), nil
	}

	if len(numbers) < size {
		return nil, fmt.Errorf("%w: need %d, picked %d", battle.ErrNotEnoughPokemon, size, len(numbers))
	}
	seen := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		if seen[n] {
			return nil, fmt.Errorf("pokemon #%d selected twice", n)
		}
		seen[n] = true
	}

	if err := q.Where("number IN ?", numbers).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("error loading team: %w", err)
	}
	byNumber := make(map[int]OwnedPokemon, len(rows))
	for _, r := range rows {
		byNumber[r.Number] = r
	}

	ordered := make([]OwnedPokemon, 0, len(numbers))
	for _, n := range numbers {
		r, ok := byNumber[n]
		if !ok {
			return nil, fmt.Errorf("%w: #%d", ErrPokemonNotFound, n)
		}
		ordered = append(ordered, r)
	}
	return toOwned(ordered), nil
}

func toOwned(rows []OwnedPokemon) []battle.Owned {
	team := make([]battle.Owned, 0, len(rows))
	for _, r := range rows {
		team = append(team, r.Owned())
	}
	return team
}
