package battle

import "errors"

var (
	ErrAlreadyBattling  = errors.New("user is already in a battle")
	ErrBattleOver       = errors.New("battle is already over")
	ErrInvalidMove      = errors.New("invalid move")
	ErrInvalidSwitch    = errors.New("invalid switch")
	ErrNotEnoughPokemon = errors.New("not enough pokemon to battle")
	ErrBattleNotFound   = errors.New("no active battle")
)
