package engine

import (
	"errors"

	"holdwise/internal/cards"
)

var (
	ErrInvalidHandSize        = cards.ErrInvalidHandSize
	ErrInvalidHoldCombination = cards.ErrInvalidHoldCombination
	ErrDuplicateCard          = cards.ErrDuplicateCard
	ErrInvalidCard            = cards.ErrInvalidCard
	ErrInvalidCoins           = errors.New("invalid_coins")
	ErrBaselineViolation      = errors.New("baseline_violation")
	ErrUnresolved             = errors.New("unresolved")
)
