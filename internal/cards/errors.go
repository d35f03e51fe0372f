package cards

import "errors"

var (
	ErrInvalidCard            = errors.New("invalid_card")
	ErrInvalidHandSize        = errors.New("invalid_hand_size")
	ErrDuplicateCard          = errors.New("duplicate_card")
	ErrInvalidHoldCombination = errors.New("invalid_hold_combination")
)
