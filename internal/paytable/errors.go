package paytable

import "errors"

var (
	ErrInvalidSchedule = errors.New("invalid_schedule")
	ErrUnknownSchedule = errors.New("unknown_schedule")
	ErrUnnamed         = errors.New("unnamed_schedule")
)
