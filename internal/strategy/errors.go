package strategy

import "errors"

var (
	ErrUnknownFormat = errors.New("unknown_table_format")
	ErrBadSize       = errors.New("table_bad_size")
	ErrWrongFormat   = errors.New("table_wrong_format")
)
