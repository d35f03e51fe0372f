package aggregate

import "errors"

var (
	ErrBadMagic           = errors.New("aggregate_bad_magic")
	ErrUnsupportedVersion = errors.New("aggregate_unsupported_version")
	ErrTruncated          = errors.New("aggregate_truncated")
	ErrCorrupt            = errors.New("aggregate_corrupt")
)
