package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const runIDPrefix = "run_"

// NewRunID returns a prefixed ULID. Ids sort in creation order, also within
// one millisecond.
func NewRunID() string {
	return runIDPrefix + ulid.Make().String()
}

// RunIDTime recovers the creation time encoded in a run id.
func RunIDTime(id string) (time.Time, error) {
	raw, ok := strings.CutPrefix(id, runIDPrefix)
	if !ok {
		return time.Time{}, fmt.Errorf("run id %q: missing %s prefix", id, runIDPrefix)
	}
	u, err := ulid.ParseStrict(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("run id %q: %w", id, err)
	}
	return ulid.Time(u.Time()), nil
}
