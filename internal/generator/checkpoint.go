package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Checkpoint marks how much of the output is durable. Every record before
// NextHandIndex has been written and synced.
type Checkpoint struct {
	Mode             string `json:"mode"`
	Paytable         string `json:"paytable,omitempty"`
	NextHandIndex    int64  `json:"next_hand_index"`
	WrittenRecords   int64  `json:"written_records"`
	CalculationsDone int64  `json:"calculations_done"`
	UpdatedAtUnix    int64  `json:"updated_at_unix"`
}

// LoadCheckpoint reads a checkpoint; ok is false when none exists.
func LoadCheckpoint(path string) (cp Checkpoint, ok bool, err error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Checkpoint{}, false, nil
	}
	if err != nil {
		return Checkpoint{}, false, err
	}
	if err := json.Unmarshal(b, &cp); err != nil {
		return Checkpoint{}, false, fmt.Errorf("parse checkpoint %q: %w", path, err)
	}
	return cp, true, nil
}

// SaveCheckpoint replaces the checkpoint atomically.
func SaveCheckpoint(path string, cp Checkpoint) error {
	cp.UpdatedAtUnix = time.Now().Unix()
	b, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(b, '\n')); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	metricCheckpoints.Add(1)
	return nil
}
