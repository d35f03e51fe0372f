package generator

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckpointRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.checkpoint")
	if _, ok, err := LoadCheckpoint(path); err != nil || ok {
		t.Fatalf("LoadCheckpoint(missing) = ok %v, err %v", ok, err)
	}

	want := Checkpoint{Mode: "strategy", Paytable: "9/6", NextHandIndex: 2048, WrittenRecords: 2048, CalculationsDone: 311}
	if err := SaveCheckpoint(path, want); err != nil {
		t.Fatalf("SaveCheckpoint() error = %v", err)
	}
	got, ok, err := LoadCheckpoint(path)
	if err != nil || !ok {
		t.Fatalf("LoadCheckpoint() = ok %v, err %v", ok, err)
	}
	if got.UpdatedAtUnix == 0 {
		t.Fatal("UpdatedAtUnix not set")
	}
	got.UpdatedAtUnix = 0
	if got != want {
		t.Fatalf("LoadCheckpoint() = %+v, want %+v", got, want)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("found %d files after save, want only the checkpoint", len(entries))
	}
}

func TestLoadCheckpointRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.checkpoint")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, _, err := LoadCheckpoint(path); err == nil {
		t.Fatal("LoadCheckpoint() expected error, got nil")
	}
}
