package main

import (
	"testing"

	"holdwise/internal/config"
)

func TestNewEngineWithoutTables(t *testing.T) {
	cfg := config.ServerConfig{
		Paytable:              "8/5",
		StrategyTableFormat:   "legacy",
		StrategyTablePaytable: "9/6",
		StrategyTablePath:     "/nonexistent/strategy.bin",
		Coins:                 1,
		EVCacheMax:            10,
		TemplateCacheMax:      10,
	}
	e, loaded, err := newEngine(cfg)
	if err != nil {
		t.Fatalf("newEngine() error = %v", err)
	}
	defer loaded.Close()
	if loaded.Strategy != nil {
		t.Fatal("missing strategy table should be skipped")
	}
	if e.Schedule().Name != "8/5" || e.Coins() != 1 {
		t.Fatalf("engine = %s/%d", e.Schedule().Name, e.Coins())
	}
}

func TestNewEngineRejectsUnknownPaytable(t *testing.T) {
	cfg := config.ServerConfig{Paytable: "10/7", StrategyTableFormat: "strategy", StrategyTablePaytable: "9/6"}
	if _, _, err := newEngine(cfg); err == nil {
		t.Fatal("newEngine() expected error, got nil")
	}
}
