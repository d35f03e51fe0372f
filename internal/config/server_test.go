package config

import "testing"

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.Paytable != "9/6" {
		t.Fatalf("Paytable = %q, want 9/6", cfg.Paytable)
	}
	if cfg.Coins != 5 {
		t.Fatalf("Coins = %d, want 5", cfg.Coins)
	}
	if cfg.StrategyTableFormat != "strategy" {
		t.Fatalf("StrategyTableFormat = %q, want strategy", cfg.StrategyTableFormat)
	}
	if cfg.AggregateTablePath != "" {
		t.Fatalf("AggregateTablePath = %q, want empty", cfg.AggregateTablePath)
	}
}

func TestLoadServerParseTypes(t *testing.T) {
	t.Setenv("COINS", "1")
	t.Setenv("EV_CACHE_MAX", "10")
	t.Setenv("AGGREGATE_TABLE_PATH", "/data/aggregate.bin")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.Coins != 1 {
		t.Fatalf("Coins = %d, want 1", cfg.Coins)
	}
	if cfg.EVCacheMax != 10 {
		t.Fatalf("EVCacheMax = %d, want 10", cfg.EVCacheMax)
	}
	if cfg.AggregateTablePath != "/data/aggregate.bin" {
		t.Fatalf("AggregateTablePath = %q", cfg.AggregateTablePath)
	}
}

func TestLoadServerRejectsBadInt(t *testing.T) {
	t.Setenv("COINS", "five")

	if _, err := LoadServer(); err == nil {
		t.Fatal("LoadServer() expected error, got nil")
	}
}
