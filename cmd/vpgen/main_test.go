package main

import (
	"bytes"
	"errors"
	"testing"

	"holdwise/internal/config"
	"holdwise/internal/generator"
)

func TestParseFlagsUsesEnvDefaults(t *testing.T) {
	defaults := config.GeneratorConfig{
		Mode:            "agnostic",
		Output:          "agnostic.bin",
		Checkpoint:      "agnostic.checkpoint",
		CheckpointEvery: 500,
		BatchSize:       64,
		Paytable:        "9/6",
	}
	o, err := parseFlags([]string{"--threads", "3", "--limit", "1000"}, defaults, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if o.mode != "agnostic" || o.output != "agnostic.bin" || o.checkpointEvery != 500 {
		t.Fatalf("unexpected options: %+v", o)
	}
	if o.threads != 3 || o.limit != 1000 {
		t.Fatalf("unexpected options: %+v", o)
	}
}

func TestParseFlagsRequiresPaths(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseFlags([]string{"--mode", "strategy"}, config.GeneratorConfig{}, &stderr)
	if !errors.Is(err, generator.ErrMissingPath) {
		t.Fatalf("parseFlags() error = %v, want ErrMissingPath", err)
	}
	if stderr.Len() == 0 {
		t.Fatal("expected usage on stderr")
	}

	if _, err := parseFlags([]string{"--mode", "aggregate", "--output", "agg.bin"}, config.GeneratorConfig{}, &stderr); err != nil {
		t.Fatalf("aggregate mode without checkpoint: error = %v", err)
	}
}

func TestBuildConfigRejectsBadValues(t *testing.T) {
	base := options{mode: "strategy", output: "o.bin", checkpoint: "o.cp", paytable: "9/6"}

	bad := base
	bad.mode = "turbo"
	if _, _, err := buildConfig(bad, config.GeneratorConfig{}); !errors.Is(err, generator.ErrUnknownMode) {
		t.Fatalf("buildConfig(mode turbo) error = %v", err)
	}

	bad = base
	bad.paytable = "10/7"
	if _, _, err := buildConfig(bad, config.GeneratorConfig{}); err == nil {
		t.Fatal("buildConfig(unknown paytable) expected error")
	}

	bad = base
	bad.aggregate = "/nonexistent/aggregate.bin"
	if _, _, err := buildConfig(bad, config.GeneratorConfig{}); err == nil {
		t.Fatal("buildConfig(missing aggregate) expected error")
	}

	cfg, cleanup, err := buildConfig(base, config.GeneratorConfig{})
	if err != nil {
		t.Fatalf("buildConfig() error = %v", err)
	}
	defer cleanup()
	if cfg.Mode != generator.ModeStrategy || cfg.Schedule.Name != "9/6" || cfg.Ledger != nil {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestRunUsageExitCode(t *testing.T) {
	if code := run([]string{"--mode", "strategy"}, &bytes.Buffer{}); code != exitUsage {
		t.Fatalf("run() = %d, want %d", code, exitUsage)
	}
	if code := run([]string{"--output", "x", "--checkpoint", "y", "--mode", "turbo"}, &bytes.Buffer{}); code != exitUsage {
		t.Fatalf("run(bad mode) = %d, want %d", code, exitUsage)
	}
}
