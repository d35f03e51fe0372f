package config

import "github.com/caarlos0/env/v11"

// GeneratorConfig supplies the defaults for vpgen's flags.
type GeneratorConfig struct {
	Output          string `env:"VPGEN_OUTPUT"`
	Checkpoint      string `env:"VPGEN_CHECKPOINT"`
	Threads         int    `env:"VPGEN_THREADS" envDefault:"0"`
	CheckpointEvery int    `env:"VPGEN_CHECKPOINT_EVERY" envDefault:"10000"`
	Mode            string `env:"VPGEN_MODE" envDefault:"strategy"`
	Aggregate       string `env:"VPGEN_AGGREGATE"`
	Paytable        string `env:"VPGEN_PAYTABLE" envDefault:"9/6"`
	BatchSize       int    `env:"VPGEN_BATCH_SIZE" envDefault:"512"`

	PostgresDSN string `env:"POSTGRES_DSN"`
}

func LoadGenerator() (GeneratorConfig, error) {
	var cfg GeneratorConfig
	err := env.Parse(&cfg)
	return cfg, err
}
