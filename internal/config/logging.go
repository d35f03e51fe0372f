package config

import "github.com/caarlos0/env/v11"

// LogConfig is shared by every binary.
type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty      bool   `env:"LOG_PRETTY" envDefault:"false"`
	SampleEvery int    `env:"LOG_SAMPLE_EVERY" envDefault:"0"`
	// File, when set, receives a copy of every log line.
	File       string `env:"LOG_FILE"`
	MaxMB      int    `env:"LOG_MAX_MB" envDefault:"10"`
	KeepBackup bool   `env:"LOG_KEEP_BACKUP" envDefault:"true"`
}

func LoadLog() (LogConfig, error) {
	var cfg LogConfig
	if err := env.Parse(&cfg); err != nil {
		return LogConfig{}, err
	}
	if cfg.SampleEvery < 0 {
		cfg.SampleEvery = 0
	}
	return cfg, nil
}
