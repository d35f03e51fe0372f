package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	AdminAPIKey string `env:"ADMIN_API_KEY"`

	AggregateTablePath    string `env:"AGGREGATE_TABLE_PATH"`
	AgnosticTablePath     string `env:"AGNOSTIC_TABLE_PATH"`
	StrategyTablePath     string `env:"STRATEGY_TABLE_PATH"`
	StrategyTableFormat   string `env:"STRATEGY_TABLE_FORMAT" envDefault:"strategy"`
	StrategyTablePaytable string `env:"STRATEGY_TABLE_PAYTABLE" envDefault:"9/6"`

	Paytable         string `env:"PAYTABLE" envDefault:"9/6"`
	Coins            int    `env:"COINS" envDefault:"5"`
	EVCacheMax       int    `env:"EV_CACHE_MAX" envDefault:"200000"`
	TemplateCacheMax int    `env:"TEMPLATE_CACHE_MAX" envDefault:"50000"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
