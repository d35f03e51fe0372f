package config

type AppConfig struct {
	Server ServerConfig
	Log    LogConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server: serverCfg,
		Log:    logCfg,
	}, nil
}

type GenAppConfig struct {
	Generator GeneratorConfig
	Log       LogConfig
}

func LoadGenApp() (GenAppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return GenAppConfig{}, err
	}
	genCfg, err := LoadGenerator()
	if err != nil {
		return GenAppConfig{}, err
	}
	return GenAppConfig{
		Generator: genCfg,
		Log:       logCfg,
	}, nil
}
