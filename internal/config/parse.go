package config

import "github.com/caarlos0/env/v11"

func Load() (Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func LoadDevServerConfig() (DevServerConfig, error) {
	var cfg DevServerConfig

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "DEVSERVER_"}); err != nil {
		return DevServerConfig{}, err
	}

	return cfg, nil
}
