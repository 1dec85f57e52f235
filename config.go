package main

import (
	"github.com/ansel1/merry"
	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Config holds one run's settings. Env vars fill whatever the flags left
// empty, a local .env file fills the env.
type Config struct {
	User     string `env:"PIZZA_USER"`
	Password string `env:"PIZZA_PASSWORD"`
	APIURL   string `env:"PIZZA_API_URL"`
}

func loadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, merry.Wrap(err)
	}
	return cfg, nil
}
