package config

import "github.com/caarlos0/env/v11"

// Config holds application configuration
type Config struct {
	Version      string `env:"VERSION" envDefault:"0.1.0"`
	Port         int    `env:"PORT" envDefault:"8080"`
	Environment  string `env:"ENVIRONMENT" envDefault:"dev"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN    string `env:"SENTRY_DSN"`
	DatabaseURI  string `env:"DATABASE_URI" envDefault:"mongodb://localhost/sup"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"sup"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsEnvProd() bool {
	if c.Environment == "prod" && c.SentryDSN != "" {
		return true
	}
	return false
}
