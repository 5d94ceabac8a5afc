// Package config loads service configuration from the environment.
package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the server needs at startup.
// Variables are read with the CASEDESK_ prefix, e.g. CASEDESK_DATABASE_URL.
type Config struct {
	Port         string `envconfig:"PORT" default:"3000"`
	DatabaseURL  string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	AppEnv       string `envconfig:"APP_ENV" default:"dev"`
	SecureCookie bool   `envconfig:"SECURE_COOKIE" default:"false"`
}

// Load reads .env (if present) and parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("CASEDESK", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
