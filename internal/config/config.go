package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string        `env:"PORT" envDefault:"5000"`
	DatabaseURL string        `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret   string        `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer   string        `env:"JWT_ISSUER" envDefault:"travel-backend"`
	JWTTTL      time.Duration `env:"JWT_TTL" envDefault:"168h"`
	BcryptCost  int           `env:"BCRYPT_COST" envDefault:"12"`
	CORSOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if cfg.JWTTTL <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL must be positive")
	}
	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}
