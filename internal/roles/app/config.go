package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/aussiebroadwan/roles/internal/roles/domain"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver      string        `env:"ROLES_DRIVER"       envDefault:"sqlite"`   // sqlite or postgres
	DSN         string        `env:"ROLES_DSN"          envDefault:"roles.db"` // file path for sqlite, URL for postgres
	Application string        `env:"ROLES_APPLICATION"  envDefault:"/"`        // tenant every operation is scoped to
	AutoMigrate bool          `env:"ROLES_AUTO_MIGRATE" envDefault:"false"`    // apply migrations on startup
	OpTimeout   time.Duration `env:"ROLES_OP_TIMEOUT"   envDefault:"10s"`      // per-command deadline
	Env         string        `env:"ENV"                envDefault:"dev"`
	LogLevel    string        `env:"LOG_LEVEL"          envDefault:"info"`
	LogFormat   string        `env:"LOG_FORMAT"         envDefault:"json"`
}

// LoadConfig parses the environment and validates the result.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported ROLES_DRIVER %q (want %s or %s)", c.Driver, DriverSQLite, DriverPostgres)
	}

	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("ROLES_DSN is required")
	}
	if err := domain.ValidateApplication(c.Application); err != nil {
		return fmt.Errorf("ROLES_APPLICATION: %w", err)
	}
	if c.OpTimeout <= 0 {
		return fmt.Errorf("ROLES_OP_TIMEOUT must be positive")
	}
	return nil
}
