package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/Simplici0/partnerdesk/internal/material"
)

// EnvPrefix namespaces every variable read by Load, e.g. PARTNERDESK_DB_PATH.
const EnvPrefix = "PARTNERDESK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	RoundingCeiling = "ceiling"
	RoundingLegacy  = "legacy"

	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env       string `envconfig:"APP_ENV" default:"dev"`
	Port      string `envconfig:"PORT" default:"8080"`
	DBPath    string `envconfig:"DB_PATH" default:"./partners.db"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	// LogFormat is "json" or "console". Empty means console in dev and json elsewhere.
	LogFormat string `envconfig:"LOG_FORMAT"`

	// Rounding selects how the material calculator turns the real-valued
	// requirement into whole units: "ceiling" or "legacy" (trunc(x+0.99)).
	Rounding string `envconfig:"ROUNDING" default:"ceiling"`

	AutoMigrate bool `envconfig:"AUTO_MIGRATE" default:"true"`
	Seed        bool `envconfig:"SEED" default:"true"`
	// SeedDemo adds sample partners and sales on top of the reference data.
	SeedDemo bool `envconfig:"SEED_DEMO" default:"false"`
}

// Load reads environment variables and returns a populated Config.
func Load() (Config, error) {
	// Best-effort: local development keeps its variables in .env.
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if strings.TrimSpace(cfg.LogFormat) == "" {
		cfg.LogFormat = LogFormatJSON
		if cfg.IsDev() {
			cfg.LogFormat = LogFormatConsole
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the application cannot act on.
func (c Config) Validate() error {
	if _, err := material.ParseRounding(c.Rounding); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case LogFormatJSON, LogFormatConsole:
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("config: db path is required")
	}
	if c.IsProd() && c.SeedDemo {
		return fmt.Errorf("config: demo seed data is not allowed in %s", AppEnvProd)
	}
	return nil
}

func (c Config) IsDev() bool {
	return strings.EqualFold(c.Env, AppEnvDev)
}

func (c Config) IsProd() bool {
	return strings.EqualFold(c.Env, AppEnvProd)
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
