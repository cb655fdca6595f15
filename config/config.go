package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"3000" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	CORSOrigin  string `env:"CORS_ORIGIN" envDefault:"http://localhost:3001" validate:"required,url"`

	// Login fails with 500 while JWT_SECRET is unset; the server still boots.
	JWTSecret  string        `env:"JWT_SECRET"  validate:"omitempty,min=32"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"1h" validate:"min=1m"`
	CodeTTL    time.Duration `env:"VERIFICATION_CODE_TTL" envDefault:"10m" validate:"min=1m"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10" validate:"min=4,max=31"`

	RedisURL  string `env:"REDIS_URL"`
	SweepSpec string `env:"VERIFICATION_SWEEP_SPEC" envDefault:"@every 1m" validate:"required"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	ResendFrom   string `env:"RESEND_FROM"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" validate:"required_with=SMTPHost"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Env != "local" && cfg.SMTPHost == "" && (cfg.ResendAPIKey == "" || cfg.ResendFrom == "") {
		return nil, fmt.Errorf("invalid config: %s needs SMTP_HOST or RESEND_API_KEY and RESEND_FROM", cfg.Env)
	}

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL onto slog levels.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
