// Package config provides application configuration loaded from environment
// variables with defaults and validation.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// StripeConfig defines payment provider settings.
type StripeConfig struct {
	SecretKey     string // STRIPE_SECRET_KEY
	WebhookSecret string // STRIPE_WEBHOOK_SECRET
	UpgradeURL    string // URL returned to non-premium users on 403
}

// AIConfig defines which guidance provider to use.
type AIConfig struct {
	Provider string // "openai" | "gemini"
	APIKey   string
	Model    string
}

// SMTPConfig defines outbound mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	UseSSL   bool

	AppName    string
	AppBaseURL string
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port    string
	GinMode string // debug|release|test

	// Logging
	LogLevel  string // debug|info|warn|error
	LogPretty bool

	// Persistence
	PostgresURL string

	// Session lifecycle worker
	SchedulerSpec string // cron spec, e.g. "@every 1m"

	Stripe StripeConfig
	AI     AIConfig
	SMTP   SMTPConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults,
// and validates the result.
func Load() (Config, error) {
	cfg := Config{
		Port:    getenv("PORT", "8080"),
		GinMode: strings.ToLower(getenv("GIN_MODE", "release")),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		PostgresURL: os.Getenv("POSTGRES_URL"),

		SchedulerSpec: getenv("SESSION_SCHEDULER_SPEC", "@every 1m"),

		Stripe: StripeConfig{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			UpgradeURL:    getenv("UPGRADE_URL", "/subscribe"),
		},

		AI: AIConfig{
			Provider: strings.ToLower(getenv("AI_PROVIDER", "openai")),
			APIKey:   os.Getenv("AI_API_KEY"),
			Model:    os.Getenv("AI_MODEL"),
		},

		SMTP: SMTPConfig{
			Host:       os.Getenv("SMTP_HOST"),
			Port:       getint("SMTP_PORT", 587),
			Username:   os.Getenv("SMTP_USERNAME"),
			Password:   os.Getenv("SMTP_PASSWORD"),
			From:       getenv("SMTP_FROM", "no-reply@mendpath.app"),
			FromName:   getenv("SMTP_FROM_NAME", "Mendpath"),
			UseSSL:     getbool("SMTP_SSL", false),
			AppName:    getenv("APP_NAME", "Mendpath"),
			AppBaseURL: getenv("APP_BASE_URL", "https://mendpath.app"),
		},
	}

	if cfg.PostgresURL == "" {
		return cfg, errors.New("POSTGRES_URL is required")
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return cfg, errors.New("GIN_MODE must be debug, release or test")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
