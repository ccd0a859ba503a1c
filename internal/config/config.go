package config

import (
	"errors"
	"os"
)

// Config holds everything the service reads from the environment.
type Config struct {
	HTTPPort        string
	DatabaseURL     string
	JWTSecret       string
	SiteURL         string
	AdminEmail      string
	AdminSetupToken string
	ResendAPIKey    string
	FromEmail       string
	LogLevel        string
}

// Load populates Config from env vars. DATABASE_URL, JWT_SECRET, SITE_URL
// and ADMIN_EMAIL are required; mail settings are optional (the mailer is
// disabled without them).
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:        getenv("HTTP_PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		SiteURL:         os.Getenv("SITE_URL"),
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		AdminSetupToken: os.Getenv("ADMIN_SETUP_TOKEN"),
		ResendAPIKey:    os.Getenv("RESEND_API_KEY"),
		FromEmail:       getenv("FROM_EMAIL", "noreply@localhost"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is empty")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is empty")
	}
	if cfg.SiteURL == "" {
		return nil, errors.New("SITE_URL is empty")
	}
	if cfg.AdminEmail == "" {
		return nil, errors.New("ADMIN_EMAIL is empty")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
