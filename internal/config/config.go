// Package config reads the site configuration from the environment. A .env
// file in the working directory is loaded first by the godotenv autoloader
// imported from main.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	ModeDebug   = "debug"
	ModeRelease = "release"
	ModeTest    = "test"
)

type Config struct {
	Port string `validate:"required,numeric"`
	Mode string `validate:"oneof=debug release test"`

	DataDir string `validate:"required"`

	SessionTTL          time.Duration `validate:"gt=0"`
	CelebrationDuration time.Duration `validate:"gt=0"`
	VisitorRetention    time.Duration `validate:"gt=0"`

	SMTP  SMTP
	Admin Admin
}

type SMTP struct {
	Host string `validate:"required,hostname|ip"`
	Port int    `validate:"gt=0,lte=65535"`
	User string
	Pass string
	To   string `validate:"required,email"`
}

// Configured reports whether delivery credentials are present.
func (s SMTP) Configured() bool {
	return s.User != "" && s.Pass != ""
}

type Admin struct {
	Username string `validate:"required"`
	Password string `validate:"required"`

	// DefaultCredentials is set when either value fell back to the built-in
	// development default.
	DefaultCredentials bool
}

// Load reads the environment, applies defaults and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Port:    getenv("PORT", "8080"),
		Mode:    getenv("GIN_MODE", ModeDebug),
		DataDir: getenv("DATA_DIR", "./data"),
		SMTP: SMTP{
			Host: getenv("SMTP_HOST", "smtp.gmail.com"),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			To:   getenv("TO_EMAIL", "hello@example.com"),
		},
		Admin: Admin{
			Username: os.Getenv("ADMIN_USERNAME"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
	}

	var err error
	if cfg.SMTP.Port, err = strconv.Atoi(getenv("SMTP_PORT", "587")); err != nil {
		return nil, fmt.Errorf("SMTP_PORT: %w", err)
	}
	if cfg.SessionTTL, err = duration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CelebrationDuration, err = duration("CELEBRATION_DURATION", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.VisitorRetention, err = duration("VISITOR_RETENTION", 365*24*time.Hour); err != nil {
		return nil, err
	}

	if cfg.Admin.Username == "" {
		cfg.Admin.Username = "admin"
		cfg.Admin.DefaultCredentials = true
	}
	if cfg.Admin.Password == "" {
		cfg.Admin.Password = "admin123"
		cfg.Admin.DefaultCredentials = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
