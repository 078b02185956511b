// Package config builds the service configuration once at start-up from an
// optional .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	TransportSMTP     = "smtp"
	TransportPostmark = "postmark"
	TransportLog      = "log"
)

const DefaultSchedulingURL = "https://calendly.com/its-noahcpt/1-1-intake"

type Config struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string

	JWT   JWTConfig
	Mail  MailConfig
	SMTP  SMTPConfig
	Limit RateLimitConfig

	SchedulingURL string
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

type MailConfig struct {
	Transport     string
	FromEmail     string
	FromName      string
	AdminEmail    string
	PostmarkToken string
	Timeout       time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type RateLimitConfig struct {
	PerMinute int
}

// Load reads .env (if present) into the environment and builds a Config.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() *Config {
	smtpUser := os.Getenv("SMTP_USERNAME")
	cfg := &Config{
		Port:      getEnv("INTAKE_PORT", "8080"),
		DBPath:    getEnv("INTAKE_DB_PATH", "noahform.db"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		JWT: JWTConfig{
			Secret:   os.Getenv("JWT_SECRET"),
			Issuer:   getEnv("JWT_ISSUER", "noahform.be"),
			Audience: getEnv("JWT_AUDIENCE", "noahform-users"),
			TTL:      time.Duration(getEnvInt("JWT_EXPIRATION", 86400)) * time.Second,
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: smtpUser,
			Password: os.Getenv("SMTP_PASSWORD"),
		},
		Mail: MailConfig{
			Transport:     os.Getenv("MAIL_TRANSPORT"),
			FromEmail:     getEnv("SMTP_FROM_EMAIL", smtpUser),
			FromName:      getEnv("SMTP_FROM_NAME", "Intake Formulier"),
			AdminEmail:    os.Getenv("ADMIN_EMAIL"),
			PostmarkToken: os.Getenv("POSTMARK_TOKEN"),
			Timeout:       getEnvDuration("MAIL_TIMEOUT", 15*time.Second),
		},
		Limit: RateLimitConfig{
			PerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
		},
		SchedulingURL: getEnv("SCHEDULING_URL", DefaultSchedulingURL),
	}

	if cfg.Mail.Transport == "" {
		if cfg.SMTP.Host != "" {
			cfg.Mail.Transport = TransportSMTP
		} else {
			cfg.Mail.Transport = TransportLog
		}
	}
	return cfg
}

// Validate reports configuration that would make the service unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION must be positive"))
	}
	switch c.Mail.Transport {
	case TransportSMTP:
		if c.SMTP.Host == "" {
			errs = append(errs, errors.New("SMTP_HOST is required for smtp transport"))
		}
	case TransportPostmark:
		if c.Mail.PostmarkToken == "" {
			errs = append(errs, errors.New("POSTMARK_TOKEN is required for postmark transport"))
		}
	case TransportLog:
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_TRANSPORT %q", c.Mail.Transport))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// Bare integers are seconds.
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
