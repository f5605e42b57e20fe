package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const minSecretKeyLength = 32

var (
	ErrSecretKeyMissing     = errors.New("SECRET_KEY is required")
	ErrSecretKeyPlaceholder = errors.New("SECRET_KEY must not use a placeholder value")
	ErrSecretKeyTooShort    = fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	ErrInvalidPort          = errors.New("PORT must be a number between 1 and 65535")
	ErrInvalidReminderDays  = errors.New("PERIOD_REMINDER_DAYS must not be negative")
	ErrInvalidRedisDB       = errors.New("REDIS_DB must be a non-negative number")
)

var placeholderSecrets = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	// Server
	Port     string
	Timezone string
	AppEnv   string

	// Storage
	DBPath    string
	PinDBPath string

	// PIN lock sessions
	SecretKey      string
	UnlockTokenTTL time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// External prediction API
	PredictionEndpoint string
	PredictionAPIKey   string
	PredictionModel    string
	PredictionTimeout  time.Duration
	PredictionReferer  string
	PredictionTitle    string

	// Optional shared prediction cache
	RedisAddr     string
	RedisPassword string
	RedisDB       string

	// Optional partner sync
	MQTTBroker   string
	MQTTClientID string
	MQTTTopic    string
	MQTTUsername string
	MQTTPassword string

	SentryDSN string

	PeriodReminderDays string
}

func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("TZ", "UTC"),
		AppEnv:   getEnv("APP_ENV", "development"),

		DBPath:    getEnv("DB_PATH", filepath.Join("data", "cyclecast.db")),
		PinDBPath: getEnv("PIN_DB_PATH", filepath.Join("data", "cyclecast-vault.db")),

		SecretKey:      strings.TrimSpace(os.Getenv("SECRET_KEY")),
		UnlockTokenTTL: parseDuration(getEnv("UNLOCK_TOKEN_TTL", "15m"), 15*time.Minute),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		PredictionEndpoint: getEnv("PREDICTION_API_URL", ""),
		PredictionAPIKey:   getEnv("PREDICTION_API_KEY", ""),
		PredictionModel:    getEnv("PREDICTION_MODEL", ""),
		PredictionTimeout:  parseDuration(getEnv("PREDICTION_TIMEOUT", "60s"), 60*time.Second),
		PredictionReferer:  getEnv("PREDICTION_REFERER", ""),
		PredictionTitle:    getEnv("PREDICTION_TITLE", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		MQTTBroker:   getEnv("MQTT_BROKER", ""),
		MQTTClientID: getEnv("MQTT_CLIENT_ID", "cyclecast"),
		MQTTTopic:    getEnv("MQTT_TOPIC", "cyclecast/partner"),
		MQTTUsername: getEnv("MQTT_USERNAME", ""),
		MQTTPassword: getEnv("MQTT_PASSWORD", ""),

		SentryDSN: getEnv("SENTRY_DSN", ""),

		PeriodReminderDays: getEnv("PERIOD_REMINDER_DAYS", "2"),
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if err := validateSecretKey(c.SecretKey); err != nil {
		return err
	}
	if _, err := c.PortNumber(); err != nil {
		return err
	}
	if _, err := c.ReminderDays(); err != nil {
		return err
	}
	if _, err := c.RedisDatabase(); err != nil {
		return err
	}
	return nil
}

func validateSecretKey(secret string) error {
	if secret == "" {
		return ErrSecretKeyMissing
	}
	if _, placeholder := placeholderSecrets[strings.ToLower(secret)]; placeholder {
		return ErrSecretKeyPlaceholder
	}
	if len(secret) < minSecretKeyLength {
		return ErrSecretKeyTooShort
	}
	return nil
}

func (c *Config) PortNumber() (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || port < 1 || port > 65535 {
		return 0, ErrInvalidPort
	}
	return port, nil
}

func (c *Config) ReminderDays() (int, error) {
	days, err := strconv.Atoi(strings.TrimSpace(c.PeriodReminderDays))
	if err != nil || days < 0 {
		return 0, ErrInvalidReminderDays
	}
	return days, nil
}

func (c *Config) RedisDatabase() (int, error) {
	database, err := strconv.Atoi(strings.TrimSpace(c.RedisDB))
	if err != nil || database < 0 {
		return 0, ErrInvalidRedisDB
	}
	return database, nil
}

// Location resolves TZ, falling back to UTC when the name is unknown.
func (c *Config) Location() (*time.Location, error) {
	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return location, nil
}

func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) PartnerSyncEnabled() bool {
	return c.MQTTBroker != ""
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
