// Package config loads process configuration once at startup.
//
// The returned Config is passed explicitly to every constructor and must be
// treated as read-only after Load returns.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is one year in seconds, the lifetime of every issued token.
const DefaultTokenTTL = 31556926 * time.Second

type Config struct {
	Port            string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	MongoURI      string
	MongoDatabase string
	StoreTimeout  time.Duration

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	LogLevel  string
	LogFormat string

	NotifyWebhookURL string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on environment variables.")
	}

	cfg := &Config{
		Port:             getEnv("API_PORT", "5000"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnv("MONGO_DATABASE", "medconnect"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		NotifyWebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
	}

	var err error
	if cfg.ShutdownTimeout, err = parseDuration("SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.StoreTimeout, err = parseDuration("STORE_TIMEOUT", "5s"); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = parseDuration("JWT_TTL", DefaultTokenTTL.String()); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = strconv.Atoi(getEnv("BCRYPT_COST", "10")); err != nil {
		return nil, errors.Wrap(err, "parse BCRYPT_COST")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports the first setting that would make the service unusable.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not configured")
	}
	if c.JWTTTL <= 0 {
		return errors.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.StoreTimeout <= 0 {
		return errors.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return errors.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.MongoDatabase == "" {
		return errors.New("MONGO_DATABASE is not configured")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
