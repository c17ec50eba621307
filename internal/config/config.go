package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service settings, populated from the environment and
// an optional .env file.
type Config struct {
	HTTPAddr        string
	TLSCert         string
	TLSKey          string
	TokenKey        string
	DatabaseURL     string
	RateLimit       float64
	RateBurst       int
	ShutdownTimeout time.Duration

	// AdminLogins may read consultation leads.
	AdminLogins []string

	// Defaults for embedded widgets that pass no data attributes.
	WidgetVelocity float64
	WidgetFriction float64
}

// Load reads .env (if present) and then the environment, applying defaults
// where unset. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	return LoadFile(".env")
}

func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	cfg := &Config{
		HTTPAddr:    envOrDefault("HTTP_ADDR", ":8080"),
		TLSCert:     os.Getenv("TLS_CERT"),
		TLSKey:      os.Getenv("TLS_KEY"),
		TokenKey:    os.Getenv("TOKEN_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AdminLogins: splitList(os.Getenv("ADMIN_LOGINS")),
	}

	var err error
	if cfg.RateLimit, err = parseFloat("RATE_LIMIT", 1); err != nil {
		return nil, err
	}
	if cfg.RateBurst, err = parseInt("RATE_BURST", 3); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDuration("SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.WidgetVelocity, err = parseFloat("WIDGET_VELOCITY", 2500); err != nil {
		return nil, err
	}
	if cfg.WidgetFriction, err = parseFloat("WIDGET_FRICTION", 0.15); err != nil {
		return nil, err
	}

	if cfg.TokenKey == "" {
		return nil, errors.New("TOKEN_KEY is required")
	}
	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return nil, errors.New("TLS_CERT and TLS_KEY must be set together")
	}
	return cfg, nil
}

// TLS reports whether the server should serve HTTPS.
func (c *Config) TLS() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// splitList parses "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return v, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return v, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return v, nil
}
