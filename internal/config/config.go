package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the client. Following 12-factor
// principles everything is loaded from environment variables; a local .env
// file is honored when present.
type Config struct {
	APIBaseURL    string
	PushURL       string
	RazorpayKeyID string
	HTTPTimeout   time.Duration
	LogLevel      string
}

// Load reads configuration from the environment. PUSH_URL defaults to the
// API base URL with a trailing /api path suffix stripped and the scheme
// swapped to the socket equivalent.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:    getEnv("API_BASE_URL", "http://localhost:8080/api"),
		PushURL:       os.Getenv("PUSH_URL"),
		RazorpayKeyID: os.Getenv("RAZORPAY_KEY_ID"),
		HTTPTimeout:   getEnvAsDuration("HTTP_TIMEOUT", 10*time.Second),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if cfg.PushURL == "" {
		derived, err := DerivePushURL(cfg.APIBaseURL)
		if err != nil {
			return nil, fmt.Errorf("derive push url: %w", err)
		}
		cfg.PushURL = derived
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if _, err := url.Parse(c.APIBaseURL); err != nil {
		return fmt.Errorf("API_BASE_URL: %w", err)
	}
	if _, err := url.Parse(c.PushURL); err != nil {
		return fmt.Errorf("PUSH_URL: %w", err)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// DerivePushURL turns an API base URL into the push-channel URL: the /api
// path suffix is dropped, http becomes ws and https becomes wss, and the
// /push endpoint path is appended.
func DerivePushURL(apiBase string) (string, error) {
	u, err := url.Parse(apiBase)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	u.Path = strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), "/api")
	u.Path += "/push"
	return u.String(), nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return d
}
