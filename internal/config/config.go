// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Every field can be set from the environment.
type Config struct {
	Port    string `validate:"required,numeric"`
	GinMode string `validate:"omitempty,oneof=debug release test"`

	Gemini GeminiConfig
	Mock   MockConfig

	CORSAllowOrigins []string `validate:"dive,required"`

	RateLimitPerMinute int `validate:"gte=0"`
	RateLimitBurst     int `validate:"gte=0"`

	Redis RedisConfig
	Log   LogConfig
}

// GeminiConfig configures the external vision endpoint.
type GeminiConfig struct {
	// APIKey is an optional operator default used when a request carries no credential.
	APIKey     string
	BaseURL    string        `validate:"required,url"`
	APIVersion string        `validate:"required"`
	Model      string        `validate:"required"`
	Backend    string        `validate:"required,oneof=rest sdk"`
	Timeout    time.Duration `validate:"gte=0"`
}

// MockConfig configures the random fallback detector.
type MockConfig struct {
	Latency time.Duration `validate:"gte=0"`
}

// RedisConfig configures the optional shared rate-limit store.
type RedisConfig struct {
	Host     string
	Port     string `validate:"omitempty,numeric"`
	Password string
}

// Enabled reports whether a Redis host was configured.
func (r RedisConfig) Enabled() bool { return r.Host != "" }

// Addr returns host:port, defaulting the port to 6379.
func (r RedisConfig) Addr() string {
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return r.Host + ":" + port
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=text json"`
	// File enables an additional rotating log file when non-empty.
	File string
}

// Load reads .env (if present) and the environment, applies defaults and validates.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env not found; using system environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function. Tests pass a map-backed getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	geminiTimeout, err := parseDuration(get("GEMINI_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("GEMINI_TIMEOUT: %w", err)
	}
	mockLatency, err := parseDuration(get("MOCK_LATENCY", "1400ms"))
	if err != nil {
		return nil, fmt.Errorf("MOCK_LATENCY: %w", err)
	}
	perMinute, err := strconv.Atoi(get("RATE_LIMIT_PER_MINUTE", "30"))
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE: %w", err)
	}
	burst, err := strconv.Atoi(get("RATE_LIMIT_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
	}

	cfg := &Config{
		Port:    get("PORT", "8080"),
		GinMode: get("GIN_MODE", ""),
		Gemini: GeminiConfig{
			APIKey:     get("GEMINI_API_KEY", ""),
			BaseURL:    get("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			APIVersion: get("GEMINI_API_VERSION", "v1"),
			Model:      get("GEMINI_MODEL", "gemini-pro-vision"),
			Backend:    strings.ToLower(get("GEMINI_BACKEND", "rest")),
			Timeout:    geminiTimeout,
		},
		Mock:               MockConfig{Latency: mockLatency},
		CORSAllowOrigins:   splitList(get("CORS_ALLOW_ORIGINS", "*")),
		RateLimitPerMinute: perMinute,
		RateLimitBurst:     burst,
		Redis: RedisConfig{
			Host:     get("REDIS_HOST", ""),
			Port:     get("REDIS_PORT", ""),
			Password: getenv("REDIS_PASSWORD"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(get("LOG_LEVEL", "info")),
			Format: strings.ToLower(get("LOG_FORMAT", "text")),
			File:   get("LOG_FILE", ""),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// parseDuration accepts Go durations ("1.4s") or a bare number of milliseconds ("1400").
func parseDuration(s string) (time.Duration, error) {
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(s)
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
