package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envMap はmapを環境変数の代わりに使うヘルパーです。
func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "", cfg.Gemini.APIKey)
	assert.Equal(t, "https://generativelanguage.googleapis.com", cfg.Gemini.BaseURL)
	assert.Equal(t, "v1", cfg.Gemini.APIVersion)
	assert.Equal(t, "gemini-pro-vision", cfg.Gemini.Model)
	assert.Equal(t, "rest", cfg.Gemini.Backend)
	assert.Equal(t, time.Duration(0), cfg.Gemini.Timeout)
	assert.Equal(t, 1400*time.Millisecond, cfg.Mock.Latency)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Parallel()

	cfg, err := FromEnv(envMap(map[string]string{
		"PORT":                  "9000",
		"GIN_MODE":              "release",
		"GEMINI_API_KEY":        "server-key",
		"GEMINI_BACKEND":        "SDK",
		"GEMINI_MODEL":          "gemini-2.5-flash",
		"GEMINI_TIMEOUT":        "30s",
		"MOCK_LATENCY":          "250",
		"CORS_ALLOW_ORIGINS":    "http://localhost:5173, https://demo.example.com,",
		"RATE_LIMIT_PER_MINUTE": "0",
		"REDIS_HOST":            "redis",
		"LOG_FORMAT":            "json",
		"LOG_LEVEL":             "DEBUG",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, "server-key", cfg.Gemini.APIKey)
	assert.Equal(t, "sdk", cfg.Gemini.Backend)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 30*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Mock.Latency)
	assert.Equal(t, []string{"http://localhost:5173", "https://demo.example.com"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 0, cfg.RateLimitPerMinute)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "redis:6379", cfg.Redis.Addr())
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"GEMINI_BACKEND": "grpc"}},
		{"bad base url", map[string]string{"GEMINI_BASE_URL": "not a url"}},
		{"bad timeout", map[string]string{"GEMINI_TIMEOUT": "soon"}},
		{"negative latency", map[string]string{"MOCK_LATENCY": "-5s"}},
		{"non-numeric port", map[string]string{"PORT": "http"}},
		{"bad gin mode", map[string]string{"GIN_MODE": "prod"}},
		{"bad rate limit", map[string]string{"RATE_LIMIT_PER_MINUTE": "many"}},
		{"negative burst", map[string]string{"RATE_LIMIT_BURST": "-1"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}},
		{"bad redis port", map[string]string{"REDIS_HOST": "r", "REDIS_PORT": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := FromEnv(envMap(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestParseDuration(t *testing.T) {
	t.Parallel()

	d, err := parseDuration("1400")
	require.NoError(t, err)
	assert.Equal(t, 1400*time.Millisecond, d)

	d, err = parseDuration("1.4s")
	require.NoError(t, err)
	assert.Equal(t, 1400*time.Millisecond, d)

	_, err = parseDuration("later")
	assert.Error(t, err)
}
