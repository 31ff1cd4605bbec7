/*
Package config loads the process-wide, read-only settings for the API.
Values come from the environment (optionally seeded from a .env file)
and are resolved once at startup.
*/
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

const (
	DefaultPort          = 5001
	DefaultGeminiModel   = "gemini-1.5-flash"
	DefaultPlanCacheTTL  = 10 * time.Minute
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "json"
	geminiAPIKeyVariable = "GEMINI_API_KEY"
)

// Config holds every setting the server needs. It is built once by Load and
// never mutated afterwards.
type Config struct {
	// GeminiAPIKey is the credential for the Gemini API. An empty key does not
	// stop startup; generation calls fail instead.
	GeminiAPIKey string

	// Port is the TCP port the HTTP server listens on.
	Port int

	// GeminiModel names the generative model used for every plan.
	GeminiModel string

	// GeminiTimeout bounds a single generation call. Zero means no bound
	// beyond the inbound request's own lifetime.
	GeminiTimeout time.Duration

	// PlanCacheSize is the number of model replies kept in memory. Zero disables caching.
	PlanCacheSize int
	PlanCacheTTL  time.Duration

	LogLevel  string
	LogFormat string
}

// Load resolves the configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("PORT", DefaultPort)
	v.SetDefault("GEMINI_MODEL", DefaultGeminiModel)
	v.SetDefault("GEMINI_TIMEOUT", "0s")
	v.SetDefault("PLAN_CACHE_SIZE", 0)
	v.SetDefault("PLAN_CACHE_TTL", DefaultPlanCacheTTL.String())
	v.SetDefault("LOG_LEVEL", DefaultLogLevel)
	v.SetDefault("LOG_FORMAT", DefaultLogFormat)
	v.AutomaticEnv()

	cfg := &Config{
		GeminiAPIKey: strings.TrimSpace(v.GetString(geminiAPIKeyVariable)),
		GeminiModel:  strings.TrimSpace(v.GetString("GEMINI_MODEL")),
		LogLevel:     strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:    strings.ToLower(v.GetString("LOG_FORMAT")),
	}

	port, err := parsePort(v.GetString("PORT"))
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	if cfg.GeminiModel == "" {
		cfg.GeminiModel = DefaultGeminiModel
	}

	timeout, err := parseDuration(v.GetString("GEMINI_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid GEMINI_TIMEOUT: %w", err)
	}
	cfg.GeminiTimeout = timeout

	cfg.PlanCacheSize = v.GetInt("PLAN_CACHE_SIZE")
	if cfg.PlanCacheSize < 0 {
		cfg.PlanCacheSize = 0
	}

	ttl, err := parseDuration(v.GetString("PLAN_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid PLAN_CACHE_TTL: %w", err)
	}
	cfg.PlanCacheTTL = ttl

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// HasAPIKey reports whether a Gemini credential was provided.
func (c *Config) HasAPIKey() bool {
	return c.GeminiAPIKey != ""
}

// parsePort reads PORT as a base-10 integer. Unset, zero or negative values
// use DefaultPort; anything unparsable or above 65535 is an error.
func parsePort(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultPort, nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid PORT %q: %w", raw, err)
	}
	if port <= 0 {
		return DefaultPort, nil
	}
	if port > 65535 {
		return 0, fmt.Errorf("PORT %d is out of range", port)
	}
	return port, nil
}

func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", raw)
	}
	return d, nil
}
