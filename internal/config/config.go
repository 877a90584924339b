// Package config centralizes application configuration. Values are layered
// the usual viper way: defaults, optional YAML file, WAYPOINT_* environment
// overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/heypico/waypoint/internal/validate"
)

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Maps      MapsConfig      `mapstructure:"maps"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Quota     QuotaConfig     `mapstructure:"quota"`
	Search    SearchConfig    `mapstructure:"search"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// LLMConfig points at the local Ollama server.
type LLMConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// MapsConfig holds mapping provider credentials and endpoint.
type MapsConfig struct {
	APIKey      string `mapstructure:"api_key"`
	FrontendKey string `mapstructure:"frontend_key"`
	BaseURL     string `mapstructure:"base_url"`
}

// RateLimitConfig shapes the per-client admission controller.
type RateLimitConfig struct {
	Requests  int           `mapstructure:"requests"`
	Window    time.Duration `mapstructure:"window"`
	Retention time.Duration `mapstructure:"retention"`
}

// QuotaConfig shapes the outbound provider budget pools.
type QuotaConfig struct {
	Period       time.Duration  `mapstructure:"period"`
	DefaultLimit int            `mapstructure:"default_limit"`
	Limits       map[string]int `mapstructure:"limits"`
}

// SearchConfig holds place search tuning.
type SearchConfig struct {
	DefaultRadius   int    `mapstructure:"default_radius"`
	MaxResults      int    `mapstructure:"max_results"`
	DefaultLocation string `mapstructure:"default_location"`
	DefaultZoom     int    `mapstructure:"default_zoom"`
}

// CacheConfig controls the provider response cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// SetDefaults installs default values on a viper instance. Defaults mirror
// a small local demo deployment: generous per-client window, modest daily
// provider budgets.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("logging.level", "info")

	v.SetDefault("llm.base_url", "http://localhost:11434")
	v.SetDefault("llm.model", "llama3.2")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.timeout", "60s")

	v.SetDefault("maps.api_key", "")
	v.SetDefault("maps.frontend_key", "")
	v.SetDefault("maps.base_url", "")

	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1h")
	v.SetDefault("rate_limit.retention", "1h")

	v.SetDefault("quota.period", "24h")
	v.SetDefault("quota.default_limit", 0)
	v.SetDefault("quota.limits", map[string]int{
		"places-search":  1000,
		"places-details": 1000,
		"directions":     1000,
		"geocoding":      1000,
	})

	v.SetDefault("search.default_radius", 5000)
	v.SetDefault("search.max_results", 10)
	// Yogyakarta, Indonesia.
	v.SetDefault("search.default_location", "-7.7713,110.3774")
	v.SetDefault("search.default_zoom", 13)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "1h")
}

// Load unmarshals and validates the configuration from a viper instance.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that cannot work. A missing maps key is
// allowed (the service starts degraded); a malformed one is not.
func (c *Config) Validate() error {
	for name, key := range map[string]string{
		"maps.api_key":      c.Maps.APIKey,
		"maps.frontend_key": c.Maps.FrontendKey,
	} {
		if key != "" && len(key) < 20 {
			return fmt.Errorf("%s appears to be invalid (too short)", name)
		}
	}

	if c.RateLimit.Requests < 1 {
		return fmt.Errorf("rate_limit.requests must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive")
	}
	if c.Quota.Period <= 0 {
		return fmt.Errorf("quota.period must be positive")
	}

	if _, _, ok := validate.ParseLatLng(c.Search.DefaultLocation); !ok {
		return fmt.Errorf("search.default_location must be \"lat,lng\"")
	}

	if strings.TrimSpace(c.LLM.Model) == "" {
		return fmt.Errorf("llm.model is required")
	}

	return nil
}

// DefaultCoords returns the configured fallback search center.
func (c *Config) DefaultCoords() (lat, lng float64) {
	lat, lng, _ = validate.ParseLatLng(c.Search.DefaultLocation)
	return lat, lng
}
