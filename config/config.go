package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	Search        SearchConfig
	OpenFoodFacts OpenFoodFactsConfig
	Cache         CacheConfig
	Pipeline      PipelineConfig
	Disclosure    DisclosureConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SearchConfig holds upstream food-search endpoint configuration
type SearchConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Limit   int    `mapstructure:"limit"`
}

// OpenFoodFactsConfig holds Open Food Facts product API configuration
type OpenFoodFactsConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type       string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL   string        `mapstructure:"redis_url"`
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// PipelineConfig holds search-session tuning
type PipelineConfig struct {
	DebounceWindow time.Duration `mapstructure:"debounce_window"`
	MinQueryLength int           `mapstructure:"min_query_length"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DisclosureConfig holds progressive-disclosure tuning
type DisclosureConfig struct {
	CapPerGroup int `mapstructure:"cap_per_group"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nutriscan/")

	v.SetEnvPrefix("NUTRISCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("search.base_url", "https://api.nutriscan.dev")
	v.SetDefault("search.limit", 30)

	v.SetDefault("openfoodfacts.base_url", "https://world.openfoodfacts.org/api/v0")
	v.SetDefault("openfoodfacts.user_agent", "NutriScan/1.0 (support@nutriscan.dev)")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("cache.max_entries", 512)

	v.SetDefault("pipeline.debounce_window", "800ms")
	v.SetDefault("pipeline.min_query_length", 2)
	v.SetDefault("pipeline.request_timeout", "15s")

	v.SetDefault("disclosure.cap_per_group", 3)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Search.BaseURL == "" {
		return fmt.Errorf("search base URL is required (set NUTRISCAN_SEARCH_BASE_URL)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Disclosure.CapPerGroup < 1 {
		return fmt.Errorf("disclosure cap per group must be at least 1, got: %d", config.Disclosure.CapPerGroup)
	}

	if config.Pipeline.MinQueryLength < 1 {
		return fmt.Errorf("pipeline min query length must be at least 1, got: %d", config.Pipeline.MinQueryLength)
	}

	return nil
}
