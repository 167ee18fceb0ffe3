package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	config, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", config.Server.Port)
	}
	if config.Server.Environment != "development" {
		t.Errorf("Server.Environment = %q, want development", config.Server.Environment)
	}
	if config.Search.Limit != 30 {
		t.Errorf("Search.Limit = %d, want 30", config.Search.Limit)
	}
	if config.Cache.Type != "memory" {
		t.Errorf("Cache.Type = %q, want memory", config.Cache.Type)
	}
	if config.Cache.TTL != 5*time.Minute {
		t.Errorf("Cache.TTL = %v, want 5m", config.Cache.TTL)
	}
	if config.Pipeline.DebounceWindow != 800*time.Millisecond {
		t.Errorf("Pipeline.DebounceWindow = %v, want 800ms", config.Pipeline.DebounceWindow)
	}
	if config.Pipeline.MinQueryLength != 2 {
		t.Errorf("Pipeline.MinQueryLength = %d, want 2", config.Pipeline.MinQueryLength)
	}
	if config.Disclosure.CapPerGroup != 3 {
		t.Errorf("Disclosure.CapPerGroup = %d, want 3", config.Disclosure.CapPerGroup)
	}
	if !strings.Contains(config.OpenFoodFacts.BaseURL, "openfoodfacts.org") {
		t.Errorf("OpenFoodFacts.BaseURL = %q, want the public API", config.OpenFoodFacts.BaseURL)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("NUTRISCAN_SERVER_PORT", "9090")
	t.Setenv("NUTRISCAN_SEARCH_API_KEY", "secret-key")
	t.Setenv("NUTRISCAN_CACHE_TTL", "10m")
	t.Setenv("NUTRISCAN_PIPELINE_DEBOUNCE_WINDOW", "500ms")
	t.Setenv("NUTRISCAN_DISCLOSURE_CAP_PER_GROUP", "5")

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want 9090", config.Server.Port)
	}
	if config.Search.APIKey != "secret-key" {
		t.Errorf("Search.APIKey = %q, want secret-key", config.Search.APIKey)
	}
	if config.Cache.TTL != 10*time.Minute {
		t.Errorf("Cache.TTL = %v, want 10m", config.Cache.TTL)
	}
	if config.Pipeline.DebounceWindow != 500*time.Millisecond {
		t.Errorf("Pipeline.DebounceWindow = %v, want 500ms", config.Pipeline.DebounceWindow)
	}
	if config.Disclosure.CapPerGroup != 5 {
		t.Errorf("Disclosure.CapPerGroup = %d, want 5", config.Disclosure.CapPerGroup)
	}
}

func TestLoadInvalidCacheType(t *testing.T) {
	t.Setenv("NUTRISCAN_CACHE_TYPE", "memcached")

	if _, err := Load(); err == nil {
		t.Error("Load() accepted unsupported cache type")
	}
}

func TestLoadRedisRequiresURL(t *testing.T) {
	t.Setenv("NUTRISCAN_CACHE_TYPE", "redis")

	if _, err := Load(); err == nil {
		t.Error("Load() accepted redis cache without a URL")
	}

	t.Setenv("NUTRISCAN_CACHE_REDIS_URL", "redis://localhost:6379/0")

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if config.Cache.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("Cache.RedisURL = %q", config.Cache.RedisURL)
	}
}

func TestLoadInvalidDisclosureCap(t *testing.T) {
	t.Setenv("NUTRISCAN_DISCLOSURE_CAP_PER_GROUP", "0")

	if _, err := Load(); err == nil {
		t.Error("Load() accepted a zero per-group cap")
	}
}
