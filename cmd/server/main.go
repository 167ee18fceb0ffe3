package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/nutriscan/backend/config"
	httpDelivery "github.com/nutriscan/backend/internal/delivery/http"
	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/infrastructure/cache"
	"github.com/nutriscan/backend/internal/infrastructure/foodsearch"
	"github.com/nutriscan/backend/internal/infrastructure/openfoodfacts"
	"github.com/nutriscan/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting NutriScan Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache: type=%s ttl=%s", cfg.Cache.Type, cfg.Cache.TTL)

	var cacheRepo domain.CacheRepository
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(context.Background(), cfg.Cache.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		cacheRepo = redisCache
	} else {
		cacheRepo = cache.NewMemoryCache(cfg.Cache.MaxEntries)
	}

	searchClient := foodsearch.NewClient(cfg.Search.APIKey, cfg.Search.BaseURL)
	productClient := openfoodfacts.NewClient(cfg.OpenFoodFacts.BaseURL, cfg.OpenFoodFacts.UserAgent)

	debug := cfg.Server.Environment == "development"
	if debug {
		searchClient.SetDebug(true)
		productClient.SetDebug(true)
		log.Printf("Upstream client debug mode enabled")
	}

	if cfg.Search.APIKey == "" {
		log.Printf("WARNING: search endpoint configured without API key: %s", cfg.Search.BaseURL)
	} else {
		log.Printf("Search endpoint configured: %s", cfg.Search.BaseURL)
	}
	log.Printf("Open Food Facts configured: %s", cfg.OpenFoodFacts.BaseURL)

	searchService := usecase.NewSearchService(
		cacheRepo,
		searchClient,
		productClient,
		usecase.SearchServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			SearchLimit:        cfg.Search.Limit,
			CapPerGroup:        cfg.Disclosure.CapPerGroup,
			EnableDebugLogging: debug,
		},
	)

	log.Printf("Disclosure: cap_per_group=%d search_limit=%d", cfg.Disclosure.CapPerGroup, cfg.Search.Limit)

	handler := httpDelivery.NewHandler(searchService)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
