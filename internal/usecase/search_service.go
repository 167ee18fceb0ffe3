package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nutriscan/backend/internal/domain"
)

const maxQueryLength = 100

// SearchServiceConfig holds configuration for the search service.
type SearchServiceConfig struct {
	CacheTTL           time.Duration
	SearchLimit        int
	CapPerGroup        int
	EnableDebugLogging bool
}

// SearchService is the core's outward contract: text search with progressive
// disclosure, group expansion, and barcode lookup, all returning the same
// candidate shape.
type SearchService struct {
	cache         domain.CacheRepository
	searchClient  domain.SearchClient
	productClient domain.ProductClient
	aggregator    *Aggregator
	cacheTTL      time.Duration
	searchLimit   int
	debug         bool
}

// resultSnapshot is the cached classified result set a query produced. Group
// expansion re-slices it so load-more stays idempotent without refetching.
type resultSnapshot struct {
	Query      string                 `json:"query"`
	Total      int                    `json:"total"`
	Candidates []domain.FoodCandidate `json:"candidates"`
}

// NewSearchService creates the search service with its dependencies.
func NewSearchService(
	cache domain.CacheRepository,
	searchClient domain.SearchClient,
	productClient domain.ProductClient,
	config SearchServiceConfig,
) *SearchService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}
	searchLimit := config.SearchLimit
	if searchLimit <= 0 {
		searchLimit = 30
	}

	return &SearchService{
		cache:         cache,
		searchClient:  searchClient,
		productClient: productClient,
		aggregator:    NewAggregator(config.CapPerGroup),
		cacheTTL:      cacheTTL,
		searchLimit:   searchLimit,
		debug:         config.EnableDebugLogging,
	}
}

// Search runs the full text-search pipeline: validate, cache check, upstream
// dispatch, classification, aggregation, suggestions.
func (s *SearchService) Search(ctx context.Context, query string) (*domain.AggregatedSearchResult, error) {
	started := time.Now()

	query = strings.TrimSpace(query)
	if query == "" || len(query) > maxQueryLength {
		return nil, fmt.Errorf("%w: query must be 1-%d characters", domain.ErrInvalidInput, maxQueryLength)
	}

	snapshot, err := s.loadSnapshot(ctx, query)
	if err != nil {
		snapshot, err = s.fetchAndClassify(ctx, query)
		if err != nil {
			return nil, err
		}
	} else if s.debug {
		log.Printf("[SEARCH] Cache hit for %q", query)
	}

	return s.assemble(query, snapshot, started), nil
}

// Expand returns the next page of one result group. The page is sliced from
// the cached snapshot when available; on cache expiry the query is re-issued
// upstream first, matching the "re-query or re-slice" expansion contract.
func (s *SearchService) Expand(ctx context.Context, query, cursor string) (*domain.SearchResultGroup, error) {
	query = strings.TrimSpace(query)
	if query == "" || cursor == "" {
		return nil, fmt.Errorf("%w: query and cursor are required", domain.ErrInvalidInput)
	}

	snapshot, err := s.loadSnapshot(ctx, query)
	if err != nil {
		snapshot, err = s.fetchAndClassify(ctx, query)
		if err != nil {
			return nil, err
		}
	}

	return s.aggregator.ExpandGroup(snapshot.Candidates, cursor)
}

// LookupBarcode resolves a scanned barcode to normalized candidates scaled by
// the requested quantity. Malformed codes are rejected before any network
// call; a valid code with no product yields ErrNotFound so callers can offer
// a recovery path.
func (s *SearchService) LookupBarcode(ctx context.Context, code string, quantity float64, unit string) ([]domain.FoodCandidate, error) {
	if !ValidBarcode(code) {
		return nil, fmt.Errorf("%w: barcode must be 8-14 digits", domain.ErrInvalidInput)
	}

	product, err := s.loadProduct(ctx, code)
	if err != nil {
		return nil, err
	}

	candidate, err := MapProduct(product, quantity, unit)
	if err != nil {
		return nil, err
	}

	return []domain.FoodCandidate{*candidate}, nil
}

// fetchAndClassify dispatches the upstream search, classifies the hits, and
// caches the classified snapshot.
func (s *SearchService) fetchAndClassify(ctx context.Context, query string) (*resultSnapshot, error) {
	response, err := s.searchClient.SearchFoods(ctx, query, s.searchLimit)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %v", domain.ErrCanceled, err)
		}
		return nil, err
	}

	snapshot := &resultSnapshot{
		Query:      query,
		Total:      response.Total,
		Candidates: ClassifyHits(query, response.Foods),
	}

	if err := s.cache.Set(ctx, searchCacheKey(query), snapshot, s.cacheTTL); err != nil && s.debug {
		log.Printf("[SEARCH] Failed to cache %q: %v", query, err)
	}

	return snapshot, nil
}

// assemble builds the aggregated result from a classified snapshot.
func (s *SearchService) assemble(query string, snapshot *resultSnapshot, started time.Time) *domain.AggregatedSearchResult {
	groups, totalRemaining := s.aggregator.Aggregate(snapshot.Candidates, snapshot.Total)

	bestScore := 0.0
	if len(snapshot.Candidates) > 0 {
		bestScore = snapshot.Candidates[0].RelevanceScore
	}

	return &domain.AggregatedSearchResult{
		Groups:         groups,
		TotalRemaining: totalRemaining,
		Suggestions:    Suggest(query, snapshot.Total, bestScore),
		Meta: domain.SearchMeta{
			Query:            query,
			TotalResults:     snapshot.Total,
			ProcessingTimeMs: time.Since(started).Milliseconds(),
		},
	}
}

// loadSnapshot reads a classified snapshot back from cache. Backends may
// return either the original struct or a JSON-decoded map, so the value is
// round-tripped through JSON to recover a typed snapshot either way.
func (s *SearchService) loadSnapshot(ctx context.Context, query string) (*resultSnapshot, error) {
	value, err := s.cache.Get(ctx, searchCacheKey(query))
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, domain.ErrCacheMiss
	}

	var snapshot resultSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil || snapshot.Query == "" {
		return nil, domain.ErrCacheMiss
	}
	return &snapshot, nil
}

// loadProduct reads a barcode product from cache, falling back to the
// upstream product database.
func (s *SearchService) loadProduct(ctx context.Context, code string) (*domain.BarcodeProduct, error) {
	if value, err := s.cache.Get(ctx, productCacheKey(code)); err == nil {
		if data, err := json.Marshal(value); err == nil {
			var product domain.BarcodeProduct
			if err := json.Unmarshal(data, &product); err == nil && product.Barcode != "" {
				return &product, nil
			}
		}
	}

	product, err := s.productClient.GetProduct(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, productCacheKey(code), product, s.cacheTTL); err != nil && s.debug {
		log.Printf("[SEARCH] Failed to cache product %s: %v", code, err)
	}

	return product, nil
}

func searchCacheKey(query string) string {
	return "search:" + strings.ToLower(query)
}

func productCacheKey(code string) string {
	return "product:" + code
}
