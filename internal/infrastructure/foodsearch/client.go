package foodsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/nutriscan/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client handles communication with the upstream food-search endpoint.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// searchRequest is the upstream endpoint's request body.
type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// NewClient creates a new food-search client.
func NewClient(apiKey, baseURL string) *Client {
	// Upstream allows sustained 5 req/s per key with short bursts
	limiter := rate.NewLimiter(rate.Limit(5), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug enables request/response logging.
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// SearchFoods posts a text query to the upstream search endpoint. Rate-limit
// responses map to ErrRateLimited so callers can distinguish throttling from
// generic failure; transient failures are retried up to 3 times.
func (c *Client) SearchFoods(ctx context.Context, query string, limit int) (*domain.SearchResponse, error) {
	if c.debug {
		log.Printf("[SEARCH] SearchFoods called with query: %q", query)
	}

	payload, err := json.Marshal(searchRequest{Query: query, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/food-search", c.baseURL)

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL, payload)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if c.debug {
				log.Printf("[SEARCH] Request error (attempt %d): %v", attempt, err)
			}
			lastErr = err
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			var searchResp domain.SearchResponse
			if err := json.Unmarshal(body, &searchResp); err != nil {
				return nil, fmt.Errorf("%w: malformed response: %v", domain.ErrUpstreamFailure, err)
			}
			if c.debug {
				log.Printf("[SEARCH] Found %d of %d foods for query: %q", len(searchResp.Foods), searchResp.Total, query)
			}
			return &searchResp, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			// Throttling must stay distinguishable from generic failure
			return nil, fmt.Errorf("%w: status %d", domain.ErrRateLimited, resp.StatusCode)

		case resp.StatusCode >= 500:
			logErrorEnvelope(c.debug, attempt, resp.StatusCode, body)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue

		default:
			logErrorEnvelope(c.debug, attempt, resp.StatusCode, body)
			return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, resp.StatusCode)
		}
	}

	return nil, lastErr
}

// doRequest executes the POST with proper headers.
func (c *Client) doRequest(ctx context.Context, reqURL string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "NutriScan/1.0")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	return resp, nil
}

// logErrorEnvelope decodes the upstream error envelope for diagnostics when
// debug logging is on. The envelope shape is {stage, error, requestId}.
func logErrorEnvelope(debug bool, attempt, status int, body []byte) {
	if !debug {
		return
	}
	var envelope domain.ErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		log.Printf("[SEARCH] Upstream error (attempt %d) - Status: %d, Stage: %s, Error: %s, RequestID: %s",
			attempt, status, envelope.Stage, envelope.Error, envelope.RequestID)
		return
	}
	log.Printf("[SEARCH] Upstream error (attempt %d) - Status: %d, Body: %s", attempt, status, string(body))
}
