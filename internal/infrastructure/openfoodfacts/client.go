package openfoodfacts

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// Client handles communication with the Open Food Facts product database.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Open Food Facts client. Open Food Facts asks API
// consumers to identify themselves with a descriptive User-Agent.
func NewClient(baseURL, userAgent string) *Client {
	if userAgent == "" {
		userAgent = "NutriScan/1.0"
	}

	// OFF asks for at most ~10 product reads per second
	limiter := rate.NewLimiter(rate.Limit(10), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:     baseURL,
		userAgent:   userAgent,
		rateLimiter: limiter,
	}
}

// SetDebug enables request/response logging.
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// GetProduct fetches one product by barcode. A 404, status 0, or missing
// product object all map to ErrNotFound so callers can offer a recovery path
// distinct from network failure.
func (c *Client) GetProduct(ctx context.Context, barcode string) (*domain.BarcodeProduct, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	reqURL := fmt.Sprintf("%s/product/%s.json", c.baseURL, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	root := gjson.ParseBytes(body)
	if root.Get("status").Int() == 0 || !root.Get("product").Exists() {
		if c.debug {
			log.Printf("[OFF] Product not found for barcode: %s", barcode)
		}
		return nil, domain.ErrNotFound
	}

	return parseProduct(barcode, root.Get("product")), nil
}

// parseProduct extracts the fields the mapper needs. Open Food Facts
// nutriment fields are loosely typed (the same field arrives as a number or a
// string depending on the contributor), which is why this goes through gjson
// rather than a struct decode.
func parseProduct(barcode string, p gjson.Result) *domain.BarcodeProduct {
	nutriments := p.Get("nutriments")

	product := &domain.BarcodeProduct{
		Barcode:         barcode,
		Name:            p.Get("product_name").String(),
		Brand:           firstBrand(p.Get("brands").String()),
		Nutrients:       parseNutriments(nutriments),
		ServingSize:     p.Get("serving_size").String(),
		ServingQuantity: p.Get("serving_quantity").Float(),
		NutriScore:      p.Get("nutriscore_grade").String(),
		NovaGroup:       int(p.Get("nova_group").Int()),
	}
	return product
}

// parseNutriments reads the per-100g nutrient fields. Energy prefers the
// explicitly tagged kcal field, then the kJ field, then the bare energy field
// whose unit tag may be absent (left to the normalizer's heuristic).
func parseNutriments(n gjson.Result) domain.RawNutrients {
	var raw domain.RawNutrients

	if v := n.Get("energy-kcal_100g"); v.Exists() {
		energy := v.Float()
		raw.Energy = &energy
		raw.EnergyUnit = "kcal"
	} else if v := n.Get("energy-kj_100g"); v.Exists() {
		energy := v.Float()
		raw.Energy = &energy
		raw.EnergyUnit = "kJ"
	} else if v := n.Get("energy_100g"); v.Exists() {
		energy := v.Float()
		raw.Energy = &energy
		raw.EnergyUnit = n.Get("energy_unit").String()
	}

	raw.ProteinG = optionalField(n, "proteins_100g")
	raw.CarbsG = optionalField(n, "carbohydrates_100g")
	raw.FatG = optionalField(n, "fat_100g")
	raw.FiberG = optionalField(n, "fiber_100g")
	raw.SugarG = optionalField(n, "sugars_100g")

	// OFF publishes sodium in grams per 100g; the pipeline wants mg
	if v := n.Get("sodium_100g"); v.Exists() {
		sodiumMg := v.Float() * 1000
		raw.SodiumMg = &sodiumMg
	}

	return raw
}

// optionalField returns a pointer to the field's value, or nil when the
// source genuinely does not report it.
func optionalField(n gjson.Result, key string) *float64 {
	v := n.Get(key)
	if !v.Exists() {
		return nil
	}
	value := v.Float()
	return &value
}

// firstBrand takes the first entry of OFF's comma-separated brands list.
func firstBrand(brands string) string {
	brand, _, _ := strings.Cut(brands, ",")
	return strings.TrimSpace(brand)
}
