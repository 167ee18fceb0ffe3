package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nutriscan/backend/config"
	"github.com/nutriscan/backend/internal/domain"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

// stubService is a canned NutritionService for handler tests.
type stubService struct {
	searchResult *domain.AggregatedSearchResult
	searchErr    error
	expandGroup  *domain.SearchResultGroup
	expandErr    error
	candidates   []domain.FoodCandidate
	barcodeErr   error

	lastQuery    string
	lastCursor   string
	lastCode     string
	lastQuantity float64
	lastUnit     string
}

func (s *stubService) Search(ctx context.Context, query string) (*domain.AggregatedSearchResult, error) {
	s.lastQuery = query
	return s.searchResult, s.searchErr
}

func (s *stubService) Expand(ctx context.Context, query, cursor string) (*domain.SearchResultGroup, error) {
	s.lastQuery = query
	s.lastCursor = cursor
	return s.expandGroup, s.expandErr
}

func (s *stubService) LookupBarcode(ctx context.Context, code string, quantity float64, unit string) ([]domain.FoodCandidate, error) {
	s.lastCode = code
	s.lastQuantity = quantity
	s.lastUnit = unit
	return s.candidates, s.barcodeErr
}

func newTestRouter(service NutritionService) *gin.Engine {
	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.Server.AllowedOrigins = []string{"*"}
	return SetupRouter(cfg, NewHandler(service))
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&stubService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q, want healthy", body["status"])
	}
}

func TestSearchFoods(t *testing.T) {
	t.Run("successful search", func(t *testing.T) {
		service := &stubService{
			searchResult: &domain.AggregatedSearchResult{
				Meta: domain.SearchMeta{Query: "apple", TotalResults: 5},
				Groups: []domain.SearchResultGroup{
					{Title: "Common Foods", DataType: domain.DataTypeCommon},
				},
			},
		}
		router := newTestRouter(service)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/food/search", strings.NewReader(`{"query":"apple"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
		}
		if service.lastQuery != "apple" {
			t.Errorf("service received query %q, want apple", service.lastQuery)
		}

		var result domain.AggregatedSearchResult
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("invalid JSON body: %v", err)
		}
		if result.Meta.TotalResults != 5 {
			t.Errorf("Meta.TotalResults = %d, want 5", result.Meta.TotalResults)
		}
	})

	t.Run("missing query field", func(t *testing.T) {
		router := newTestRouter(&stubService{})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/food/search", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("error envelope carries request id", func(t *testing.T) {
		router := newTestRouter(&stubService{searchErr: domain.ErrUpstreamFailure})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/food/search", strings.NewReader(`{"query":"apple"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-ID", "trace-me-1")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", w.Code)
		}

		var envelope domain.ErrorEnvelope
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("invalid JSON body: %v", err)
		}
		if envelope.Stage != "search" {
			t.Errorf("Stage = %q, want search", envelope.Stage)
		}
		if envelope.RequestID != "trace-me-1" {
			t.Errorf("RequestID = %q, want trace-me-1", envelope.RequestID)
		}
	})

	t.Run("no service configured", func(t *testing.T) {
		router := newTestRouter(nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/food/search", strings.NewReader(`{"query":"apple"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", w.Code)
		}
	})
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"stale cursor", domain.ErrStaleCursor, http.StatusGone},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests},
		{"canceled", domain.ErrCanceled, 499},
		{"upstream failure", domain.ErrUpstreamFailure, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubService{searchErr: tt.err})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/api/v1/food/search", strings.NewReader(`{"query":"apple"}`))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestExpandGroup(t *testing.T) {
	t.Run("passes query and cursor through", func(t *testing.T) {
		service := &stubService{
			expandGroup: &domain.SearchResultGroup{Title: "Branded Foods", DataType: domain.DataTypeBranded},
		}
		router := newTestRouter(service)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/food/search/more?query=apple&cursor=branded:3", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
		}
		if service.lastQuery != "apple" || service.lastCursor != "branded:3" {
			t.Errorf("service received (%q, %q)", service.lastQuery, service.lastCursor)
		}
	})

	t.Run("stale cursor maps to gone", func(t *testing.T) {
		router := newTestRouter(&stubService{expandErr: domain.ErrStaleCursor})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/food/search/more?query=apple&cursor=branded:99", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusGone {
			t.Errorf("status = %d, want 410", w.Code)
		}
	})
}

func TestLookupBarcodeHandler(t *testing.T) {
	t.Run("defaults quantity and unit", func(t *testing.T) {
		service := &stubService{candidates: []domain.FoodCandidate{{ID: "5901234123457"}}}
		router := newTestRouter(service)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/food/barcode/5901234123457", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
		}
		if service.lastCode != "5901234123457" {
			t.Errorf("code = %q", service.lastCode)
		}
		if service.lastQuantity != 1.0 || service.lastUnit != "serving" {
			t.Errorf("defaults = (%v, %q), want (1, serving)", service.lastQuantity, service.lastUnit)
		}
	})

	t.Run("parses quantity and unit", func(t *testing.T) {
		service := &stubService{candidates: []domain.FoodCandidate{{ID: "5901234123457"}}}
		router := newTestRouter(service)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/food/barcode/5901234123457?quantity=2.5&unit=g", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if service.lastQuantity != 2.5 || service.lastUnit != "g" {
			t.Errorf("params = (%v, %q), want (2.5, g)", service.lastQuantity, service.lastUnit)
		}
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		service := &stubService{}
		router := newTestRouter(service)

		for _, raw := range []string{"0", "-1", "abc"} {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/api/v1/food/barcode/5901234123457?quantity="+raw, nil)
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("quantity=%q: status = %d, want 400", raw, w.Code)
			}
		}
		if service.lastCode != "" {
			t.Error("service was called despite invalid quantity")
		}
	})

	t.Run("unknown product maps to not found", func(t *testing.T) {
		router := newTestRouter(&stubService{barcodeErr: domain.ErrNotFound})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/food/barcode/00000000", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}
