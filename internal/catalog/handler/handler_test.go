package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"novyrix_backend/internal/catalog/pricing"
	"novyrix_backend/internal/catalog/transport"
	"novyrix_backend/platform/currency"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog, err := pricing.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	engine := gin.New()
	h := New(catalog, currency.NewFormatter("KES"))
	h.RegisterRoutes(engine.Group("/api/v1/catalog"))
	return engine
}

func TestListFeaturesReturnsCatalogOrder(t *testing.T) {
	engine := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/website/features", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp transport.FeatureListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ServiceType != "website" {
		t.Fatalf("unexpected service type %q", resp.ServiceType)
	}
	if len(resp.Features) == 0 {
		t.Fatal("expected features in response")
	}
	if resp.Features[0].FeatureID != "WEB-BASE" {
		t.Fatalf("expected WEB-BASE first, got %s", resp.Features[0].FeatureID)
	}
	if resp.Features[0].PriceText != "KES 45,000" {
		t.Fatalf("unexpected price text %q", resp.Features[0].PriceText)
	}
}

func TestListFeaturesRejectsUnknownServiceType(t *testing.T) {
	engine := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/consulting/features", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown service type, got %d", w.Code)
	}
}

func TestSearchRanksMatches(t *testing.T) {
	engine := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/website/search?q=mpesa", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp transport.SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) == 0 {
		t.Fatal("expected search results")
	}
	if resp.Results[0].FeatureID != "WEB-MPESA" {
		t.Fatalf("expected WEB-MPESA on top, got %s", resp.Results[0].FeatureID)
	}
	for i := 1; i < len(resp.Results); i++ {
		if resp.Results[i].Score > resp.Results[i-1].Score {
			t.Fatalf("results not sorted by score at index %d", i)
		}
	}
}

func TestSearchEmptyQueryReturnsNoResults(t *testing.T) {
	engine := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/website/search?q=", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp transport.SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Fatalf("expected no results for empty query, got %d", len(resp.Results))
	}
}
