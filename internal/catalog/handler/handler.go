// Package handler exposes the pricing catalog over HTTP.
package handler

import (
	"strings"

	"novyrix_backend/internal/catalog/pricing"
	"novyrix_backend/internal/catalog/transport"
	"novyrix_backend/platform/currency"
	"novyrix_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the pricing catalog.
type Handler struct {
	catalog   *pricing.Catalog
	formatter *currency.Formatter
}

// New creates a new catalog handler.
func New(catalog *pricing.Catalog, formatter *currency.Formatter) *Handler {
	return &Handler{catalog: catalog, formatter: formatter}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:serviceType/features", h.ListFeatures)
	rg.GET("/:serviceType/search", h.Search)
}

// ListFeatures returns every feature for a service type in catalog order.
func (h *Handler) ListFeatures(c *gin.Context) {
	matrix, err := h.matrix(c.Param("serviceType"))
	if httpkit.HandleError(c, err) {
		return
	}

	features := matrix.Features()
	resp := transport.FeatureListResponse{
		ServiceType: string(matrix.ServiceType()),
		Features:    make([]transport.FeatureResponse, 0, len(features)),
	}
	for _, f := range features {
		resp.Features = append(resp.Features, h.featureResponse(f))
	}
	httpkit.OK(c, resp)
}

// Search ranks catalog features against a free-text query. An empty
// query yields empty results, mirroring the search semantics.
func (h *Handler) Search(c *gin.Context) {
	matrix, err := h.matrix(c.Param("serviceType"))
	if httpkit.HandleError(c, err) {
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	matches := matrix.Search(query)

	resp := transport.SearchResponse{
		ServiceType: string(matrix.ServiceType()),
		Query:       query,
		Results:     make([]transport.SearchResultResponse, 0, len(matches)),
	}
	for _, m := range matches {
		resp.Results = append(resp.Results, transport.SearchResultResponse{
			FeatureResponse: h.featureResponse(m.Feature),
			Score:           m.Score,
		})
	}
	httpkit.OK(c, resp)
}

func (h *Handler) matrix(raw string) (*pricing.Matrix, error) {
	serviceType, err := pricing.ParseServiceType(raw)
	if err != nil {
		return nil, err
	}
	return h.catalog.Matrix(serviceType)
}

func (h *Handler) featureResponse(f pricing.Feature) transport.FeatureResponse {
	return transport.FeatureResponse{
		FeatureID:   f.ID,
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		PriceText:   h.formatter.Format(f.Price),
		Category:    f.Category,
		Keywords:    f.Keywords,
	}
}
