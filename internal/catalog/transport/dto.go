// Package transport defines the catalog module's request/response DTOs.
package transport

// FeatureResponse is one priced catalog feature.
type FeatureResponse struct {
	FeatureID   string   `json:"featureId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	PriceText   string   `json:"priceText"`
	Category    string   `json:"category"`
	Keywords    []string `json:"keywords"`
}

// FeatureListResponse lists every feature for one service type in
// catalog order.
type FeatureListResponse struct {
	ServiceType string            `json:"serviceType"`
	Features    []FeatureResponse `json:"features"`
}

// SearchResultResponse is one ranked search hit.
type SearchResultResponse struct {
	FeatureResponse
	Score int `json:"score"`
}

// SearchResponse carries the ranked matches for a catalog search.
type SearchResponse struct {
	ServiceType string                 `json:"serviceType"`
	Query       string                 `json:"query"`
	Results     []SearchResultResponse `json:"results"`
}
