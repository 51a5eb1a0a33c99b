// Package pricing holds the static pricing catalog: priced features
// partitioned by service type, loaded once at startup and read-only for
// the process lifetime.
package pricing

import (
	"novyrix_backend/platform/apperr"
)

// ServiceType identifies one of the agency's quotable offerings.
type ServiceType string

const (
	// ServiceWebsite is a full custom website build.
	ServiceWebsite ServiceType = "website"
	// ServiceAutomation is a business workflow automation build.
	ServiceAutomation ServiceType = "automation"
	// ServiceStarter is the starter-tier website package.
	ServiceStarter ServiceType = "starter"
)

// ParseServiceType validates an externally supplied service type string.
func ParseServiceType(value string) (ServiceType, error) {
	switch ServiceType(value) {
	case ServiceWebsite, ServiceAutomation, ServiceStarter:
		return ServiceType(value), nil
	default:
		return "", apperr.Validation("unknown service type: " + value)
	}
}

// foundationFeatures maps each service type to the mandatory baseline
// feature auto-added when a quote is started.
var foundationFeatures = map[ServiceType]string{
	ServiceWebsite:    "WEB-BASE",
	ServiceAutomation: "WF-CORE",
	ServiceStarter:    "ST-BASE",
}

// FoundationFeatureID returns the fixed baseline feature ID for a service type.
func FoundationFeatureID(serviceType ServiceType) string {
	return foundationFeatures[serviceType]
}

// Feature is a priced catalog entry representing a buildable capability.
// Features are immutable after loading.
type Feature struct {
	ID          string   `json:"featureId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Category    string   `json:"category"`
	Keywords    []string `json:"keywords"`
}

// Matrix is the ordered feature collection for one service type.
// Iteration order is the catalog file order; ranking ties preserve it.
type Matrix struct {
	serviceType ServiceType
	order       []string
	features    map[string]Feature
}

// ServiceType returns the service type this matrix belongs to.
func (m *Matrix) ServiceType() ServiceType {
	return m.serviceType
}

// Get looks up a feature by ID.
func (m *Matrix) Get(id string) (Feature, bool) {
	f, ok := m.features[id]
	return f, ok
}

// Features returns all features in catalog order.
func (m *Matrix) Features() []Feature {
	out := make([]Feature, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.features[id])
	}
	return out
}

// Len returns the number of features in the matrix.
func (m *Matrix) Len() int {
	return len(m.order)
}

// Catalog is the full pricing catalog across all service types.
type Catalog struct {
	matrices map[ServiceType]*Matrix
}

// Matrix returns the feature matrix for a service type.
// An unknown service type is an input-contract violation.
func (c *Catalog) Matrix(serviceType ServiceType) (*Matrix, error) {
	m, ok := c.matrices[serviceType]
	if !ok {
		return nil, apperr.Validation("unknown service type: " + string(serviceType))
	}
	return m, nil
}

// Foundation returns the mandatory baseline feature for a service type.
// A missing foundation feature is a catalog-integrity error.
func (c *Catalog) Foundation(serviceType ServiceType) (Feature, error) {
	m, err := c.Matrix(serviceType)
	if err != nil {
		return Feature{}, err
	}

	id := FoundationFeatureID(serviceType)
	feature, ok := m.Get(id)
	if !ok {
		return Feature{}, apperr.Internal("catalog is missing foundation feature " + id)
	}
	return feature, nil
}
