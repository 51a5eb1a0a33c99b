// Package quote implements the per-session quote accumulator: a priced
// bundle of catalog features split into mandatory and optional items.
package quote

import (
	"errors"

	"novyrix_backend/internal/catalog/pricing"
	"novyrix_backend/platform/currency"
)

// Conversational signals. These are fed back to the model as structured
// tool results, not surfaced as HTTP errors.
var (
	// ErrFeatureNotFound signals an unknown feature ID for the quote's service type.
	ErrFeatureNotFound = errors.New("feature not found in catalog")
	// ErrAlreadyAdded signals a duplicate add; the quote is left unchanged.
	ErrAlreadyAdded = errors.New("feature already added to quote")
)

// Item is the projection of a catalog feature attached to a quote.
// Items are never mutated after creation.
type Item struct {
	FeatureID   string `json:"featureId"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func itemFromFeature(f pricing.Feature) Item {
	return Item{
		FeatureID:   f.ID,
		Name:        f.Name,
		Price:       f.Price,
		Description: f.Description,
		Category:    f.Category,
	}
}

// Quote is a priced feature bundle for one prospective client, scoped to
// one service type. Every item belongs to exactly one of the mandatory or
// optional partitions, and Total always equals the sum of item prices.
type Quote struct {
	ServiceType pricing.ServiceType `json:"serviceType"`
	Items       []Item              `json:"items"`
	Mandatory   []Item              `json:"mandatory"`
	Optional    []Item              `json:"optional"`
	Total       int                 `json:"total"`
}

// Start creates a quote seeded with the service type's mandatory
// foundation feature. A catalog missing its foundation feature is a
// catalog-integrity error.
func Start(catalog *pricing.Catalog, serviceType pricing.ServiceType) (*Quote, error) {
	foundation, err := catalog.Foundation(serviceType)
	if err != nil {
		return nil, err
	}

	q := &Quote{ServiceType: serviceType}
	item := itemFromFeature(foundation)
	q.Items = append(q.Items, item)
	q.Mandatory = append(q.Mandatory, item)
	q.recomputeTotal()
	return q, nil
}

// Contains reports whether a feature is already on the quote.
func (q *Quote) Contains(featureID string) bool {
	for _, item := range q.Items {
		if item.FeatureID == featureID {
			return true
		}
	}
	return false
}

// AddFeature appends a catalog feature to the quote's optional partition.
// Returns ErrFeatureNotFound for an unknown ID and ErrAlreadyAdded (with
// the existing item, quote unchanged) for a duplicate.
func (q *Quote) AddFeature(catalog *pricing.Catalog, featureID string) (Item, error) {
	matrix, err := catalog.Matrix(q.ServiceType)
	if err != nil {
		return Item{}, err
	}

	feature, ok := matrix.Get(featureID)
	if !ok {
		return Item{}, ErrFeatureNotFound
	}
	if q.Contains(featureID) {
		return itemFromFeature(feature), ErrAlreadyAdded
	}

	item := itemFromFeature(feature)
	q.Items = append(q.Items, item)
	q.Optional = append(q.Optional, item)
	q.recomputeTotal()
	return item, nil
}

// recomputeTotal sums the current items. The total is always recomputed
// rather than tracked incrementally so it cannot drift from the items.
func (q *Quote) recomputeTotal() {
	total := 0
	for _, item := range q.Items {
		total += item.Price
	}
	q.Total = total
}

// Breakdown is a read-only projection of the quote with per-partition
// subtotals, recomputed the same way as Total.
type Breakdown struct {
	ServiceType       string `json:"serviceType"`
	Items             []Item `json:"items"`
	Mandatory         []Item `json:"mandatory"`
	Optional          []Item `json:"optional"`
	MandatorySubtotal int    `json:"mandatorySubtotal"`
	OptionalSubtotal  int    `json:"optionalSubtotal"`
	Total             int    `json:"total"`
	FormattedTotal    string `json:"formattedTotal,omitempty"`
}

// Breakdown builds the read-only projection. The formatter is optional.
func (q *Quote) Breakdown(formatter *currency.Formatter) Breakdown {
	b := Breakdown{
		ServiceType: string(q.ServiceType),
		Items:       append([]Item(nil), q.Items...),
		Mandatory:   append([]Item(nil), q.Mandatory...),
		Optional:    append([]Item(nil), q.Optional...),
	}
	for _, item := range q.Mandatory {
		b.MandatorySubtotal += item.Price
	}
	for _, item := range q.Optional {
		b.OptionalSubtotal += item.Price
	}
	for _, item := range q.Items {
		b.Total += item.Price
	}
	if formatter != nil {
		b.FormattedTotal = formatter.Format(b.Total)
	}
	return b
}
