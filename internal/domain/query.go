package domain

import (
	"fmt"
	"math"
	"strings"
)

// ListingQuery describes a filtered read over listings.
//
// The "not deleted" predicate is not a field: every query built here carries
// it, and stores translate it from Matches/Criteria rather than from caller
// input, so no read path can forget it.
type ListingQuery struct {
	ownerID     string
	text        string
	category    string
	subcategory string
}

// NewListingQuery returns a query that matches every listing that is not
// soft-deleted.
func NewListingQuery() ListingQuery {
	return ListingQuery{}
}

// WithOwner restricts the query to a single seller.
func (q ListingQuery) WithOwner(ownerID string) ListingQuery {
	q.ownerID = ownerID
	return q
}

// WithText adds a case-insensitive substring match against title OR description.
func (q ListingQuery) WithText(text string) ListingQuery {
	q.text = strings.TrimSpace(text)
	return q
}

// WithCategory adds an exact category match. Empty means no filter.
func (q ListingQuery) WithCategory(category string) ListingQuery {
	q.category = category
	return q
}

// WithSubcategory adds an exact subcategory match. Empty means no filter.
func (q ListingQuery) WithSubcategory(subcategory string) ListingQuery {
	q.subcategory = subcategory
	return q
}

// Criteria exposes the filter values for stores that translate the query
// into their own filter language.
type Criteria struct {
	OwnerID     string
	Text        string
	Category    string
	Subcategory string
}

func (q ListingQuery) Criteria() Criteria {
	return Criteria{
		OwnerID:     q.ownerID,
		Text:        q.text,
		Category:    q.category,
		Subcategory: q.subcategory,
	}
}

// Matches evaluates the query in memory.
func (q ListingQuery) Matches(l *Listing) bool {
	if l == nil || l.Deleted {
		return false
	}
	if q.ownerID != "" && l.SellerID != q.ownerID {
		return false
	}
	if q.category != "" && l.Category != q.category {
		return false
	}
	if q.subcategory != "" && l.Subcategory != q.subcategory {
		return false
	}
	if q.text != "" {
		needle := strings.ToLower(q.text)
		if !strings.Contains(strings.ToLower(l.Title), needle) &&
			!strings.Contains(strings.ToLower(l.Description), needle) {
			return false
		}
	}
	return true
}

// Filter keeps the listings matching q, preserving order.
func (q ListingQuery) Filter(listings []*Listing) []*Listing {
	out := make([]*Listing, 0, len(listings))
	for _, l := range listings {
		if q.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}

// GeoQuery asks a store for listings within RadiusMeters of Center, ordered
// by the store's native proximity metric, narrowed by Filter.
type GeoQuery struct {
	Center       GeoPoint
	RadiusMeters float64
	Filter       ListingQuery
}

// NewGeoQuery validates the center and radius before any store is involved.
func NewGeoQuery(center GeoPoint, radiusMeters float64, filter ListingQuery) (GeoQuery, error) {
	if err := center.Validate(); err != nil {
		return GeoQuery{}, err
	}
	if radiusMeters < 0 || math.IsNaN(radiusMeters) || math.IsInf(radiusMeters, 0) {
		return GeoQuery{}, fmt.Errorf("%w: maxDistance must be a non-negative number", ErrInvalidArgument)
	}
	return GeoQuery{Center: center, RadiusMeters: radiusMeters, Filter: filter}, nil
}

// RadiusKm returns the radius in kilometers.
func (g GeoQuery) RadiusKm() float64 {
	return g.RadiusMeters / MetersPerKm
}
