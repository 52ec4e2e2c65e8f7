// Package listing holds the listing lifecycle manager and the search and
// proximity engine. Both talk to storage only through Repository.
package listing

import (
	"context"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
)

// Repository abstracts a document store with a sphere-aware geospatial index
// keyed on the listing location.
//
// Every method except FindByID(includeDeleted=true) hides soft-deleted
// listings. Update and SoftDelete perform an atomic update-if-owner-matches:
// they return domain.ErrNotFound when the listing is absent and
// domain.ErrForbidden when ownerID is not the seller.
type Repository interface {
	Insert(ctx context.Context, l *domain.Listing) (string, error)
	FindByID(ctx context.Context, id string, includeDeleted bool) (*domain.Listing, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error)

	// Find returns the listings matching q, newest first.
	Find(ctx context.Context, q domain.ListingQuery) ([]*domain.Listing, error)

	// GeoQuery returns listings within q.RadiusMeters of q.Center that match
	// q.Filter, ordered by the store's proximity metric. The store index is a
	// pre-filter: callers needing an exact radius must re-check distances.
	GeoQuery(ctx context.Context, q domain.GeoQuery) ([]*domain.Listing, error)

	Update(ctx context.Context, id, ownerID string, fields domain.Fields) (*domain.Listing, error)
	SoftDelete(ctx context.Context, id, ownerID string) error
}
