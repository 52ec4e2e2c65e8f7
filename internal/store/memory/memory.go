// Package memory provides an in-process listing repository. Its geo lookup
// is a latitude/longitude bounding box, a loose pre-filter that
// returns corner candidates beyond the radius.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
)

// Store keeps listings in a map guarded by a RWMutex
type Store struct {
	mu       sync.RWMutex
	listings map[string]*domain.Listing // ID -> Listing
}

// NewStore creates an empty memory store
func NewStore() *Store {
	return &Store{
		listings: make(map[string]*domain.Listing),
	}
}

// Count returns the number of stored listings, deleted included
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.listings)
}

// Ping always succeeds
func (s *Store) Ping(context.Context) error { return nil }

// Insert stores a copy of l
func (s *Store) Insert(_ context.Context, l *domain.Listing) (string, error) {
	if l.ID == "" {
		return "", fmt.Errorf("%w: listing ID is required", domain.ErrInvalidArgument)
	}
	if err := l.Location.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[l.ID]; ok {
		return "", fmt.Errorf("listing %s already exists", l.ID)
	}
	s.listings[l.ID] = l.Stored()
	return l.ID, nil
}

// Exists reports whether a listing exists, deleted or not
func (s *Store) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.listings[id]
	return ok, nil
}

// FindByID retrieves a copy of a listing by ID
func (s *Store) FindByID(_ context.Context, id string, includeDeleted bool) (*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[id]
	if !ok || (l.Deleted && !includeDeleted) {
		return nil, fmt.Errorf("%w: Listing not found", domain.ErrNotFound)
	}
	return l.Clone(), nil
}

// FindByOwner retrieves the live listings of a seller
func (s *Store) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	return s.Find(ctx, domain.NewListingQuery().WithOwner(ownerID))
}

// Find retrieves the listings matching q, newest first
func (s *Store) Find(_ context.Context, q domain.ListingQuery) ([]*domain.Listing, error) {
	s.mu.RLock()
	out := make([]*domain.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		if q.Matches(l) {
			out = append(out, l.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	domain.SortNewestFirst(out)
	return out, nil
}

// GeoQuery returns the listings inside the bounding box of the query circle,
// ordered by equirectangular distance. Box corners lie outside the circle,
// so callers must re-check exact distances.
func (s *Store) GeoQuery(_ context.Context, q domain.GeoQuery) ([]*domain.Listing, error) {
	box := boundingBox(q.Center, q.RadiusKm())

	s.mu.RLock()
	out := make([]*domain.Listing, 0)
	for _, l := range s.listings {
		if box.contains(l.Location) && q.Filter.Matches(l) {
			out = append(out, l.Clone())
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return equirectangular(q.Center, out[i].Location) < equirectangular(q.Center, out[j].Location)
	})
	return out, nil
}

// Update merges fields into the listing when ownerID is its seller
func (s *Store) Update(_ context.Context, id, ownerID string, fields domain.Fields) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.owned(id, ownerID, "update")
	if err != nil {
		return nil, err
	}

	next := l.Clone()
	fields.Apply(next)
	next.ID, next.SellerID, next.CreatedAt = l.ID, l.SellerID, l.CreatedAt
	s.listings[id] = next
	return next.Clone(), nil
}

// SoftDelete marks the listing deleted when ownerID is its seller
func (s *Store) SoftDelete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.owned(id, ownerID, "delete")
	if err != nil {
		return err
	}
	l.Deleted = true
	return nil
}

// owned must be called with the write lock held
func (s *Store) owned(id, ownerID, action string) (*domain.Listing, error) {
	l, ok := s.listings[id]
	if !ok || l.Deleted {
		return nil, fmt.Errorf("%w: Listing not found", domain.ErrNotFound)
	}
	if l.SellerID != ownerID {
		return nil, fmt.Errorf("%w: Unauthorized to %s this listing", domain.ErrForbidden, action)
	}
	return l, nil
}

// ─────────────────────────────────────────────────────────────────
// Bounding box
// ─────────────────────────────────────────────────────────────────

type bbox struct {
	minLat, maxLat float64
	minLon, maxLon float64
	allLon         bool
}

func boundingBox(center domain.GeoPoint, radiusKm float64) bbox {
	angular := radiusKm / domain.EarthRadiusKm
	dLat := angular * 180 / math.Pi
	b := bbox{
		minLat: math.Max(-90, center.Lat-dLat),
		maxLat: math.Min(90, center.Lat+dLat),
	}

	// the box reaches a pole: every longitude qualifies
	if b.minLat <= -90 || b.maxLat >= 90 {
		b.allLon = true
		return b
	}

	// widest longitude span of the circle
	x := math.Sin(angular) / math.Cos(center.Lat*math.Pi/180)
	if x >= 1 {
		b.allLon = true
		return b
	}
	dLon := math.Asin(x) * 180 / math.Pi
	b.minLon = center.Lon - dLon
	b.maxLon = center.Lon + dLon
	return b
}

func (b bbox) contains(p domain.GeoPoint) bool {
	if p.Lat < b.minLat || p.Lat > b.maxLat {
		return false
	}
	if b.allLon {
		return true
	}
	// the box may straddle the antimeridian
	for _, shift := range []float64{-360, 0, 360} {
		lon := p.Lon + shift
		if lon >= b.minLon && lon <= b.maxLon {
			return true
		}
	}
	return false
}

// equirectangular is the flat approximation used for ordering only.
func equirectangular(a, b domain.GeoPoint) float64 {
	dLon := math.Abs(a.Lon - b.Lon)
	if dLon > 180 {
		dLon = 360 - dLon
	}
	x := dLon * math.Cos((a.Lat+b.Lat)/2*math.Pi/180)
	y := a.Lat - b.Lat
	return math.Sqrt(x*x + y*y)
}
