package memory

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
)

func newListing(id, seller string, lon, lat float64) *domain.Listing {
	return &domain.Listing{
		ID:        id,
		SellerID:  seller,
		Title:     "Listing " + id,
		Location:  domain.NewGeoPoint(lon, lat),
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func geoQuery(t *testing.T, lon, lat, radiusMeters float64) domain.GeoQuery {
	t.Helper()
	q, err := domain.NewGeoQuery(domain.NewGeoPoint(lon, lat), radiusMeters, domain.NewListingQuery())
	require.NoError(t, err)
	return q
}

func TestNewStore(t *testing.T) {
	s := NewStore()
	require.NotNil(t, s)
	assert.Equal(t, 0, s.Count())
	assert.NoError(t, s.Ping(context.Background()))
}

func TestInsertRejectsDuplicatesAndBadInput(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.Insert(ctx, newListing("a", "alice", 1, 1))
	require.NoError(t, err)

	_, err = s.Insert(ctx, newListing("a", "alice", 1, 1))
	assert.Error(t, err)

	_, err = s.Insert(ctx, newListing("", "alice", 1, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = s.Insert(ctx, newListing("b", "alice", 1, 95))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	assert.Equal(t, 1, s.Count())
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	l := newListing("a", "alice", 1, 1)
	l.AdditionalImages = []string{"one.png"}
	_, err := s.Insert(ctx, l)
	require.NoError(t, err)

	l.Title = "changed by caller"
	got, err := s.FindByID(ctx, "a", false)
	require.NoError(t, err)
	assert.Equal(t, "Listing a", got.Title)

	got.AdditionalImages[0] = "mutated.png"
	again, err := s.FindByID(ctx, "a", false)
	require.NoError(t, err)
	assert.Equal(t, "one.png", again.AdditionalImages[0])
}

func TestGeoQueryBoxIsLooserThanCircle(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	// ~62.9 km away along the diagonal, but inside the 50 km box
	_, err := s.Insert(ctx, newListing("corner", "alice", 0.4, 0.4))
	require.NoError(t, err)
	// ~111 km away, outside the box
	_, err = s.Insert(ctx, newListing("outside", "alice", 0, 1))
	require.NoError(t, err)
	_, err = s.Insert(ctx, newListing("center", "alice", 0, 0))
	require.NoError(t, err)

	got, err := s.GeoQuery(ctx, geoQuery(t, 0, 0, 50000))
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "center", got[0].ID)
	assert.Equal(t, "corner", got[1].ID)
	assert.Greater(t, domain.NewGeoPoint(0, 0).DistanceTo(got[1].Location), 50.0)
}

func TestGeoQueryNeverMissesPointsInsideRadius(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	center := domain.NewGeoPoint(10, 60)
	// points exactly on the circle in eight directions, pulled in by 10 m
	radiusKm := 25.0
	angular := (radiusKm - 0.01) / domain.EarthRadiusKm
	id := 0
	for _, bearing := range []float64{0, 45, 90, 135, 180, 225, 270, 315} {
		p := destination(center, bearing, angular)
		id++
		_, err := s.Insert(ctx, newListing(string(rune('a'+id)), "alice", p.Lon, p.Lat))
		require.NoError(t, err)
		require.LessOrEqual(t, center.DistanceTo(p), radiusKm)
	}

	got, err := s.GeoQuery(ctx, geoQuery(t, center.Lon, center.Lat, radiusKm*1000))
	require.NoError(t, err)
	assert.Len(t, got, 8)
}

func TestGeoQueryAcrossAntimeridian(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.Insert(ctx, newListing("east", "alice", 179.9, 0))
	require.NoError(t, err)
	_, err = s.Insert(ctx, newListing("west", "alice", -179.9, 0))
	require.NoError(t, err)

	got, err := s.GeoQuery(ctx, geoQuery(t, 179.95, 0, 50000))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestGeoQueryNearPole(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.Insert(ctx, newListing("far-side", "alice", -170, 89.9))
	require.NoError(t, err)

	got, err := s.GeoQuery(ctx, geoQuery(t, 10, 89.9, 50000))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestUpdateAndSoftDeleteCheckOwner(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, err := s.Insert(ctx, newListing("a", "alice", 1, 1))
	require.NoError(t, err)

	title := "New title"
	_, err = s.Update(ctx, "a", "bob", domain.Fields{Title: &title})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = s.Update(ctx, "missing", "alice", domain.Fields{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	updated, err := s.Update(ctx, "a", "alice", domain.Fields{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "alice", updated.SellerID)

	assert.ErrorIs(t, s.SoftDelete(ctx, "a", "bob"), domain.ErrForbidden)
	require.NoError(t, s.SoftDelete(ctx, "a", "alice"))
	assert.ErrorIs(t, s.SoftDelete(ctx, "a", "alice"), domain.ErrNotFound)

	_, err = s.FindByID(ctx, "a", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	deleted, err := s.FindByID(ctx, "a", true)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	exists, err := s.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, exists)

	all, err := s.Find(ctx, domain.NewListingQuery())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, err := s.Insert(ctx, newListing("a", "alice", 1, 1))
	require.NoError(t, err)

	q := geoQuery(t, 1, 1, 1000)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			price := 1.0
			_, _ = s.Update(ctx, "a", "alice", domain.Fields{Price: &price})
		}()
		go func() {
			defer wg.Done()
			_, _ = s.GeoQuery(ctx, q)
		}()
	}
	wg.Wait()
}

// destination moves angular radians from p along bearing (degrees).
func destination(p domain.GeoPoint, bearing, angular float64) domain.GeoPoint {
	lat1 := p.Lat * math.Pi / 180
	lon1 := p.Lon * math.Pi / 180
	b := bearing * math.Pi / 180

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(angular) + math.Cos(lat1)*math.Sin(angular)*math.Cos(b))
	lon2 := lon1 + math.Atan2(math.Sin(b)*math.Sin(angular)*math.Cos(lat1), math.Cos(angular)-math.Sin(lat1)*math.Sin(lat2))
	return domain.NewGeoPoint(lon2*180/math.Pi, lat2*180/math.Pi)
}
