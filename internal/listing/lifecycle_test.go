package listing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
)

func TestCreateStampsOwnerIDAndTime(t *testing.T) {
	f := newFixture()

	l := f.create(t, "alice", "Camping Tent", 77.5946, 12.9716)

	assert.Equal(t, "listing-1", l.ID)
	assert.Equal(t, "alice", l.SellerID)
	assert.False(t, l.CreatedAt.IsZero())
	assert.False(t, l.Deleted)
}

func TestCreateThenFetchKeepsCoordinates(t *testing.T) {
	f := newFixture()
	created := f.create(t, "alice", "Camping Tent", 77.5946, 12.9716)

	got, err := f.manager.Get(context.Background(), created.ID)
	require.NoError(t, err)

	assert.InDelta(t, 77.5946, got.Location.Lon, 1e-9)
	assert.InDelta(t, 12.9716, got.Location.Lat, 1e-9)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		name   string
		owner  string
		fields domain.Fields
	}{
		{name: "no owner", owner: "", fields: fields("Tent", 1, 1)},
		{name: "no location", owner: "alice", fields: domain.Fields{Title: strPtr("Tent"), Price: new(float64)}},
		{name: "latitude out of range", owner: "alice", fields: fields("Tent", 1, 91)},
		{name: "longitude NaN", owner: "alice", fields: fields("Tent", math.NaN(), 1)},
		{name: "no title", owner: "alice", fields: domain.Fields{Price: new(float64), Location: fields("x", 1, 1).Location}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.manager.Create(ctx, tt.owner, tt.fields)
			require.Error(t, err)
			assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
		})
	}
	assert.Equal(t, 0, f.store.Count(), "nothing must be stored on invalid input")
}

func TestUpdateMergesSuppliedFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	l := f.create(t, "alice", "Camping Tent", 77.5946, 12.9716)

	price := 80.0
	updated, err := f.manager.Update(ctx, l.ID, "alice", domain.Fields{Price: &price})
	require.NoError(t, err)

	assert.Equal(t, 80.0, updated.Price)
	assert.Equal(t, "Camping Tent", updated.Title)
	assert.Equal(t, l.Location, updated.Location)
	assert.Equal(t, l.CreatedAt, updated.CreatedAt)
}

func TestUpdateAndDeleteOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	l := f.create(t, "alice", "Camping Tent", 77.5946, 12.9716)

	_, err := f.manager.Update(ctx, l.ID, "bob", domain.Fields{Title: strPtr("Mine now")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.manager.Delete(ctx, l.ID, "bob")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.manager.Delete(ctx, "does-not-exist", "alice")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.manager.Update(ctx, "does-not-exist", "alice", domain.Fields{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.manager.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Camping Tent", got.Title)
}

func TestUpdateRejectsInvalidLocation(t *testing.T) {
	f := newFixture()
	l := f.create(t, "alice", "Camping Tent", 77.5946, 12.9716)

	bad := domain.NewGeoPoint(181, 0)
	_, err := f.manager.Update(context.Background(), l.ID, "alice", domain.Fields{Location: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestDeletedListingIsHiddenEverywhere(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	l := f.create(t, "alice", "Camping Tent", 77.5946, 12.9716)
	f.create(t, "alice", "Camping Stove", 77.5946, 12.9716)

	require.NoError(t, f.manager.Delete(ctx, l.ID, "alice"))

	_, err := f.manager.Get(ctx, l.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := f.manager.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	mine, err := f.manager.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	res, err := f.engine.Search(ctx, SearchParams{Query: "tent", MaxDistanceKm: DefaultSearchRadiusKm})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())

	near, err := f.engine.Nearby(ctx, NearbyParams{Origin: l.Location, MaxDistanceMeters: DefaultNearbyRadiusMeters})
	require.NoError(t, err)
	require.Len(t, near.Listings, 1)
	assert.Equal(t, "Camping Stove", near.Listings[0].Title)

	// deleting twice is a not-found, the record itself is kept
	assert.ErrorIs(t, f.manager.Delete(ctx, l.ID, "alice"), domain.ErrNotFound)
	assert.Equal(t, 2, f.store.Count())
}

func TestListAllNewestFirst(t *testing.T) {
	f := newFixture()
	f.create(t, "alice", "first", 1, 1)
	f.create(t, "bob", "second", 1, 1)
	f.create(t, "alice", "third", 1, 1)

	all, err := f.manager.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Title)
	assert.Equal(t, "first", all[2].Title)

	mine, err := f.manager.ListByOwner(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
