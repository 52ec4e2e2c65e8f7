package seed

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
)

func f64(v float64) *float64 { return &v }

func validEntry() ListingEntry {
	return ListingEntry{
		SellerID: "alice",
		Title:    "Camping Tent",
		Price:    f64(120),
		City:     "Bengaluru",
		Location: LocationEntry{Lat: f64(12.9716), Lon: f64(77.5946), DisplayName: "MG Road"},
	}
}

func TestMapListing(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	l, err := MapListing(validEntry(), now)
	if err != nil {
		t.Fatalf("MapListing() error = %v", err)
	}

	if l.Location.Lon != 77.5946 || l.Location.Lat != 12.9716 {
		t.Errorf("Location = %v", l.Location)
	}
	if l.LocationDisplayName != "MG Road" || l.City != "Bengaluru" {
		t.Errorf("place fields not mapped: %+v", l)
	}
	if !l.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", l.CreatedAt, now)
	}
	if !strings.HasPrefix(l.ID, "seed-") {
		t.Errorf("ID = %q, want derived seed- prefix", l.ID)
	}
}

func TestMapListingStableID(t *testing.T) {
	a, err := MapListing(validEntry(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	b, err := MapListing(validEntry(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != b.ID {
		t.Errorf("derived IDs differ: %q vs %q", a.ID, b.ID)
	}

	moved := validEntry()
	moved.Location.Lon = f64(77.6)
	c, err := MapListing(moved, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if c.ID == a.ID {
		t.Error("a different location should derive a different ID")
	}

	explicit := validEntry()
	explicit.ID = " tent-1 "
	d, err := MapListing(explicit, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if d.ID != "tent-1" {
		t.Errorf("ID = %q, want tent-1", d.ID)
	}
}

func TestMapListingInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *ListingEntry)
	}{
		{name: "missing lat", mutate: func(e *ListingEntry) { e.Location.Lat = nil }},
		{name: "missing lon", mutate: func(e *ListingEntry) { e.Location.Lon = nil }},
		{name: "lat out of range", mutate: func(e *ListingEntry) { e.Location.Lat = f64(91) }},
		{name: "missing seller", mutate: func(e *ListingEntry) { e.SellerID = " " }},
		{name: "missing title", mutate: func(e *ListingEntry) { e.Title = "" }},
		{name: "missing price", mutate: func(e *ListingEntry) { e.Price = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(&e)
			_, err := MapListing(e, time.Now())
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("MapListing() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}
