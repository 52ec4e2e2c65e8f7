package domain

import (
	"errors"
	"testing"
	"time"
)

func testListing(id, seller, title string) *Listing {
	return &Listing{
		ID:        id,
		SellerID:  seller,
		Title:     title,
		Category:  "outdoor",
		Location:  NewGeoPoint(77.5946, 12.9716),
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestListingQueryAlwaysExcludesDeleted(t *testing.T) {
	l := testListing("1", "alice", "Camping Tent")
	l.Deleted = true

	queries := map[string]ListingQuery{
		"empty":    NewListingQuery(),
		"owner":    NewListingQuery().WithOwner("alice"),
		"text":     NewListingQuery().WithText("tent"),
		"category": NewListingQuery().WithCategory("outdoor"),
	}
	for name, q := range queries {
		if q.Matches(l) {
			t.Errorf("%s query matched a deleted listing", name)
		}
	}
}

func TestListingQueryMatches(t *testing.T) {
	l := testListing("1", "alice", "Camping Tent")
	l.Description = "Sleeps four"
	l.Subcategory = "tents"

	tests := []struct {
		name string
		q    ListingQuery
		want bool
	}{
		{name: "no filter", q: NewListingQuery(), want: true},
		{name: "text in title, other case", q: NewListingQuery().WithText("tent"), want: true},
		{name: "text in description", q: NewListingQuery().WithText("FOUR"), want: true},
		{name: "text surrounded by spaces", q: NewListingQuery().WithText("  camping "), want: true},
		{name: "text absent", q: NewListingQuery().WithText("bicycle"), want: false},
		{name: "owner match", q: NewListingQuery().WithOwner("alice"), want: true},
		{name: "owner mismatch", q: NewListingQuery().WithOwner("bob"), want: false},
		{name: "category exact", q: NewListingQuery().WithCategory("outdoor"), want: true},
		{name: "category is not a substring match", q: NewListingQuery().WithCategory("out"), want: false},
		{name: "subcategory", q: NewListingQuery().WithSubcategory("tents"), want: true},
		{name: "subcategory mismatch", q: NewListingQuery().WithSubcategory("stoves"), want: false},
		{
			name: "combined",
			q:    NewListingQuery().WithText("tent").WithCategory("outdoor").WithOwner("alice"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Matches(l); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListingQueryFilterKeepsOrder(t *testing.T) {
	a := testListing("a", "alice", "Tent A")
	b := testListing("b", "alice", "Stove")
	c := testListing("c", "alice", "Tent C")

	got := NewListingQuery().WithText("tent").Filter([]*Listing{c, b, a})
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "a" {
		t.Errorf("Filter() = %v, want [c a]", ids(got))
	}
}

func TestNewGeoQuery(t *testing.T) {
	center := NewGeoPoint(77.5946, 12.9716)

	q, err := NewGeoQuery(center, 2500, NewListingQuery())
	if err != nil {
		t.Fatalf("NewGeoQuery() error = %v", err)
	}
	if q.RadiusKm() != 2.5 {
		t.Errorf("RadiusKm() = %v, want 2.5", q.RadiusKm())
	}

	if _, err := NewGeoQuery(center, -1, NewListingQuery()); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative radius error = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewGeoQuery(NewGeoPoint(200, 0), 10, NewListingQuery()); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("invalid center error = %v, want ErrInvalidArgument", err)
	}
}

func ids(listings []*Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}
