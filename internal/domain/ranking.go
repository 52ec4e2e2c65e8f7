package domain

import (
	"sort"
)

// RankByDistance annotates every listing with its exact distance from origin
// and returns them sorted nearest first. Ties keep the input order.
func RankByDistance(listings []*Listing, origin GeoPoint) []RankedListing {
	ranked := make([]RankedListing, 0, len(listings))
	for _, l := range listings {
		ranked = append(ranked, NewRankedListing(l, origin))
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].exact < ranked[j].exact
	})
	return ranked
}

// WithinKm drops ranked listings whose exact distance exceeds maxKm.
func WithinKm(ranked []RankedListing, maxKm float64) []RankedListing {
	out := ranked[:0]
	for _, r := range ranked {
		if r.exact <= maxKm {
			out = append(out, r)
		}
	}
	return out
}

// SortNewestFirst orders listings by creation time, most recent first.
func SortNewestFirst(listings []*Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
}
