package handlers

import (
	"context"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
	"github.com/MrSnakeDoc/geomarket/internal/httpserver/deps"
	"github.com/MrSnakeDoc/geomarket/internal/logger"
)

// attachSellers fills the seller summary of each listing. A lookup failure
// is logged and the listings are sent without sellers.
func attachSellers(ctx context.Context, d deps.Deps, listings ...*domain.Listing) {
	if d.Auth == nil || len(listings) == 0 {
		return
	}

	ids := make([]string, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.SellerID)
	}

	sellers, err := d.Auth.Sellers(ctx, ids)
	if err != nil {
		d.Logger.Warn("failed to resolve sellers", logger.Error(err))
		return
	}
	for _, l := range listings {
		l.Seller = sellers[l.SellerID]
	}
}

func attachRankedSellers(ctx context.Context, d deps.Deps, ranked []domain.RankedListing) {
	listings := make([]*domain.Listing, len(ranked))
	for i := range ranked {
		listings[i] = ranked[i].Listing
	}
	attachSellers(ctx, d, listings...)
}
