package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
	"github.com/MrSnakeDoc/geomarket/internal/httpserver/deps"
	"github.com/MrSnakeDoc/geomarket/internal/listing"
	"github.com/MrSnakeDoc/geomarket/internal/logger"
)

// SearchListings handles GET /search-listings. Invalid input is a 400.
func SearchListings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		params, err := listing.ParseSearchParams(listing.SearchQuery{
			Query:       q.Get("query"),
			Latitude:    q.Get("latitude"),
			Longitude:   q.Get("longitude"),
			MaxDistance: q.Get("maxDistance"),
			Category:    q.Get("category"),
			Subcategory: q.Get("subcategory"),
		})
		if err != nil {
			writeError(w, r, d, err, "Error searching listings")
			return
		}

		res, err := d.Engine.Search(r.Context(), params)
		if err != nil {
			writeError(w, r, d, err, "Error searching listings")
			return
		}

		if res.Origin != nil {
			attachRankedSellers(r.Context(), d, res.Ranked)
			writeJSON(w, http.StatusOK, res.Ranked)
			return
		}
		attachSellers(r.Context(), d, res.Listings...)
		writeJSON(w, http.StatusOK, res.Listings)
	}
}

type nearbyFailure struct {
	Listings []domain.RankedListing `json:"listings"`
	Message  string                 `json:"message"`
	Error    string                 `json:"error,omitempty"`
}

// NearbyListings handles GET /nearby-listings. Invalid input is answered
// with 200, an empty list and the reason.
func NearbyListings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		params, err := listing.ParseNearbyParams(q.Get("longitude"), q.Get("latitude"), q.Get("maxDistance"))
		if err != nil {
			writeJSON(w, http.StatusOK, listing.NearbyRejected(err))
			return
		}

		res, err := d.Engine.Nearby(r.Context(), params)
		if err != nil {
			if domain.KindOf(err) == domain.KindInvalidArgument {
				writeJSON(w, http.StatusOK, listing.NearbyRejected(err))
				return
			}

			d.Logger.Error("nearby listings failed", logger.Error(err))
			resp := nearbyFailure{
				Listings: []domain.RankedListing{},
				Message:  "Unable to fetch listings at this time. Please try again later.",
			}
			if d.Development {
				resp.Error = err.Error()
			}
			writeJSON(w, http.StatusInternalServerError, resp)
			return
		}

		attachRankedSellers(r.Context(), d, res.Listings)
		writeJSON(w, http.StatusOK, res)
	}
}
