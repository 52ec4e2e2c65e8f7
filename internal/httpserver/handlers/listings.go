package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/geomarket/internal/httpserver/deps"
	"github.com/MrSnakeDoc/geomarket/internal/httpserver/mw"
)

type listingResponse struct {
	Message string `json:"message"`
	Listing any    `json:"listing,omitempty"`
}

// CreateListing handles POST /create-listing
func CreateListing(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req listingRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		fields, err := req.fields()
		if err != nil {
			writeError(w, r, d, err, "Error creating listing")
			return
		}

		created, err := d.Listings.Create(r.Context(), mw.UserID(r.Context()), fields)
		if err != nil {
			writeError(w, r, d, err, "Error creating listing")
			return
		}

		attachSellers(r.Context(), d, created)
		writeJSON(w, http.StatusOK, listingResponse{
			Message: "Listing created successfully",
			Listing: created,
		})
	}
}

// ListListings handles GET /listings
func ListListings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listings, err := d.Listings.ListAll(r.Context())
		if err != nil {
			writeError(w, r, d, err, "Error fetching listings")
			return
		}

		attachSellers(r.Context(), d, listings...)
		writeJSON(w, http.StatusOK, listings)
	}
}

// GetListing handles GET /listings/{id}
func GetListing(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := d.Listings.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, d, err, "Error fetching listing")
			return
		}

		attachSellers(r.Context(), d, l)
		writeJSON(w, http.StatusOK, l)
	}
}

// MyListings handles GET /my-listings
func MyListings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listings, err := d.Listings.ListByOwner(r.Context(), mw.UserID(r.Context()))
		if err != nil {
			writeError(w, r, d, err, "Error fetching listings")
			return
		}
		writeJSON(w, http.StatusOK, listings)
	}
}

// UpdateListing handles PUT /listings/{id}
func UpdateListing(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req listingRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		fields, err := req.fields()
		if err != nil {
			writeError(w, r, d, err, "Error updating listing")
			return
		}

		updated, err := d.Listings.Update(r.Context(), chi.URLParam(r, "id"), mw.UserID(r.Context()), fields)
		if err != nil {
			writeError(w, r, d, err, "Error updating listing")
			return
		}

		attachSellers(r.Context(), d, updated)
		writeJSON(w, http.StatusOK, listingResponse{
			Message: "Listing updated successfully",
			Listing: updated,
		})
	}
}

// DeleteListing handles DELETE /listings/{id}
func DeleteListing(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Listings.Delete(r.Context(), chi.URLParam(r, "id"), mw.UserID(r.Context())); err != nil {
			writeError(w, r, d, err, "Error deleting listing")
			return
		}
		writeMessage(w, http.StatusOK, "Listing deleted successfully")
	}
}
