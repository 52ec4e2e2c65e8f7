package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/geomarket/internal/httpserver/deps"
	"github.com/MrSnakeDoc/geomarket/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/geomarket/internal/httpserver/mw"
)

func init() { Register(registerListings) }

func registerListings(r chi.Router, d deps.Deps) {
	r.Get("/listings", handlers.ListListings(d))
	r.Get("/listings/{id}", handlers.GetListing(d))

	authed := r.With(mw.RequireAuth(d.Auth, d.Logger))
	authed.Post("/create-listing", handlers.CreateListing(d))
	authed.Get("/my-listings", handlers.MyListings(d))
	authed.Put("/listings/{id}", handlers.UpdateListing(d))
	authed.Delete("/listings/{id}", handlers.DeleteListing(d))
}
