package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/geomarket/internal/httpserver/deps"
	"github.com/MrSnakeDoc/geomarket/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/geomarket/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	r.Post("/register", handlers.Register(d))
	r.Post("/login", handlers.Login(d))
	r.Get("/users", handlers.Users(d))

	authed := r.With(mw.RequireAuth(d.Auth, d.Logger))
	authed.Get("/protected", handlers.Protected(d))
	authed.Post("/verify-token", handlers.VerifyToken(d))
}
