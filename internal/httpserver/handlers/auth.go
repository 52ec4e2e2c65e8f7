package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/geomarket/internal/auth"
	"github.com/MrSnakeDoc/geomarket/internal/domain"
	"github.com/MrSnakeDoc/geomarket/internal/httpserver/deps"
	"github.com/MrSnakeDoc/geomarket/internal/httpserver/mw"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"user_password"`
}

// Register handles POST /register
func Register(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in auth.RegisterInput
		if !decodeJSON(w, r, &in) {
			return
		}

		session, err := d.Auth.Register(r.Context(), in)
		if err != nil {
			writeError(w, r, d, err, "Registration failed.")
			return
		}
		writeJSON(w, http.StatusCreated, session)
	}
}

// Login handles POST /login
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in loginRequest
		if !decodeJSON(w, r, &in) {
			return
		}

		session, err := d.Auth.Login(r.Context(), in.Email, in.Password)
		if err != nil {
			writeError(w, r, d, err, "Login failed.")
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

// Users handles GET /users
func Users(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := d.Auth.ListUsers(r.Context())
		if err != nil {
			writeError(w, r, d, err, "Error fetching users")
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}

type protectedResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// Protected handles GET /protected
func Protected(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, protectedResponse{
			Message: "You have access.",
			UserID:  mw.UserID(r.Context()),
		})
	}
}

type verifyTokenResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    domain.PublicUser `json:"user"`
}

// VerifyToken handles POST /verify-token
func VerifyToken(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := d.Auth.GetUser(r.Context(), mw.UserID(r.Context()))
		if err != nil {
			writeError(w, r, d, err, "Error verifying token")
			return
		}
		writeJSON(w, http.StatusOK, verifyTokenResponse{
			Message: "Token is valid.",
			Token:   mw.Token(r.Context()),
			User:    user,
		})
	}
}
