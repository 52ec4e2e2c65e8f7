package mw

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/geomarket/internal/auth"
	"github.com/MrSnakeDoc/geomarket/internal/logger"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	tokenKey
)

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's user ID in the request context.
func RequireAuth(validator auth.TokenValidator, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeMessage(w, http.StatusUnauthorized, "No token provided.")
				return
			}

			userID, err := validator.Validate(r.Context(), token)
			if errors.Is(err, auth.ErrInvalidToken) {
				log.Debug("RequireAuth: token rejected",
					logger.String("path", r.URL.Path),
					logger.Error(err))
				writeMessage(w, http.StatusForbidden, "Invalid token.")
				return
			}
			if err != nil {
				log.Error("RequireAuth: token validation failed",
					logger.String("path", r.URL.Path),
					logger.Error(err))
				writeMessage(w, http.StatusInternalServerError, "Error validating token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user ID, or "" outside RequireAuth.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// Token returns the bearer token accepted by RequireAuth.
func Token(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}

// bearerToken takes the second word of the Authorization header
func bearerToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
