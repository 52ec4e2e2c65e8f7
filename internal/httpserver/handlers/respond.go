package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/geomarket/internal/auth"
	"github.com/MrSnakeDoc/geomarket/internal/domain"
	"github.com/MrSnakeDoc/geomarket/internal/httpserver/deps"
	"github.com/MrSnakeDoc/geomarket/internal/logger"
)

// messageResponse is the envelope of every non-success response.
type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// writeJSON writes data with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// statusFor maps an error onto its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusForbidden
	}

	switch domain.KindOf(err) {
	case domain.KindInvalidArgument:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the taxonomy status of err. Client errors carry
// their own message; server errors carry fallback, plus the raw error in
// development.
func writeError(w http.ResponseWriter, r *http.Request, d deps.Deps, err error, fallback string) {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		writeMessage(w, status, clientMessage(err))
		return
	}

	d.Logger.Error("request failed",
		logger.String("path", r.URL.Path),
		logger.Error(err))

	resp := messageResponse{Message: fallback}
	if d.Development {
		resp.Error = err.Error()
	}
	writeJSON(w, status, resp)
}

// clientMessage strips the sentinel prefix of a taxonomy or auth error.
func clientMessage(err error) string {
	msg := domain.Message(err)
	for _, sentinel := range []error{auth.ErrUnauthorized, auth.ErrInvalidToken} {
		msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
	}
	return msg
}

// decodeJSON reads the request body into dst and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
