package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/MrSnakeDoc/geomarket/internal/httpserver/deps"
)

const probeTimeout = 2 * time.Second

type readyzResponse struct {
	Ready  bool     `json:"ready"`
	Failed []string `json:"failed,omitempty"`
}

// Readyz answers 503 while any backend fails its ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var failed []string
		for name, err := range probeAll(r.Context(), d.Backends) {
			if err != nil {
				failed = append(failed, name)
			}
		}
		sort.Strings(failed)

		status := http.StatusOK
		if len(failed) > 0 {
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, readyzResponse{
			Ready:  len(failed) == 0,
			Failed: failed,
		})
	}
}

// probeAll pings every backend with a short deadline.
func probeAll(ctx context.Context, backends map[string]deps.Pinger) map[string]error {
	out := make(map[string]error, len(backends))
	for name, b := range backends {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		out[name] = b.Ping(pctx)
		cancel()
	}
	return out
}
