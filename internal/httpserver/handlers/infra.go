package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/geomarket/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Role       string `json:"role,omitempty"`
	Inserted   *int   `json:"inserted,omitempty"`
	Skipped    *int   `json:"skipped,omitempty"`
	Invalid    *int   `json:"invalid,omitempty"`
	LastImport string `json:"last_import,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		components := make(map[string]componentStatus, len(d.Backends)+1)
		for name, err := range probeAll(r.Context(), d.Backends) {
			status := componentStatus{OK: err == nil, Role: backendRole(name, d.StoreBackend)}
			if err != nil {
				status.Error = err.Error()
			}
			components[name] = status
		}

		if d.Seed != nil {
			rep := d.Seed.LastReport()
			lastImport := "never"
			if !rep.At.IsZero() {
				lastImport = rep.At.Format("2006-01-02 15:04:05")
			}
			components["seed"] = componentStatus{
				OK:         !rep.At.IsZero(),
				Inserted:   &rep.Inserted,
				Skipped:    &rep.Skipped,
				Invalid:    &rep.Invalid,
				LastImport: lastImport,
			}
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(infraResponse{
			Mode:       determineMode(components, d.StoreBackend),
			Components: components,
		})
	}
}

func backendRole(name, storeBackend string) string {
	switch {
	case name == storeBackend:
		return "listings"
	case name == "redis":
		return "users"
	default:
		return ""
	}
}

// determineMode reports "critical" when the listing store is down,
// "degraded" when another backend is, "operational" otherwise.
func determineMode(components map[string]componentStatus, storeBackend string) string {
	if c, ok := components[storeBackend]; ok && !c.OK {
		return "critical"
	}
	for name, c := range components {
		if name != "seed" && !c.OK {
			return "degraded"
		}
	}
	return "operational"
}
