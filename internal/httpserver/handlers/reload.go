package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/geomarket/internal/httpserver/deps"
	"github.com/MrSnakeDoc/geomarket/internal/logger"
)

// Reload triggers a manual re-import of the seed fixtures
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ReloadTrigger == nil {
			writeMessage(w, http.StatusNotFound, "Seeding is disabled")
			return
		}

		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual seed reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeMessage(w, http.StatusAccepted, "Reload triggered successfully")
		default:
			d.Logger.Warn("seed reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			writeMessage(w, http.StatusTooManyRequests, "Reload already in progress, please wait")
		}
	}
}
