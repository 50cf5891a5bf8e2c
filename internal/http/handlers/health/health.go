// Package health exposes a readiness check for container orchestration.
//
// docker-compose.yml polls GET /healthz and only starts the web client once
// it answers 200:
//
//	200  { "status": "ok" }
//	503  { "status": "error", "error": "data store unavailable" }
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/aanand-mishra/students-registration/internal/http/middleware"
	"github.com/aanand-mishra/students-registration/internal/logger"
	"github.com/aanand-mishra/students-registration/internal/utils/response"
)

// Pinger is the part of storage.Storage the probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Check handles GET /healthz: 200 when the data store answers a ping
// within timeout, 503 otherwise. The ping error is logged but never sent
// to the caller.
func Check(db Pinger, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			middleware.Logger(r.Context()).Warn("health check failed", logger.Err(err))
			response.WriteJSON(w, http.StatusServiceUnavailable, response.Response{
				Status: response.StatusError,
				Error:  "data store unavailable",
			})
			return
		}

		response.WriteJSON(w, http.StatusOK, response.OK())
	}
}
