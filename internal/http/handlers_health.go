package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/visitrack/frontdesk/internal/ports"
)

const healthPingTimeout = 2 * time.Second

// healthHandler answers liveness probes. The process is alive whenever it
// can answer, so the status code stays 200; backend reachability is
// reported in the body when a pinger is configured.
func healthHandler(pinger ports.Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{"status": "ok"}
		if pinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
			defer cancel()
			if err := pinger.Ping(ctx); err != nil {
				if logger != nil {
					logger.WarnContext(r.Context(), "backend ping failed", "error", err)
				}
				body["status"] = "degraded"
				body["backend"] = "unreachable"
			} else {
				body["backend"] = "ok"
			}
		}

		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			return
		}
		WriteJSON(w, http.StatusOK, body)
	}
}
