package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/stock-admin/httpx"
)

// Pinger is a dependency checked by the readiness probe.
type Pinger func(ctx context.Context) error

// Health answers the liveness and readiness probes.
type Health struct {
	Checks  map[string]Pinger
	Timeout time.Duration
}

func NewHealth(checks map[string]Pinger) *Health {
	return &Health{Checks: checks, Timeout: 3 * time.Second}
}

func (h *Health) Live(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready runs every check. Any failure answers 503 with the failing check
// named; details go to the log only.
func (h *Health) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	checks := make(map[string]string, len(h.Checks))
	healthy := true
	for name, ping := range h.Checks {
		if err := ping(ctx); err != nil {
			logFor(r).Warn().Err(err).Str("check", name).Msg("readiness")
			checks[name] = "down"
			healthy = false
			continue
		}
		checks[name] = "ok"
	}
	if !healthy {
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded", "checks": checks})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "ok", "checks": checks})
}
