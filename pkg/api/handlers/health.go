// Package handlers implements the monitoring HTTP handlers.
package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthCheckTimeout bounds the store ping made by the readiness probe.
const HealthCheckTimeout = 5 * time.Second

// CatalogChecker is the part of *catalog.Catalog the probes need.
type CatalogChecker interface {
	Ping(ctx context.Context) error
	Lost() <-chan struct{}
	Err() error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checker   CatalogChecker
	startTime time.Time
}

// NewHealthHandler creates a health handler. A nil checker makes every
// readiness probe fail.
func NewHealthHandler(checker CatalogChecker) *HealthHandler {
	return &HealthHandler{
		checker:   checker,
		startTime: time.Now(),
	}
}

// Liveness handles GET /health. It succeeds while the process serves HTTP.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startTime)
	writeJSON(w, http.StatusOK, healthyResponse(map[string]any{
		"service":    "peercatalog",
		"started_at": h.startTime.UTC().Format(time.RFC3339),
		"uptime":     uptime.Round(time.Second).String(),
		"uptime_sec": int64(uptime.Seconds()),
	}))
}

// Readiness handles GET /health/ready. It returns 503 once the catalog's
// connection has been declared lost or when a ping fails.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.checker == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("catalog not initialized"))
		return
	}

	select {
	case <-h.checker.Lost():
		msg := "catalog connection lost"
		if err := h.checker.Err(); err != nil {
			msg = err.Error()
		}
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse(msg))
		return
	default:
	}

	ctx, cancel := context.WithTimeout(r.Context(), HealthCheckTimeout)
	defer cancel()

	start := time.Now()
	if err := h.checker.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, healthyResponse(map[string]any{
		"latency": time.Since(start).String(),
	}))
}
