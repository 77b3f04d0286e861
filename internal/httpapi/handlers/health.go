package handlers

import (
	"context"
	"net/http"
	"time"

	"stencil/internal/httpkit"
)

// Health performs a health check of the service.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.log.FromContext(ctx)

	// Basic health response
	health := map[string]any{
		"status":  "ok",
		"service": "stencil-api",
		"version": "0.1.0",
	}

	// Check if deep health check is requested
	if r.URL.Query().Get("deep") == "true" {
		check := h.checkStore(ctx)
		health["checks"] = map[string]any{"store": check}

		if check["status"] != "ok" {
			health["status"] = "degraded"
			log.Warn("health check degraded", "store", check)
		}
	}

	httpkit.WriteJSON(w, 200, health)
}

func (h *Handler) checkStore(ctx context.Context) map[string]any {
	start := time.Now()
	result := map[string]any{
		"status":   "ok",
		"provider": h.store.Provider(),
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.store.Ping(checkCtx); err != nil {
		result["status"] = "error"
		result["error"] = err.Error()
	}

	result["latency_ms"] = time.Since(start).Milliseconds()
	return result
}
