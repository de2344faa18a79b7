package http_handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/baechuer/france-explorer/internal/transport/http/response"
)

// Pinger is satisfied by the redis client.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    *sql.DB
	cache Pinger
}

// NewHealthHandler takes an optional cache; nil skips its check.
func NewHealthHandler(db *sql.DB, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Healthz handles GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz. Redis is reported but does not fail
// readiness since the database answers on its own.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			response.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  "database unavailable",
			})
			return
		}
	}

	body := map[string]string{"status": "ready"}
	if h.cache != nil {
		body["cache"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			body["cache"] = "degraded"
		}
	}
	response.OK(w, body)
}
