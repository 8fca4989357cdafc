package handler

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchday/platform/internal/infra"
)

// healthResponse reports overall status plus per-component detail. The match
// ledger lives entirely in Postgres, so the database is the one hard
// dependency; Redis and Kafka degrade gracefully and are not reported here.
type healthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// HealthHandler returns the readiness endpoint.
func HealthHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "healthy", Components: map[string]string{"database": "up"}}

		if err := infra.HealthCheck(r.Context(), pool); err != nil {
			resp.Status = "unhealthy"
			resp.Components["database"] = err.Error()
			RespondJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		RespondJSON(w, http.StatusOK, resp)
	}
}
