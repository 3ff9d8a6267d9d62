package http

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcitys/mcitys-api/internal/auth/store"
	"github.com/mcitys/mcitys-api/pkg/httpx"
)

type healthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

type healthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *healthChecks `json:"checks,omitempty"`
}

// LivezHandler reports that the process is up. It always returns 200.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler checks the relational store and the key-value store and
// returns 503 when either is unreachable.
func ReadyzHandler(startTime time.Time, version string, st store.Store, cache *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &healthChecks{Database: "ok", Cache: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		if err := cache.Ping(r.Context()).Err(); err != nil {
			checks.Cache = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, healthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
