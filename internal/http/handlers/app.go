// Package handlers exposes the worker's small operational HTTP surface.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hairworks/internal/infra"
)

// App carries the dependencies shared by the worker's HTTP handlers.
type App struct {
	Pool      *pgxpool.Pool
	Logger    infra.Logger
	StartedAt time.Time
}

// NewApp constructs the handler set.
func NewApp(pool *pgxpool.Pool, logger infra.Logger) *App {
	return &App{Pool: pool, Logger: logger, StartedAt: time.Now().UTC()}
}

func (a *App) json(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.Logger.Error().Err(err).Msg("handlers: encode response failed")
	}
}

// Health reports process liveness.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports readiness by pinging the job store.
func (a *App) Ready(w http.ResponseWriter, r *http.Request) {
	if a.Pool != nil {
		if err := a.Pool.Ping(r.Context()); err != nil {
			a.json(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  "database unreachable",
			})
			return
		}
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":         "ready",
		"uptime_seconds": int(time.Since(a.StartedAt).Seconds()),
	})
}
