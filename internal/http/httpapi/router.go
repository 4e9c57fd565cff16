package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"hairworks/internal/http/handlers"
)

// NewRouter wires the worker's operational endpoints.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/readyz", app.Ready)

	return r
}
