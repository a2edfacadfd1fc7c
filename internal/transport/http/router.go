// Package httptransport assembles the public HTTP surface. It owns routing
// and cross-cutting middleware; all endpoint behavior lives in the area
// handlers that register themselves here.
package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"signet/pkg/platform/httputil"
)

// Registrar is implemented by every area handler.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck reports readiness of one backing dependency.
type HealthCheck func(ctx context.Context) error

// NewRouter builds the server's router: middleware, health and metrics
// endpoints, and every registered area handler.
func NewRouter(checks map[string]HealthCheck, registrars ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth(checks))
	r.Handle("/metrics", promhttp.Handler())

	for _, reg := range registrars {
		reg.Register(r)
	}
	return r
}

func handleHealth(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
			} else {
				body[name] = "ok"
			}
		}
		httputil.WriteJSON(w, status, body)
	}
}
