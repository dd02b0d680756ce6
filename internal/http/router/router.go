// Package router arma el árbol de rutas del servidor.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	healthctrl "github.com/dropDatabas3/ssobridge/internal/http/controllers/health"
	ssoctrl "github.com/dropDatabas3/ssobridge/internal/http/controllers/sso"
	mw "github.com/dropDatabas3/ssobridge/internal/http/middlewares"
)

// Deps contiene las dependencias del router.
type Deps struct {
	SSO    *ssoctrl.Controller
	Health *healthctrl.Controller

	CORSAllowedOrigins []string
	Metrics            *prometheus.Registry
}

// New construye el handler raíz con middlewares y rutas montadas.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.WithRecover(), mw.WithRequestID(), mw.WithRequestLog())
	if len(deps.CORSAllowedOrigins) > 0 {
		r.Use(mw.WithCORS(deps.CORSAllowedOrigins))
	}

	r.Route("/v1/sso", func(r chi.Router) {
		r.Post("/login/{provider}", deps.SSO.Login)
		r.Get("/authorize/{provider}", deps.SSO.Authorize)
		r.Get("/providers", deps.SSO.Providers)
	})

	r.Get("/healthz", deps.Health.Health)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	return r
}
