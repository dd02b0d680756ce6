// Package health contiene el controller de healthcheck.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/ssobridge/internal/cache"
	"github.com/dropDatabas3/ssobridge/internal/http/helpers"
	"github.com/dropDatabas3/ssobridge/internal/store/core"
)

// Controller responde /healthz con el estado de las dependencias.
type Controller struct {
	store core.Repository
	cache cache.Client
}

// New crea el controller.
func New(store core.Repository, c cache.Client) *Controller {
	return &Controller{store: store, cache: c}
}

type response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health maneja GET /healthz.
func (c *Controller) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{}
	status := http.StatusOK

	if err := c.store.Ping(ctx); err != nil {
		checks["store"] = "down"
		status = http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}
	if err := c.cache.Ping(ctx); err != nil {
		checks["cache"] = "down"
		status = http.StatusServiceUnavailable
	} else {
		checks["cache"] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	helpers.WriteJSON(w, status, response{Status: overall, Checks: checks})
}
