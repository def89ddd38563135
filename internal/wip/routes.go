package wip

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes attaches the engine endpoints under the API router.
func (h *Handler) MountRoutes(r chi.Router) {
	limiter := httprate.Limit(60, time.Minute, httprate.WithKeyFuncs(httprate.KeyByRealIP))

	r.Group(func(r chi.Router) {
		r.Use(limiter)
		r.Get("/tasks/{ref}/profitability", h.TaskProfitability)
		r.Get("/clients/{ref}/balances", h.ClientBalances)
		r.Post("/wip/cache/invalidate", h.Invalidate)
	})
}
