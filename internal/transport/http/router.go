package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter wires the storefront routes.
func NewRouter(h *Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Healthz)

	r.Get("/", h.Home)
	r.Get("/collections", h.Collections)
	r.Get("/collections/{handle}", h.Collection)
	r.Get("/products/{handle}", h.Product)
	r.Get("/universe", h.Universe)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.CartPage)
		r.Post("/", h.CartAction)
		r.Get("/drawer", h.CartDrawer)
	})

	if h.deps.ListEvents != nil {
		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/events", h.ListEvents)
		})
	}

	r.NotFound(h.NotFound)
	return r
}
