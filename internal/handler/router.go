package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/portfolio/backend/pkg/auth"
)

// RouterConfig carries the settings the route table depends on.
type RouterConfig struct {
	AdminToken string
	StaticDir  string
}

// NewRouter wires the API routes and, when StaticDir is set, the frontend.
// limiter guards only the submission endpoint.
func NewRouter(h *Handler, contact *ContactHandler, limiter *RateLimiter, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	r.Use(h.CORS)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", h.Health)
		api.Get("/emailjs-config", contact.EmailJSConfig)

		api.With(limiter.Middleware).Post("/contact", contact.Submit)
		api.With(auth.RequireToken(cfg.AdminToken)).Get("/contact/messages", contact.List)

		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusNotFound, contactResponse{Success: false, Message: "Not found"})
		})
	})

	if cfg.StaticDir != "" {
		r.Handle("/*", SPA(cfg.StaticDir))
	}
	return r
}
