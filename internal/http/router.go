package http

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"authgate/internal/config"
	"authgate/internal/identity"
	"authgate/internal/metrics"
	"authgate/internal/origin"
	"authgate/internal/provider"
	"authgate/internal/session"
	"authgate/internal/state"
)

// NewRouter wires application routes and middleware using chi.
func NewRouter(
	cfg config.Config,
	providers *provider.Registry,
	states state.Store,
	allowlist *origin.Allowlist,
	identities *identity.Service,
	sessions *session.Issuer,
	registry *prometheus.Registry,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(newSecurityHeadersMiddleware(cfg.Environment))
	r.Use(newSlogMiddleware(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"environment": cfg.Environment,
		})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	collector := metrics.NewCollector(registry)
	authHandler := NewAuthHandler(providers, states, allowlist, identities, sessions, collector, cfg.Environment, logger)
	sessionHandler := NewSessionHandler(identities, cfg.Environment, logger)

	r.Route("/auth/{provider}", func(r chi.Router) {
		r.Get("/", authHandler.Login)
		r.Get("/login-url", authHandler.LoginURL)
		r.Get("/callback", authHandler.Callback)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/logout", sessionHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(newSessionMiddleware(sessions))
			r.Get("/me", sessionHandler.Me)
		})
	})

	r.NotFound(http.NotFoundHandler().ServeHTTP)

	return r
}
