package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mpetrov/taskhub/internal/api/handlers"
	"github.com/mpetrov/taskhub/internal/api/middleware"
	"github.com/mpetrov/taskhub/internal/config"
	"github.com/mpetrov/taskhub/internal/metrics"
	"github.com/mpetrov/taskhub/internal/service"
)

func NewRouter(services *service.Services, cfg *config.Config, collector *metrics.Collector, gatherer prometheus.Gatherer, authLimiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS(cfg.AllowedOrigin))
	r.Use(middleware.Metrics(collector))

	// Health check and metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, collector)
	taskHandler := handlers.NewTaskHandler(services.Task)
	profileHandler := handlers.NewProfileHandler(services.Profile)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes, rate limited against brute force
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authLimiter.Limit)
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
			})

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth, collector))
				r.Get("/me", authHandler.Me)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth, collector))

			// Task routes
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Get("/{id}", taskHandler.Get)
				r.Put("/{id}", taskHandler.Update)
				r.Delete("/{id}", taskHandler.Delete)
			})

			// Profile routes
			r.Route("/users", func(r chi.Router) {
				r.Get("/profile", profileHandler.GetProfile)
				r.Put("/profile", profileHandler.UpdateProfile)
			})
		})
	})

	return r
}
