package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maycoffee/maycoffee-api/internal/middleware"
	"github.com/maycoffee/maycoffee-api/internal/middleware/metrics"
	rl "github.com/maycoffee/maycoffee-api/internal/middleware/ratelimiter"
	"github.com/maycoffee/maycoffee-api/internal/setup"
)

// New wires every route. Rate limiters attached with .Use inside a Group
// apply to all endpoints of that group combined.
func New(deps *setup.Dependencies) chi.Router {
	r := chi.NewRouter()
	cfg := deps.Config

	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept-Language"},
		AllowCredentials: true,
	}))
	r.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	r.Use(metrics.Middleware)

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/healthz", h.Healthz)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// endpoints that send mail, throttled per email and per IP
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(rl.New(1.0/10, 1, 1*time.Hour), middleware.GetEmailFromBody))
				r.Use(middleware.RateLimit(rl.New(1.0/10, 2, 1*time.Hour), middleware.GetIP))
				r.Post("/register", h.Register)
				r.Post("/resend-code", h.ResendCode)
			})

			// code checks get stricter limits against brute force
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(rl.New(5.0/600, 5, 1*time.Hour), middleware.GetEmailFromBody))
				r.Use(middleware.RateLimit(rl.New(1, 1, 1*time.Hour), middleware.GetIP))
				r.Post("/verify-email", h.VerifyEmail)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(rl.New(1, 3, 1*time.Hour), middleware.GetIP))
				r.Post("/login", h.Login)
			})

			r.Post("/logout", h.Logout)

			r.Group(func(r chi.Router) {
				r.Use(authMw.RequireUser)
				r.Get("/me", h.Me)
			})
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Get("/", h.ListFeedback)
			r.Get("/summary", h.FeedbackSummary)

			r.Group(func(r chi.Router) {
				r.Use(authMw.RequireUser)
				r.Post("/", h.CreateFeedback)
				r.Get("/mine", h.MyFeedback)
			})
		})

		r.Get("/events", h.ListEvents)

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMw.RequireUser)
			r.Use(authMw.RequireAdmin)

			r.Get("/users", h.ListUsers)
			r.Delete("/users/{id}", h.DeleteUser)
			r.Get("/users/{id}/feedback-history", h.UserFeedbackHistory)
			r.Post("/add-admin", h.AddAdmin)
			r.Post("/revoke-admin/{id}", h.RevokeAdmin)

			r.Get("/feedback", h.ListFeedbackAdmin)
			r.Patch("/feedback/{id}/approve", h.SetFeedbackApproval)
			r.Delete("/feedback/{id}", h.DeleteFeedback)
			r.Get("/ratings/summary", h.FeedbackSummary)

			r.Get("/events", h.ListEventsAdmin)
			r.Post("/events", h.CreateEvent)
			r.Patch("/events/{id}", h.UpdateEvent)
			r.Delete("/events/{id}", h.DeleteEvent)
		})
	})

	// preflight requests should not 404
	r.MethodFunc("OPTIONS", "/*", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
