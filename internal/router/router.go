package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taskward-dev/taskward/internal/handler"
	"github.com/taskward-dev/taskward/internal/middleware"
	"github.com/taskward-dev/taskward/internal/middleware/metrics"
)

// New assembles the HTTP routing table. Auth lifecycle endpoints are
// public; everything under /v1/users, /v1/todos and /v1/categories
// requires a valid token, with admin-only routes nested separately.
func New(h *handler.Handler, auth *middleware.Auth) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Get("/verify", h.VerifyEmail)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Post("/password/forgot", h.ForgotPassword)
			r.Get("/password/confirm", h.ConfirmResetTicket)
			r.Post("/password/reset", h.ResetPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(auth.NeedAuth())
				r.Get("/{id}", h.GetUser)
				r.Put("/{id}", h.UpdateUser)
				r.Delete("/{id}", h.DeleteUser)
			})
			r.Group(func(r chi.Router) {
				r.Use(auth.AdminOnly())
				r.Post("/search", h.SearchUsers)
				r.Patch("/{id}/activation", h.ToggleActivation)
			})
		})

		r.Route("/todos", func(r chi.Router) {
			r.Use(auth.NeedAuth())
			r.Post("/", h.CreateTodo)
			r.Get("/", h.ListTodos)
			r.Patch("/{id}/status", h.UpdateTodoStatus)
			r.Delete("/{id}", h.DeleteTodo)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(auth.NeedAuth())
				r.Get("/", h.ListCategories)
				r.Get("/{id}", h.GetCategory)
			})
			r.Group(func(r chi.Router) {
				r.Use(auth.AdminOnly())
				r.Post("/", h.CreateCategory)
				r.Put("/{id}", h.UpdateCategory)
				r.Delete("/{id}", h.DeleteCategory)
			})
		})
	})

	return r
}
