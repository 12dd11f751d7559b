package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/yimtarbiyat/amal-backend/internal/handlers"
	"github.com/yimtarbiyat/amal-backend/internal/middleware"
)

func SetupRoutes(r chi.Router, h *handlers.Handler, sessions middleware.Resolver) {
	// Health check (no session)
	r.Get("/health", handlers.Health)

	// Google sign-in, rate limited per IP
	r.Group(func(r chi.Router) {
		r.Use(middleware.LoginRateLimit())
		r.Get("/api/auth/google/login", h.GoogleLogin)
		r.Get("/api/auth/google/callback", h.GoogleCallback)
	})

	// Signed-in members
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(sessions))

		r.Get("/api/auth/me", h.Me)
		r.Post("/api/auth/signout", h.SignOut)

		r.Get("/api/submissions/today", h.Today)
		r.Get("/api/submissions", h.History)
		r.Post("/api/submissions", h.Create)
		r.Get("/api/submissions/{date}", h.ByDate)
		r.Put("/api/submissions/{date}", h.Update)
		r.Get("/api/stats/personal", h.PersonalStats)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/api/admin/submissions", h.AdminSubmissions)
			r.Get("/api/admin/submissions/range", h.AdminSubmissionsRange)
			r.Get("/api/admin/users", h.AdminUsers)
			r.Get("/api/admin/analytics", h.AdminAnalytics)
			r.Put("/api/admin/users/{id}/admin", h.SetUserAdmin)
		})
	})
}
