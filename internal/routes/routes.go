package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roomly/roomly-backend/internal/handlers"
	"github.com/roomly/roomly-backend/internal/middleware"
)

// SetupRoutes registers the API. Credential endpoints sit behind the login
// rate limiter; everything touching user-owned state requires a session.
func SetupRoutes(r *chi.Mux, h *handlers.Handler, auth *middleware.Auth, loginLimit func(http.Handler) http.Handler) {
	// Credential and account-lifecycle routes (rate limited)
	r.Group(func(r chi.Router) {
		r.Use(loginLimit)
		r.Post("/api/auth/register", h.Register)
		r.Post("/api/auth/login", h.Login)
		r.Post("/api/auth/reset-password-request", h.ResetPasswordRequest)
		r.Post("/api/auth/reset-password", h.ResetPassword)
	})

	// Token redemption carries its own proof; no session needed
	r.Post("/api/auth/confirm-email", h.ConfirmEmail)
	r.Post("/api/auth/logout", h.Logout)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Get("/api/auth/me", h.Me)
		r.Post("/api/auth/resend-confirmation", h.ResendConfirmation)

		r.Put("/api/profile", h.EditProfile)
		r.Get("/api/users/{username}", h.GetUserProfile)

		r.Get("/api/posts", h.ListPosts)
		r.Get("/api/posts/search", h.SearchPosts)
		r.Post("/api/posts", h.CreatePost)
		r.Put("/api/posts/{id}", h.EditPost)
		r.Delete("/api/posts/{id}", h.DeletePost)
	})
}
