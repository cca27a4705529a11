// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Pagecraft API. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pagecraft/internal/handlers"
	"pagecraft/internal/middleware"
	"pagecraft/internal/session"
)

// contactRateLimit caps public contact-form submissions per client IP.
const (
	contactRateLimit  = 5
	contactRateWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Admin API — session auth plus CSRF protection on writes.
	r.Route("/admin/api", func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Login is the only endpoint reachable without a session.
		r.Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)

		// 2FA — requires auth but NOT completed verification.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/verify", auth.TwoFAVerify)
		})

		// Authenticated + 2FA-verified admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/me", auth.Me)

			r.Route("/pages", func(r chi.Router) {
				r.Get("/", admin.ListPages)
				r.Post("/", admin.CreatePage)
				r.Get("/{slug}", admin.GetPage)
				r.Put("/{slug}", admin.UpdatePage)
				r.Delete("/{slug}", admin.DeletePage)
			})

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", admin.ListPosts)
				r.Post("/", admin.CreatePost)
				r.Get("/{slug}", admin.GetPost)
				r.Put("/{slug}", admin.UpdatePost)
				r.Delete("/{slug}", admin.DeletePost)
			})

			r.Route("/media", func(r chi.Router) {
				r.Get("/", admin.ListMedia)
				r.Post("/", admin.CreateMedia)
				r.Get("/{filename}", admin.GetMedia)
				r.Put("/{filename}", admin.UpdateMedia)
				r.Delete("/{filename}", admin.DeleteMedia)
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", admin.ListContacts)
				r.Get("/{key}", admin.GetContact)
				r.Put("/{key}", admin.UpdateContact)
				r.Delete("/{key}", admin.DeleteContact)
			})

			// User management — admin only.
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", admin.ListUsers)
				r.Post("/", admin.CreateUser)
				r.Get("/{email}", admin.GetUser)
				r.Put("/{email}", admin.UpdateUser)
				r.Delete("/{email}", admin.DeleteUser)
			})
		})
	})

	// Public content API.
	r.Route("/api", func(r chi.Router) {
		r.Get("/pages/{slug}", public.GetPage)
		r.Get("/posts", public.ListPosts)
		r.Get("/posts/{slug}", public.GetPost)
		r.Get("/categories", public.Categories)
		r.Get("/tags", public.Tags)
		r.Get("/search", public.Search)

		contactLimiter := middleware.NewRateLimiter(contactRateLimit, contactRateWindow)
		r.With(contactLimiter.Middleware).Post("/contact", public.SubmitContact)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
