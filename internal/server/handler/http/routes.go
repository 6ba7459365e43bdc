// Package http provides HTTP routing and middleware configuration
// for the todo service.
package http

import (
	"net/http"

	"github.com/ndavydov/gotodo/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the todo API.
// It applies JSON content-type enforcement and request logging, and mounts
// the user and todo endpoints under /api.
//
// Routes:
//
//	POST   /api/users           → authHandler.Register
//	POST   /api/users/login     → authHandler.Login
//	GET    /api/users/me        → authHandler.Me      (token required)
//	DELETE /api/users/me/token  → authHandler.Logout  (token required)
//	POST   /api/todos           → todoHandler.Create  (token required)
//	GET    /api/todos           → todoHandler.List    (token required)
//	GET    /api/todos/{id}      → todoHandler.Get     (token required)
//	PATCH  /api/todos/{id}      → todoHandler.Update  (token required)
//	DELETE /api/todos/{id}      → todoHandler.Delete  (token required)
//
// Protected routes resolve the x-auth header through the resolver; a token
// that does not verify or is no longer a live session is rejected with 401.
func NewRouter(
	authHandler *AuthHandler,
	todoHandler *TodoHandler,
	resolver middleware.TokenResolver,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/users", authHandler.Register)
		r.Post("/users/login", authHandler.Login)

		// Protected group: requires a live session token
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(resolver))

			r.Get("/users/me", authHandler.Me)
			r.Delete("/users/me/token", authHandler.Logout)

			r.Route("/todos", func(r chi.Router) {
				r.Post("/", todoHandler.Create)
				r.Get("/", todoHandler.List)
				r.Get("/{id}", todoHandler.Get)
				r.Patch("/{id}", todoHandler.Update)
				r.Delete("/{id}", todoHandler.Delete)
			})
		})
	})

	return r
}
