package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/smartcareer/smartcareer-go/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the stub SmartCareer API router.
//
// Public endpoints:
//
//	POST /api/auth/register
//	POST /api/auth/login
//	POST /api/auth/refresh
//	POST /api/auth/password/reset
//	GET  /api/jobs, GET /api/jobs/{id}
//
// Everything else requires a bearer access token.
func NewRouter(
	authHandler *AuthHandler,
	jobsHandler *JobsHandler,
	resumesHandler *ResumesHandler,
	applicationsHandler *ApplicationsHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	auth := middleware.BearerAuth(authHandler.Auth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/password/reset", authHandler.RequestPasswordReset)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Get("/me", authHandler.Me)
				r.Put("/profile", authHandler.UpdateProfile)
				r.Put("/password", authHandler.ChangePassword)
			})
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", jobsHandler.List)
			r.Get("/{id}", jobsHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/", jobsHandler.Create)
				r.Put("/{id}", jobsHandler.Update)
				r.Delete("/{id}", jobsHandler.Delete)
				r.Post("/{id}/publish", jobsHandler.Publish)
				r.Post("/{id}/close", jobsHandler.Close)
				r.Post("/match", jobsHandler.Match)
			})
		})

		r.Route("/resumes", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", resumesHandler.List)
			r.Get("/{id}", resumesHandler.Get)
			r.Post("/", resumesHandler.Create)
			r.Post("/generate", resumesHandler.Generate)
			r.Put("/{id}", resumesHandler.Update)
			r.Delete("/{id}", resumesHandler.Delete)
			r.Post("/{id}/archive", resumesHandler.Archive)
		})

		r.Route("/applications", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", applicationsHandler.List)
			r.Get("/{id}", applicationsHandler.Get)
			r.Post("/", applicationsHandler.Create)
			r.Delete("/{id}", applicationsHandler.Delete)
			r.Post("/{id}/withdraw", applicationsHandler.Withdraw)
		})
	})

	return r
}
