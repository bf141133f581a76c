package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter registers HTTP routes and the middleware stack.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/auth/v1", func(r chi.Router) {
		r.Post("/login", handler.login)
		r.Post("/refresh", handler.refresh)
		r.Post("/logout", handler.logout)
		r.Post("/email/verify", handler.verifyEmail)
		r.Post("/email/resend", handler.resendVerification)
		r.Post("/password/forgot", handler.forgotPassword)
		r.Post("/password/reset", handler.resetPassword)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Post("/password/change", handler.changePassword)
			r.Post("/logout-all", handler.logoutAll)
			r.Post("/logout-others", handler.logoutOthers)
			r.Get("/sessions", handler.listSessions)
		})
	})

	return r
}
