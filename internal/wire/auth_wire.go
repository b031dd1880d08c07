package wire

import (
	"credential-vault/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireAuth mounts the public signup and login flow.
func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/verify-signup-otp", authHandler.VerifySignupOTP)
		r.Post("/login", authHandler.Login)
		r.Post("/verify-login-otp", authHandler.VerifyLoginOTP)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
	})
}
