package wire

import (
	"net/http"

	"credential-vault/internal/adaptor"
	"credential-vault/internal/data/repository"
	"credential-vault/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	repo *repository.Repository,
	authn func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	r.With(authn).Get("/api/user/profile", userHandler.GetProfile)

	r.With(
		authn,
		middleware.Staff(repo.User, log),
	).Route("/api/admin/users", func(r chi.Router) {
		r.Get("/", userHandler.GetAllUsers)       // GET /api/admin/users?page=1&per_page=10
		r.Delete("/{id}", userHandler.DeleteUser) // DELETE /api/admin/users/{user-id}
	})
}
