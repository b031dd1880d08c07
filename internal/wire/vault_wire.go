package wire

import (
	"net/http"

	"credential-vault/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireVault mounts the per-user credential store. Every route requires a
// valid access token.
func wireVault(r chi.Router, vaultHandler *adaptor.VaultHandler, authn func(http.Handler) http.Handler) {
	r.With(authn).Route("/api/vault", func(r chi.Router) {
		r.Get("/", vaultHandler.List)
		r.Post("/", vaultHandler.Create)
		r.Get("/{id}", vaultHandler.Get)
		r.Patch("/{id}", vaultHandler.Update)
		r.Put("/{id}", vaultHandler.Update)
		r.Delete("/{id}", vaultHandler.Delete)
	})
}
