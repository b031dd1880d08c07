package wire

import (
	"net/http"

	"credential-vault/internal/adaptor"
	"credential-vault/internal/data/repository"
	"credential-vault/internal/usecase"
	"credential-vault/pkg/mailer"
	"credential-vault/pkg/middleware"
	"credential-vault/pkg/token"
	"credential-vault/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the assembled router and the services behind it.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes from the process-wide collaborators.
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	cipher usecase.Cipher,
	sender mailer.Sender,
	tokens *token.Issuer,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, usecase.Dependencies{
		Cipher: cipher,
		Sender: sender,
		Tokens: tokens,
	}, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, tokens, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	tokens *token.Issuer,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.AllowedOrigins...))

	authn := middleware.Auth(tokens, logger)

	wireAuth(r, handler.Auth)
	wireUser(r, handler.User, repo, authn, logger)
	wireVault(r, handler.Vault, authn)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
