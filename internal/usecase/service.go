package usecase

import (
	"credential-vault/internal/data/repository"
	"credential-vault/pkg/mailer"
	"credential-vault/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	User        UserService
	Vault       VaultService
	Maintenance MaintenanceService
}

// Dependencies are the process-wide collaborators built once at startup.
type Dependencies struct {
	Cipher Cipher
	Sender mailer.Sender
	Tokens TokenIssuer
}

func NewService(repo *repository.Repository, config *utils.Config, deps Dependencies, log *zap.Logger) *Service {
	otpStore := NewOTPStore(deps.Sender, config.OTP.Expiry, log)

	return &Service{
		Auth:        NewAuthService(repo, otpStore, deps.Tokens, config, log),
		User:        NewUserService(repo.User, log),
		Vault:       NewVaultService(repo, deps.Cipher, log),
		Maintenance: NewMaintenanceService(repo, config.OTP.Expiry, log),
	}
}
