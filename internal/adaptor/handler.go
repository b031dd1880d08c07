package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"credential-vault/internal/usecase"
	"credential-vault/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth  *AuthHandler
	User  *UserHandler
	Vault *VaultHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:  NewAuthHandler(service.Auth, log),
		User:  NewUserHandler(service.User, log),
		Vault: NewVaultHandler(service.Vault, log),
	}
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeServiceError maps the usecase error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var vErr *usecase.ValidationError

	switch {
	case errors.As(err, &vErr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", vErr.Fields)

	case errors.Is(err, usecase.ErrAlreadyRegistered),
		errors.Is(err, usecase.ErrNoOTPFound),
		errors.Is(err, usecase.ErrOTPExpired),
		errors.Is(err, usecase.ErrInvalidOTP),
		errors.Is(err, usecase.ErrUserNotFound):
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrInvalidToken):
		log.Warn(operation+" unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, usecase.ErrNotVerified),
		errors.Is(err, usecase.ErrAccountInactive):
		log.Warn(operation+" forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidCiphertext):
		log.Error(operation+" failed - stored credential unreadable", zap.Error(err))
		utils.ResponseInternalError(w, "Stored credential could not be decrypted")

	case errors.Is(err, usecase.ErrOTPDelivery):
		log.Error(operation+" failed - OTP delivery", zap.Error(err))
		utils.ResponseBadGateway(w, "Could not deliver OTP, please try again")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
