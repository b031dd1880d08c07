package usecase

import (
	"errors"

	"credential-vault/pkg/cryptox"
	"credential-vault/pkg/utils"
)

var (
	ErrAlreadyRegistered  = errors.New("email already registered and verified")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("account not verified, OTP resent for verification")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrNoOTPFound         = errors.New("no OTP found for this email")
	ErrOTPExpired         = errors.New("OTP expired")
	ErrInvalidOTP         = errors.New("invalid OTP")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotFound           = errors.New("vault item not found")
	ErrOTPDelivery        = errors.New("failed to deliver OTP")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCiphertext  = cryptox.ErrInvalidCiphertext
)

// ValidationError carries per-field messages for a rejected request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
