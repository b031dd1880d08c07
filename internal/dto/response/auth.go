package response

import (
	"time"

	"credential-vault/internal/data/entity"
)

type SignupResult string

const (
	SignupCreated SignupResult = "created"
	SignupResent  SignupResult = "resent"
)

// OTPIssuedResponse is returned whenever a fresh code was sent.
type OTPIssuedResponse struct {
	Email        string    `json:"email"`
	OTPExpiresAt time.Time `json:"otp_expires_at"`
}

type SignupResponse struct {
	OTPIssuedResponse
	Result SignupResult `json:"result"`
}

type TokenResponse struct {
	TokenType        string       `json:"token_type"`
	AccessToken      string       `json:"access_token"`
	AccessExpiresAt  time.Time    `json:"access_expires_at"`
	RefreshToken     string       `json:"refresh_token"`
	RefreshExpiresAt time.Time    `json:"refresh_expires_at"`
	User             UserResponse `json:"user"`
}

type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone,omitempty"`
	IsVerified bool      `json:"is_verified"`
	IsActive   bool      `json:"is_active"`
	IsStaff    bool      `json:"is_staff"`
	CreatedAt  time.Time `json:"created_at"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:         user.ID.String(),
		Email:      user.Email,
		Phone:      user.Phone,
		IsVerified: user.IsVerified,
		IsActive:   user.IsActive,
		IsStaff:    user.IsStaff,
		CreatedAt:  user.CreatedAt,
	}
}
