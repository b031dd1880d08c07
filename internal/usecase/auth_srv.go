package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"credential-vault/internal/data/entity"
	"credential-vault/internal/data/repository"
	"credential-vault/internal/dto/request"
	"credential-vault/internal/dto/response"
	"credential-vault/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenIssuer mints short-lived access tokens for a verified user.
type TokenIssuer interface {
	GenerateAccessToken(userID uuid.UUID) (string, time.Time, error)
}

// AuthService drives the per-email account state machine:
// no account -> unverified -> verified, with one pending OTP at a time
// deciding each verification step.
type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error)
	VerifySignupOTP(ctx context.Context, req *request.VerifyOTPRequest) (*response.UserResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.OTPIssuedResponse, error)
	VerifyLoginOTP(ctx context.Context, req *request.VerifyOTPRequest, client request.ClientInfo) (*response.TokenResponse, error)
	Refresh(ctx context.Context, req *request.RefreshTokenRequest, client request.ClientInfo) (*response.TokenResponse, error)
	Logout(ctx context.Context, req *request.RefreshTokenRequest) error
}

type authService struct {
	repo   *repository.Repository
	otp    *OTPStore
	tokens TokenIssuer
	config *utils.Config
	now    func() time.Time
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	otp *OTPStore,
	tokens TokenIssuer,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		otp:    otp,
		tokens: tokens,
		config: config,
		now:    time.Now,
		log:    log.With(zap.String("service", "auth")),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		s.log.Warn("Signup validation failed", zap.Error(err))
		return nil, err
	}

	// Hash outside the transaction; bcrypt is slow.
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created := false
	var otp *entity.OTP

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		user, err := tx.User.FindByEmail(ctx, req.Email)
		if err != nil {
			return err
		}

		if user == nil {
			now := s.now().UTC()
			newUser := &entity.User{
				Base: entity.Base{
					ID:        utils.GenerateUUID(),
					CreatedAt: now,
					UpdatedAt: now,
				},
				Email:        req.Email,
				Phone:        req.Phone,
				PasswordHash: hashedPassword,
				IsActive:     true,
			}

			err := tx.User.Create(ctx, newUser)
			switch {
			case err == nil:
				user, created = newUser, true
			case errors.Is(err, repository.ErrDuplicate):
				// A concurrent signup for the same email won the insert.
				if user, err = tx.User.FindByEmail(ctx, req.Email); err != nil {
					return err
				}
				if user == nil {
					return fmt.Errorf("user %s missing after duplicate insert", req.Email)
				}
			default:
				return err
			}
		}

		if user.IsVerified {
			return ErrAlreadyRegistered
		}

		// The latest signup for a pending email owns its credentials.
		if !created {
			if _, err := tx.User.ReplacePendingCredentials(ctx, user.ID, hashedPassword, req.Phone, s.now().UTC()); err != nil {
				return err
			}
		}

		otp, err = s.otp.Issue(ctx, tx.OTP, req.Email)
		return err
	})

	if errors.Is(err, ErrAlreadyRegistered) {
		s.log.Warn("Signup for verified email", zap.String("email", req.Email))
		return nil, err
	}
	if err != nil {
		s.log.Error("Signup failed", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("signup %s: %w", req.Email, err)
	}

	if err := s.otp.Deliver(ctx, otp); err != nil {
		return nil, err
	}

	result := response.SignupResent
	if created {
		result = response.SignupCreated
	}

	s.log.Info("Signup OTP issued",
		zap.String("email", req.Email),
		zap.String("result", string(result)),
	)

	return &response.SignupResponse{
		OTPIssuedResponse: response.OTPIssuedResponse{
			Email:        req.Email,
			OTPExpiresAt: s.otp.ExpiresAt(otp),
		},
		Result: result,
	}, nil
}

// VerifySignupOTP checks the latest code for the email. An expired code
// discards the whole unverified identity so the email can sign up again.
func (s *authService) VerifySignupOTP(ctx context.Context, req *request.VerifyOTPRequest) (*response.UserResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		s.log.Warn("Verify signup OTP validation failed", zap.Error(err))
		return nil, err
	}

	expired := false
	var verified *entity.User

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		otp, err := s.otp.Latest(ctx, tx.OTP, req.Email)
		if err != nil {
			return err
		}

		if s.otp.IsExpired(otp) {
			if _, err := tx.OTP.DeleteByEmail(ctx, req.Email); err != nil {
				return err
			}
			if _, err := tx.User.DeleteUnverifiedByEmail(ctx, req.Email); err != nil {
				return err
			}
			expired = true
			return nil
		}

		if !s.otp.Matches(otp, req.OTP) {
			return ErrInvalidOTP
		}

		user, err := tx.User.FindByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		if user == nil || user.IsVerified {
			return ErrUserNotFound
		}

		now := s.now().UTC()
		ok, err := tx.User.MarkVerified(ctx, user.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}

		if err := s.otp.Consume(ctx, tx.OTP, otp); err != nil {
			return err
		}

		user.IsVerified = true
		user.UpdatedAt = now
		verified = user
		return nil
	})

	if err != nil {
		return nil, s.otpFailure("Verify signup OTP", req.Email, err)
	}
	if expired {
		s.log.Info("Signup OTP expired, unverified account discarded", zap.String("email", req.Email))
		return nil, ErrOTPExpired
	}

	s.log.Info("Account verified",
		zap.String("email", verified.Email),
		zap.String("user_id", verified.ID.String()),
	)

	resp := response.UserToResponse(verified)
	return &resp, nil
}

// Login checks credentials and issues a login OTP. An unverified account
// gets a fresh verification code but the call still fails with
// ErrNotVerified.
func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.OTPIssuedResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		s.log.Warn("Login validation failed", zap.Error(err))
		return nil, err
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("login %s: %w", req.Email, err)
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid login credentials", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, ErrAccountInactive
	}

	otp, err := s.otp.Issue(ctx, s.repo.OTP, req.Email)
	if err != nil {
		s.log.Error("Failed to issue login OTP", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("login %s: %w", req.Email, err)
	}

	if err := s.otp.Deliver(ctx, otp); err != nil {
		return nil, err
	}

	if !user.IsVerified {
		s.log.Info("Login for unverified account, verification OTP resent", zap.String("email", req.Email))
		return nil, ErrNotVerified
	}

	s.log.Info("Login OTP issued", zap.String("email", req.Email))

	return &response.OTPIssuedResponse{
		Email:        req.Email,
		OTPExpiresAt: s.otp.ExpiresAt(otp),
	}, nil
}

// VerifyLoginOTP consumes the latest login code and establishes a session.
func (s *authService) VerifyLoginOTP(ctx context.Context, req *request.VerifyOTPRequest, client request.ClientInfo) (*response.TokenResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		s.log.Warn("Verify login OTP validation failed", zap.Error(err))
		return nil, err
	}

	expired := false
	var tokens *response.TokenResponse

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		otp, err := s.otp.Latest(ctx, tx.OTP, req.Email)
		if err != nil {
			return err
		}

		if s.otp.IsExpired(otp) {
			if _, err := tx.OTP.DeleteByEmail(ctx, req.Email); err != nil {
				return err
			}
			expired = true
			return nil
		}

		if !s.otp.Matches(otp, req.OTP) {
			return ErrInvalidOTP
		}

		user, err := tx.User.FindByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		if user == nil || !user.IsVerified {
			return ErrUserNotFound
		}
		if !user.IsActive {
			return ErrAccountInactive
		}

		if err := s.otp.Consume(ctx, tx.OTP, otp); err != nil {
			return err
		}

		tokens, err = s.issueTokens(ctx, tx.Session, user, client)
		return err
	})

	if err != nil {
		return nil, s.otpFailure("Verify login OTP", req.Email, err)
	}
	if expired {
		s.log.Info("Login OTP expired", zap.String("email", req.Email))
		return nil, ErrOTPExpired
	}

	s.log.Info("User logged in",
		zap.String("user_id", tokens.User.ID),
		zap.String("email", req.Email),
	)

	return tokens, nil
}

// Refresh rotates a refresh token: the presented session is revoked and a
// new pair is issued in the same transaction.
func (s *authService) Refresh(ctx context.Context, req *request.RefreshTokenRequest, client request.ClientInfo) (*response.TokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var tokens *response.TokenResponse

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		now := s.now().UTC()

		session, err := tx.Session.FindValidSession(ctx, req.RefreshToken, now)
		if err != nil {
			return err
		}
		if session == nil {
			return ErrInvalidToken
		}

		revoked, err := tx.Session.Revoke(ctx, req.RefreshToken, now)
		if err != nil {
			return err
		}
		if !revoked {
			return ErrInvalidToken
		}

		user, err := tx.User.FindByID(ctx, session.UserID)
		if err != nil {
			return err
		}
		if user == nil || !user.IsActive {
			return ErrInvalidToken
		}

		tokens, err = s.issueTokens(ctx, tx.Session, user, client)
		return err
	})

	if errors.Is(err, ErrInvalidToken) {
		s.log.Warn("Refresh with invalid token")
		return nil, err
	}
	if err != nil {
		s.log.Error("Failed to refresh session", zap.Error(err))
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	return tokens, nil
}

func (s *authService) Logout(ctx context.Context, req *request.RefreshTokenRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	revoked, err := s.repo.Session.Revoke(ctx, req.RefreshToken, s.now().UTC())
	if err != nil {
		s.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("logout: %w", err)
	}
	if !revoked {
		return ErrInvalidToken
	}

	s.log.Info("User logged out")
	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) issueTokens(ctx context.Context, sessions repository.SessionRepository, user *entity.User, client request.ClientInfo) (*response.TokenResponse, error) {
	accessToken, accessExpiresAt, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Token:     utils.GenerateSessionToken(),
		UserAgent: optional(client.UserAgent),
		IPAddress: optional(client.IPAddress),
		ExpiresAt: now.Add(s.config.JWT.RefreshTTL),
	}

	if err := sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return &response.TokenResponse{
		TokenType:        "Bearer",
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     session.Token,
		RefreshExpiresAt: session.ExpiresAt,
		User:             response.UserToResponse(user),
	}, nil
}

// otpFailure logs a failed verification at the right level and wraps
// unexpected errors.
func (s *authService) otpFailure(op, email string, err error) error {
	switch {
	case errors.Is(err, ErrNoOTPFound),
		errors.Is(err, ErrInvalidOTP),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrAccountInactive):
		s.log.Warn(op+" rejected", zap.Error(err), zap.String("email", email))
		return err
	default:
		s.log.Error(op+" failed", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("%s: %w", strings.ToLower(op), err)
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
