package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"credential-vault/internal/data/entity"
	"credential-vault/internal/data/repository"
	"credential-vault/pkg/mailer"
	"credential-vault/pkg/utils"

	"go.uber.org/zap"
)

// OTPStore issues, resolves and consumes one-time codes. Methods that touch
// storage take the OTP repository explicitly so callers can bind them to a
// transaction.
type OTPStore struct {
	sender   mailer.Sender
	expiry   time.Duration
	now      func() time.Time
	generate func() (string, error)
	log      *zap.Logger
}

func NewOTPStore(sender mailer.Sender, expiry time.Duration, log *zap.Logger) *OTPStore {
	return &OTPStore{
		sender:   sender,
		expiry:   expiry,
		now:      time.Now,
		generate: utils.GenerateOTP,
		log:      log.With(zap.String("component", "otp")),
	}
}

// Issue persists a new code for email. Delivery is a separate step so it
// can run after the surrounding transaction commits.
func (s *OTPStore) Issue(ctx context.Context, otps repository.OTPRepository, email string) (*entity.OTP, error) {
	code, err := s.generate()
	if err != nil {
		return nil, fmt.Errorf("generate OTP: %w", err)
	}

	otp := &entity.OTP{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateOrderedUUID(),
			CreatedAt: s.now().UTC().Truncate(time.Microsecond),
		},
		Email:   email,
		OTPCode: code,
	}

	if err := otps.Create(ctx, otp); err != nil {
		return nil, err
	}

	return otp, nil
}

// Deliver hands the code to the notification sender. The stored row is
// left in place on failure so the user can retry.
func (s *OTPStore) Deliver(ctx context.Context, otp *entity.OTP) error {
	if err := s.sender.Send(ctx, otp.Email, otp.OTPCode); err != nil {
		s.log.Error("Failed to deliver OTP",
			zap.Error(err),
			zap.String("email", otp.Email),
			zap.String("otp_id", otp.ID.String()),
		)
		return fmt.Errorf("%w: %v", ErrOTPDelivery, err)
	}
	return nil
}

// Latest returns the authoritative code for email or ErrNoOTPFound.
func (s *OTPStore) Latest(ctx context.Context, otps repository.OTPRepository, email string) (*entity.OTP, error) {
	otp, err := otps.FindLatestByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if otp == nil {
		return nil, ErrNoOTPFound
	}
	return otp, nil
}

func (s *OTPStore) IsExpired(otp *entity.OTP) bool {
	return otp.IsExpired(s.now(), s.expiry)
}

func (s *OTPStore) ExpiresAt(otp *entity.OTP) time.Time {
	return otp.CreatedAt.Add(s.expiry)
}

func (s *OTPStore) Matches(otp *entity.OTP, code string) bool {
	return subtle.ConstantTimeCompare([]byte(otp.OTPCode), []byte(code)) == 1
}

// Consume deletes otp only if it still exists, then purges any older codes
// for the same email. A row removed by a concurrent consumer yields
// ErrNoOTPFound.
func (s *OTPStore) Consume(ctx context.Context, otps repository.OTPRepository, otp *entity.OTP) error {
	deleted, err := otps.DeleteByID(ctx, otp.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNoOTPFound
	}

	if _, err := otps.DeleteByEmail(ctx, otp.Email); err != nil {
		return err
	}
	return nil
}
