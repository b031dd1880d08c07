package usecase

import (
	"context"
	"fmt"
	"time"

	"credential-vault/internal/data/repository"

	"go.uber.org/zap"
)

// revokedSessionRetention is how long expired or revoked sessions are kept
// before the sweep removes them.
const revokedSessionRetention = 7 * 24 * time.Hour

type SweepResult struct {
	Users    int64
	OTPs     int64
	Sessions int64
}

// MaintenanceService removes state that can no longer change any outcome:
// unverified accounts whose codes have all expired, expired codes and
// long-dead sessions.
type MaintenanceService interface {
	SweepExpired(ctx context.Context) (*SweepResult, error)
}

type maintenanceService struct {
	repo      *repository.Repository
	otpExpiry time.Duration
	now       func() time.Time
	log       *zap.Logger
}

func NewMaintenanceService(repo *repository.Repository, otpExpiry time.Duration, log *zap.Logger) MaintenanceService {
	return &maintenanceService{
		repo:      repo,
		otpExpiry: otpExpiry,
		now:       time.Now,
		log:       log.With(zap.String("service", "maintenance")),
	}
}

func (s *maintenanceService) SweepExpired(ctx context.Context) (*SweepResult, error) {
	now := s.now().UTC()
	otpCutoff := now.Add(-s.otpExpiry)
	sessionCutoff := now.Add(-revokedSessionRetention)

	var result SweepResult

	// Users first: staleness is judged by the OTP rows deleted next.
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		if result.Users, err = tx.User.DeleteStaleUnverified(ctx, otpCutoff); err != nil {
			return err
		}
		if result.OTPs, err = tx.OTP.DeleteCreatedBefore(ctx, otpCutoff); err != nil {
			return err
		}
		if result.Sessions, err = tx.Session.CleanExpiredSessions(ctx, sessionCutoff); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.log.Error("Sweep failed", zap.Error(err))
		return nil, fmt.Errorf("sweep expired records: %w", err)
	}

	s.log.Info("Sweep completed",
		zap.Int64("users", result.Users),
		zap.Int64("otps", result.OTPs),
		zap.Int64("sessions", result.Sessions),
	)

	return &result, nil
}
