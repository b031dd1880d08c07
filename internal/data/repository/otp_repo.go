package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"credential-vault/internal/data/entity"
	"credential-vault/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OTPRepository interface {
	Create(ctx context.Context, otp *entity.OTP) error
	// FindLatestByEmail returns nil, nil when the email has no OTP on file.
	FindLatestByEmail(ctx context.Context, email string) (*entity.OTP, error)
	// DeleteByID reports whether the row existed at delete time.
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByEmail(ctx context.Context, email string) (int64, error)
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type otpRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewOTPRepository(db database.DBTX, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

func (r *otpRepository) Create(ctx context.Context, otp *entity.OTP) error {
	query := `
		INSERT INTO otps (id, email, otp_code, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		otp.ID,
		otp.Email,
		otp.OTPCode,
		otp.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create OTP",
			zap.Error(err),
			zap.String("email", otp.Email),
		)
		return fmt.Errorf("create OTP for %s: %w", otp.Email, err)
	}

	return nil
}

// FindLatestByEmail locks the selected row when run inside a transaction so
// concurrent verifications of the same code serialize on it.
func (r *otpRepository) FindLatestByEmail(ctx context.Context, email string) (*entity.OTP, error) {
	query := `
		SELECT id, email, otp_code, created_at
		FROM otps
		WHERE email = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
		FOR UPDATE
	`

	var otp entity.OTP
	err := r.db.QueryRow(ctx, query, email).Scan(
		&otp.ID,
		&otp.Email,
		&otp.OTPCode,
		&otp.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find latest OTP",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find latest OTP for %s: %w", email, err)
	}

	return &otp, nil
}

func (r *otpRepository) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM otps WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete OTP",
			zap.Error(err),
			zap.String("otp_id", id.String()),
		)
		return false, fmt.Errorf("delete OTP %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *otpRepository) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	query := `DELETE FROM otps WHERE email = $1`

	result, err := r.db.Exec(ctx, query, email)
	if err != nil {
		r.log.Error("Failed to delete OTPs by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return 0, fmt.Errorf("delete OTPs for %s: %w", email, err)
	}

	return result.RowsAffected(), nil
}

func (r *otpRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM otps WHERE created_at < $1`

	result, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		r.log.Error("Failed to delete stale OTPs",
			zap.Error(err),
			zap.Time("cutoff", cutoff),
		)
		return 0, fmt.Errorf("delete OTPs created before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	return result.RowsAffected(), nil
}
