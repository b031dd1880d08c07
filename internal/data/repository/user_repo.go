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

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error)
	CountAll(ctx context.Context) (int64, error)
	MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// ReplacePendingCredentials overwrites the password hash and phone of an
	// account that is still unverified.
	ReplacePendingCredentials(ctx context.Context, id uuid.UUID, passwordHash string, phone *string, at time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteUnverifiedByEmail(ctx context.Context, email string) (int64, error)
	// DeleteStaleUnverified removes unverified users created before cutoff
	// that have no OTP issued at or after cutoff.
	DeleteStaleUnverified(ctx context.Context, cutoff time.Time) (int64, error)
}

type userRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewUserRepository(db database.DBTX, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, email, phone, password, is_verified, is_active,
		       is_staff, is_superuser, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.IsVerified,
		&user.IsActive,
		&user.IsStaff,
		&user.IsSuperuser,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user. A taken email yields ErrDuplicate without
// aborting the surrounding transaction.
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, phone, password, is_verified, is_active,
		                   is_staff, is_superuser, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (email) DO NOTHING
	`

	result, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.IsVerified,
		user.IsActive,
		user.IsStaff,
		user.IsSuperuser,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if isUniqueViolation(err) {
		return fmt.Errorf("create user %s: %w", user.Email, ErrDuplicate)
	}
	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("create user %s: %w", user.Email, ErrDuplicate)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

// FindAll retrieves a page of users, newest first
func (ur *userRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := ur.db.Query(ctx, query, limit, offset)
	if err != nil {
		ur.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all users limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM users`

	var count int64
	if err := ur.db.QueryRow(ctx, query).Scan(&count); err != nil {
		ur.log.Error("Database error counting users", zap.Error(err))
		return 0, fmt.Errorf("count all users: %w", err)
	}

	return count, nil
}

func (ur *userRepository) MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE users
		SET is_verified = TRUE, updated_at = $2
		WHERE id = $1 AND is_verified = FALSE
	`

	result, err := ur.db.Exec(ctx, query, id, at)
	if err != nil {
		ur.log.Error("Failed to mark user verified",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return false, fmt.Errorf("mark user %s verified: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (ur *userRepository) ReplacePendingCredentials(ctx context.Context, id uuid.UUID, passwordHash string, phone *string, at time.Time) (bool, error) {
	query := `
		UPDATE users
		SET password = $2, phone = $3, updated_at = $4
		WHERE id = $1 AND is_verified = FALSE
	`

	result, err := ur.db.Exec(ctx, query, id, passwordHash, phone, at)
	if err != nil {
		ur.log.Error("Failed to replace pending credentials",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return false, fmt.Errorf("replace credentials of user %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

// Delete removes the user; vault items and sessions cascade.
func (ur *userRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM users WHERE id = $1`

	result, err := ur.db.Exec(ctx, query, id)
	if err != nil {
		ur.log.Error("Failed to delete user",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return false, fmt.Errorf("delete user %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (ur *userRepository) DeleteUnverifiedByEmail(ctx context.Context, email string) (int64, error) {
	query := `DELETE FROM users WHERE email = $1 AND is_verified = FALSE`

	result, err := ur.db.Exec(ctx, query, email)
	if err != nil {
		ur.log.Error("Failed to delete unverified user",
			zap.Error(err),
			zap.String("email", email),
		)
		return 0, fmt.Errorf("delete unverified user %s: %w", email, err)
	}

	return result.RowsAffected(), nil
}

func (ur *userRepository) DeleteStaleUnverified(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM users u
		WHERE u.is_verified = FALSE
		  AND u.created_at < $1
		  AND NOT EXISTS (
		      SELECT 1 FROM otps o
		      WHERE o.email = u.email AND o.created_at >= $1
		  )
	`

	result, err := ur.db.Exec(ctx, query, cutoff)
	if err != nil {
		ur.log.Error("Failed to delete stale unverified users",
			zap.Error(err),
			zap.Time("cutoff", cutoff),
		)
		return 0, fmt.Errorf("delete stale unverified users: %w", err)
	}

	return result.RowsAffected(), nil
}
