package repository

import (
	"context"
	"errors"

	"credential-vault/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

const uniqueViolation = "23505"

type Repository struct {
	User    UserRepository
	Session SessionRepository
	OTP     OTPRepository
	Vault   VaultRepository

	runTx func(ctx context.Context, fn func(txRepo *Repository) error) error
}

// NewRepository builds PostgreSQL backed repositories over the pool.
func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newPgRepository(db, log)
	repo.runTx = func(ctx context.Context, fn func(*Repository) error) error {
		return database.WithTx(ctx, db, func(tx database.DBTX) error {
			txRepo := newPgRepository(tx, log)
			txRepo.runTx = joinTx(txRepo)
			return fn(txRepo)
		})
	}
	return repo
}

func newPgRepository(db database.DBTX, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		OTP:     NewOTPRepository(db, log),
		Vault:   NewVaultRepository(db, log),
	}
}

// WithTx runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil. Calling WithTx on a repository
// that is already transactional joins the outer transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(txRepo *Repository) error) error {
	return r.runTx(ctx, fn)
}

func joinTx(txRepo *Repository) func(context.Context, func(*Repository) error) error {
	return func(_ context.Context, fn func(*Repository) error) error {
		return fn(txRepo)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
