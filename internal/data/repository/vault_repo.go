package repository

import (
	"context"
	"errors"
	"fmt"

	"credential-vault/internal/data/entity"
	"credential-vault/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// VaultRepository stores vault items. Every lookup and mutation is scoped by
// owner; an id owned by someone else behaves exactly like a missing id.
type VaultRepository interface {
	Create(ctx context.Context, item *entity.VaultItem) error
	FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*entity.VaultItem, error)
	FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.VaultItem, error)
	Update(ctx context.Context, item *entity.VaultItem) (bool, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
}

type vaultRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewVaultRepository(db database.DBTX, log *zap.Logger) VaultRepository {
	return &vaultRepository{
		db:  db,
		log: log.With(zap.String("repository", "vault")),
	}
}

func (r *vaultRepository) Create(ctx context.Context, item *entity.VaultItem) error {
	query := `
		INSERT INTO vault_items (id, user_id, website, username, password,
		                         created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		item.ID,
		item.UserID,
		item.Website,
		item.Username,
		item.Password,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create vault item",
			zap.Error(err),
			zap.String("user_id", item.UserID.String()),
		)
		return fmt.Errorf("create vault item: %w", err)
	}

	return nil
}

func (r *vaultRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*entity.VaultItem, error) {
	query := `
		SELECT id, user_id, website, username, password, created_at, updated_at
		FROM vault_items
		WHERE id = $1 AND user_id = $2
	`

	var item entity.VaultItem
	err := r.db.QueryRow(ctx, query, id, ownerID).Scan(
		&item.ID,
		&item.UserID,
		&item.Website,
		&item.Username,
		&item.Password,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find vault item",
			zap.Error(err),
			zap.String("item_id", id.String()),
		)
		return nil, fmt.Errorf("find vault item %s: %w", id.String(), err)
	}

	return &item, nil
}

func (r *vaultRepository) FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.VaultItem, error) {
	query := `
		SELECT id, user_id, website, username, password, created_at, updated_at
		FROM vault_items
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		r.log.Error("Failed to list vault items",
			zap.Error(err),
			zap.String("user_id", ownerID.String()),
		)
		return nil, fmt.Errorf("list vault items for %s: %w", ownerID.String(), err)
	}
	defer rows.Close()

	items := make([]*entity.VaultItem, 0)
	for rows.Next() {
		var item entity.VaultItem
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Website,
			&item.Username,
			&item.Password,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			r.log.Error("Failed to scan vault item row", zap.Error(err))
			return nil, fmt.Errorf("scan vault item row: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate vault item rows: %w", err)
	}

	return items, nil
}

// Update overwrites website, both credential blobs and updated_at.
func (r *vaultRepository) Update(ctx context.Context, item *entity.VaultItem) (bool, error) {
	query := `
		UPDATE vault_items
		SET website = $3, username = $4, password = $5, updated_at = $6
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.Exec(ctx, query,
		item.ID,
		item.UserID,
		item.Website,
		item.Username,
		item.Password,
		item.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update vault item",
			zap.Error(err),
			zap.String("item_id", item.ID.String()),
		)
		return false, fmt.Errorf("update vault item %s: %w", item.ID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *vaultRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	query := `DELETE FROM vault_items WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		r.log.Error("Failed to delete vault item",
			zap.Error(err),
			zap.String("item_id", id.String()),
		)
		return false, fmt.Errorf("delete vault item %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
