package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"credential-vault/internal/data/entity"
	"credential-vault/internal/data/repository"
	"credential-vault/internal/dto/request"
	"credential-vault/internal/dto/response"
	"credential-vault/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cipher seals credential fields before they reach storage.
type Cipher interface {
	Encrypt(plaintext string) ([]byte, error)
	Decrypt(ciphertext []byte) (string, error)
}

// VaultService manages the caller's own vault items. Items owned by anyone
// else are reported as ErrNotFound.
type VaultService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req *request.CreateVaultItemRequest) (*response.VaultItemResponse, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]response.VaultItemResponse, error)
	Get(ctx context.Context, ownerID uuid.UUID, itemID string) (*response.VaultItemResponse, error)
	Update(ctx context.Context, ownerID uuid.UUID, itemID string, req *request.UpdateVaultItemRequest) (*response.VaultItemResponse, error)
	Delete(ctx context.Context, ownerID uuid.UUID, itemID string) error
}

type vaultService struct {
	repo   *repository.Repository
	cipher Cipher
	now    func() time.Time
	log    *zap.Logger
}

func NewVaultService(repo *repository.Repository, cipher Cipher, log *zap.Logger) VaultService {
	return &vaultService{
		repo:   repo,
		cipher: cipher,
		now:    time.Now,
		log:    log.With(zap.String("service", "vault")),
	}
}

func (s *vaultService) Create(ctx context.Context, ownerID uuid.UUID, req *request.CreateVaultItemRequest) (*response.VaultItemResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create vault item validation failed", zap.Error(err))
		return nil, err
	}

	username, password, err := s.seal(req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	item := &entity.VaultItem{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:   ownerID,
		Website:  req.Website,
		Username: username,
		Password: password,
	}

	if err := s.repo.Vault.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create vault item: %w", err)
	}

	s.log.Info("Vault item created",
		zap.String("item_id", item.ID.String()),
		zap.String("user_id", ownerID.String()),
	)

	return &response.VaultItemResponse{
		ID:                item.ID.String(),
		Website:           item.Website,
		DecryptedUsername: req.Username,
		DecryptedPassword: req.Password,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}, nil
}

func (s *vaultService) List(ctx context.Context, ownerID uuid.UUID) ([]response.VaultItemResponse, error) {
	items, err := s.repo.Vault.FindAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list vault items: %w", err)
	}

	result := make([]response.VaultItemResponse, 0, len(items))
	for _, item := range items {
		view, err := s.open(item)
		if err != nil {
			return nil, err
		}
		result = append(result, *view)
	}

	return result, nil
}

func (s *vaultService) Get(ctx context.Context, ownerID uuid.UUID, itemID string) (*response.VaultItemResponse, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, ErrNotFound
	}

	item, err := s.repo.Vault.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get vault item: %w", err)
	}
	if item == nil {
		return nil, ErrNotFound
	}

	return s.open(item)
}

// Update changes the website independently of credentials. Credentials are
// re-encrypted only when both username and password are supplied.
func (s *vaultService) Update(ctx context.Context, ownerID uuid.UUID, itemID string, req *request.UpdateVaultItemRequest) (*response.VaultItemResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Update vault item validation failed", zap.Error(err))
		return nil, err
	}

	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, ErrNotFound
	}

	var updated *entity.VaultItem

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		item, err := tx.Vault.FindByIDAndOwner(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrNotFound
		}

		if req.Website != nil {
			item.Website = *req.Website
		}

		switch {
		case req.HasCredentials():
			username, password, err := s.seal(*req.Username, *req.Password)
			if err != nil {
				return err
			}
			item.Username, item.Password = username, password
		case req.HasPartialCredentials():
			s.log.Warn("Partial credential update ignored",
				zap.String("item_id", item.ID.String()),
			)
		}

		item.UpdatedAt = s.now().UTC()

		ok, err := tx.Vault.Update(ctx, item)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}

		updated = item
		return nil
	})

	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("update vault item: %w", err)
	}

	s.log.Info("Vault item updated", zap.String("item_id", updated.ID.String()))
	return s.open(updated)
}

func (s *vaultService) Delete(ctx context.Context, ownerID uuid.UUID, itemID string) error {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return ErrNotFound
	}

	deleted, err := s.repo.Vault.Delete(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete vault item: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}

	s.log.Info("Vault item deleted",
		zap.String("item_id", id.String()),
		zap.String("user_id", ownerID.String()),
	)
	return nil
}

// ==================== HELPER METHODS ====================

func (s *vaultService) seal(username, password string) ([]byte, []byte, error) {
	u, err := s.cipher.Encrypt(username)
	if err != nil {
		return nil, nil, fmt.Errorf("encrypt username: %w", err)
	}
	p, err := s.cipher.Encrypt(password)
	if err != nil {
		return nil, nil, fmt.Errorf("encrypt password: %w", err)
	}
	return u, p, nil
}

func (s *vaultService) open(item *entity.VaultItem) (*response.VaultItemResponse, error) {
	username, err := s.cipher.Decrypt(item.Username)
	if err != nil {
		s.log.Error("Failed to decrypt vault username", zap.Error(err), zap.String("item_id", item.ID.String()))
		return nil, fmt.Errorf("decrypt vault item %s: %w", item.ID.String(), err)
	}
	password, err := s.cipher.Decrypt(item.Password)
	if err != nil {
		s.log.Error("Failed to decrypt vault password", zap.Error(err), zap.String("item_id", item.ID.String()))
		return nil, fmt.Errorf("decrypt vault item %s: %w", item.ID.String(), err)
	}

	return &response.VaultItemResponse{
		ID:                item.ID.String(),
		Website:           item.Website,
		DecryptedUsername: username,
		DecryptedPassword: password,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}, nil
}
