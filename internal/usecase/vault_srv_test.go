package usecase

import (
	"context"
	"testing"

	"credential-vault/internal/data/entity"
	"credential-vault/internal/dto/request"
	"credential-vault/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(v string) *string { return &v }

func TestVault_CreateListIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "u@x.com", testPassword, true, true)
	u2 := f.createUser(t, "u2@x.com", testPassword, true, true)

	created, err := f.vault.Create(ctx, u.ID, &request.CreateVaultItemRequest{Website: "site.com", Username: "bob", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "bob", created.DecryptedUsername)

	items, err := f.vault.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "site.com", items[0].Website)
	assert.Equal(t, "bob", items[0].DecryptedUsername)
	assert.Equal(t, "s3cret", items[0].DecryptedPassword)

	others, err := f.vault.List(ctx, u2.ID)
	require.NoError(t, err)
	assert.Empty(t, others)

	assert.ErrorIs(t, f.vault.Delete(ctx, u2.ID, created.ID), ErrNotFound)

	_, err = f.vault.Get(ctx, u2.ID, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.vault.Get(ctx, u.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got.DecryptedPassword)
}

func TestVault_StoresOnlyCiphertext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "u@x.com", testPassword, true, true)

	created, err := f.vault.Create(ctx, u.ID, &request.CreateVaultItemRequest{Website: "site.com", Username: "bob", Password: "s3cret"})
	require.NoError(t, err)

	stored, err := f.repo.Vault.FindByIDAndOwner(ctx, uuid.MustParse(created.ID), u.ID)
	require.NoError(t, err)
	assert.NotContains(t, string(stored.Username), "bob")
	assert.NotContains(t, string(stored.Password), "s3cret")

	plain, err := f.cipher.Decrypt(stored.Password)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", plain)
}

func TestVault_UpdateWebsiteOnlyKeepsCiphertext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "u@x.com", testPassword, true, true)

	created, err := f.vault.Create(ctx, u.ID, &request.CreateVaultItemRequest{Website: "site.com", Username: "bob", Password: "s3cret"})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	before, err := f.repo.Vault.FindByIDAndOwner(ctx, id, u.ID)
	require.NoError(t, err)

	updated, err := f.vault.Update(ctx, u.ID, created.ID, &request.UpdateVaultItemRequest{Website: strPtr("new.com")})
	require.NoError(t, err)
	assert.Equal(t, "new.com", updated.Website)
	assert.Equal(t, "bob", updated.DecryptedUsername)

	after, err := f.repo.Vault.FindByIDAndOwner(ctx, id, u.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Username, after.Username)
	assert.Equal(t, before.Password, after.Password)
}

func TestVault_UpdateBothCredentialsReencrypts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "u@x.com", testPassword, true, true)

	created, err := f.vault.Create(ctx, u.ID, &request.CreateVaultItemRequest{Website: "facebook.com", Username: "alice123", Password: "supersecret"})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	before, err := f.repo.Vault.FindByIDAndOwner(ctx, id, u.ID)
	require.NoError(t, err)

	updated, err := f.vault.Update(ctx, u.ID, created.ID, &request.UpdateVaultItemRequest{
		Website:  strPtr("facebook.com"),
		Username: strPtr("alice456"),
		Password: strPtr("newsecret"),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice456", updated.DecryptedUsername)
	assert.Equal(t, "newsecret", updated.DecryptedPassword)

	after, err := f.repo.Vault.FindByIDAndOwner(ctx, id, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, before.Username, after.Username)
	assert.NotEqual(t, before.Password, after.Password)
}

func TestVault_UpdatePartialCredentialsIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "u@x.com", testPassword, true, true)

	created, err := f.vault.Create(ctx, u.ID, &request.CreateVaultItemRequest{Website: "site.com", Username: "bob", Password: "s3cret"})
	require.NoError(t, err)

	updated, err := f.vault.Update(ctx, u.ID, created.ID, &request.UpdateVaultItemRequest{
		Website:  strPtr("renamed.com"),
		Password: strPtr("changed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed.com", updated.Website)
	assert.Equal(t, "bob", updated.DecryptedUsername)
	assert.Equal(t, "s3cret", updated.DecryptedPassword)
}

func TestVault_UpdateAndDeleteNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "u@x.com", testPassword, true, true)
	u2 := f.createUser(t, "u2@x.com", testPassword, true, true)

	created, err := f.vault.Create(ctx, u.ID, &request.CreateVaultItemRequest{Website: "site.com", Username: "bob", Password: "s3cret"})
	require.NoError(t, err)

	_, err = f.vault.Update(ctx, u2.ID, created.ID, &request.UpdateVaultItemRequest{Website: strPtr("evil.com")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.vault.Update(ctx, u.ID, "not-a-uuid", &request.UpdateVaultItemRequest{Website: strPtr("x.com")})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, f.vault.Delete(ctx, u.ID, uuid.NewString()), ErrNotFound)

	require.NoError(t, f.vault.Delete(ctx, u.ID, created.ID))
	assert.ErrorIs(t, f.vault.Delete(ctx, u.ID, created.ID), ErrNotFound)

	items, err := f.vault.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestVault_CreateValidation(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "u@x.com", testPassword, true, true)

	_, err := f.vault.Create(context.Background(), u.ID, &request.CreateVaultItemRequest{Username: "bob", Password: "pw"})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "Website")
}

func TestVault_CorruptCiphertextSurfacesError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "u@x.com", testPassword, true, true)

	now := f.clock.Now()
	item := &entity.VaultItem{
		Base:     entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
		UserID:   u.ID,
		Website:  "broken.com",
		Username: []byte("garbage"),
		Password: []byte("garbage"),
	}
	require.NoError(t, f.repo.Vault.Create(ctx, item))

	_, err := f.vault.List(ctx, u.ID)
	assert.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = f.vault.Get(ctx, u.ID, item.ID.String())
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestVault_ItemsRemovedWithOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "u@x.com", testPassword, true, true)

	_, err := f.vault.Create(ctx, u.ID, &request.CreateVaultItemRequest{Website: "site.com", Username: "bob", Password: "s3cret"})
	require.NoError(t, err)

	require.NoError(t, f.users.DeleteUser(ctx, u.ID.String()))

	items, err := f.vault.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
