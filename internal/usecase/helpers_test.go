package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"credential-vault/internal/data/entity"
	"credential-vault/internal/data/repository"
	"credential-vault/pkg/cryptox"
	"credential-vault/pkg/token"
	"credential-vault/pkg/utils"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentCode struct {
	email string
	code  string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (f *fakeSender) Send(_ context.Context, email, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentCode{email: email, code: code})
	return nil
}

func (f *fakeSender) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeSender) last(t *testing.T, email string) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].email == email {
			return f.sent[i].code
		}
	}
	t.Fatalf("no code sent to %s", email)
	return ""
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	cfg    *utils.Config
	repo   *repository.Repository
	sender *fakeSender
	clock  *fakeClock
	cipher *cryptox.Cipher
	tokens *token.Issuer
	otp    *OTPStore
	auth   *authService
	vault  *vaultService
	users  *userService
	maint  *maintenanceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &utils.Config{
		JWT: utils.JWTConfig{Secret: "test-secret", AccessTTL: 15 * time.Minute, RefreshTTL: 24 * time.Hour},
		OTP: utils.OTPConfig{Expiry: 10 * time.Minute},
	}
	log := zap.NewNop()

	key, err := cryptox.GenerateKey()
	require.NoError(t, err)
	cipher, err := cryptox.NewFromBase64(key)
	require.NoError(t, err)

	f := &fixture{
		cfg:    cfg,
		repo:   repository.NewMemoryRepository(log),
		sender: &fakeSender{},
		clock:  &fakeClock{t: time.Now().UTC().Truncate(time.Second)},
		cipher: cipher,
		tokens: token.NewIssuer(cfg.JWT.Secret, cfg.JWT.AccessTTL),
	}

	svc := NewService(f.repo, cfg, Dependencies{Cipher: cipher, Sender: f.sender, Tokens: f.tokens}, log)

	f.auth = svc.Auth.(*authService)
	f.vault = svc.Vault.(*vaultService)
	f.users = svc.User.(*userService)
	f.maint = svc.Maintenance.(*maintenanceService)
	f.otp = f.auth.otp

	f.auth.now = f.clock.Now
	f.vault.now = f.clock.Now
	f.maint.now = f.clock.Now
	f.otp.now = f.clock.Now

	var seq int
	var seqMu sync.Mutex
	f.otp.generate = func() (string, error) {
		seqMu.Lock()
		defer seqMu.Unlock()
		seq++
		return fmt.Sprintf("%06d", 100000+seq*111), nil
	}

	return f
}

// createUser stores an account directly, bypassing the OTP flow.
func (f *fixture) createUser(t *testing.T, email, password string, verified, active bool) *entity.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	now := f.clock.Now()
	user := &entity.User{
		Base:         entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
		Email:        email,
		PasswordHash: hash,
		IsVerified:   verified,
		IsActive:     active,
	}
	require.NoError(t, f.repo.User.Create(context.Background(), user))
	return user
}

var errRollback = errors.New("rollback")

// otpCount counts stored codes for email without changing the store.
func (f *fixture) otpCount(t *testing.T, email string) int {
	t.Helper()
	ctx := context.Background()
	n := 0
	err := f.repo.WithTx(ctx, func(tx *repository.Repository) error {
		deleted, err := tx.OTP.DeleteByEmail(ctx, email)
		if err != nil {
			return err
		}
		n = int(deleted)
		return errRollback
	})
	require.ErrorIs(t, err, errRollback)
	return n
}
