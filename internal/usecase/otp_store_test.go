package usecase

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"credential-vault/internal/data/repository"
	"credential-vault/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOTPStore_IssueUsesRealGenerator(t *testing.T) {
	repo := repository.NewMemoryRepository(zap.NewNop())
	store := NewOTPStore(&fakeSender{}, 10*time.Minute, zap.NewNop())

	otp, err := store.Issue(context.Background(), repo.OTP, testEmail)
	require.NoError(t, err)
	require.Len(t, otp.OTPCode, 6)

	n, err := strconv.Atoi(otp.OTPCode)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 100000)
	assert.LessOrEqual(t, n, 999999)
}

func TestOTPStore_IssueGeneratorFailure(t *testing.T) {
	repo := repository.NewMemoryRepository(zap.NewNop())
	store := NewOTPStore(&fakeSender{}, 10*time.Minute, zap.NewNop())
	store.generate = func() (string, error) { return "", errors.New("entropy exhausted") }

	_, err := store.Issue(context.Background(), repo.OTP, testEmail)
	assert.ErrorContains(t, err, "entropy exhausted")

	latest, err := repo.OTP.FindLatestByEmail(context.Background(), testEmail)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestOTPStore_ConsumeIsCompareAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository(zap.NewNop())
	store := NewOTPStore(&fakeSender{}, 10*time.Minute, zap.NewNop())

	otp, err := store.Issue(ctx, repo.OTP, testEmail)
	require.NoError(t, err)

	require.NoError(t, store.Consume(ctx, repo.OTP, otp))
	assert.ErrorIs(t, store.Consume(ctx, repo.OTP, otp), ErrNoOTPFound)

	_, err = store.Latest(ctx, repo.OTP, testEmail)
	assert.ErrorIs(t, err, ErrNoOTPFound)
}

func TestOTPStore_ExpiryWindow(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository(zap.NewNop())
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewOTPStore(&fakeSender{}, 5*time.Minute, zap.NewNop())
	store.now = clock.Now

	otp, err := store.Issue(ctx, repo.OTP, testEmail)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(5*time.Minute), store.ExpiresAt(otp))

	clock.Advance(5 * time.Minute)
	assert.False(t, store.IsExpired(otp))

	clock.Advance(time.Nanosecond)
	assert.True(t, store.IsExpired(otp))
}

func TestOTPStore_Matches(t *testing.T) {
	store := NewOTPStore(&fakeSender{}, time.Minute, zap.NewNop())
	code, err := utils.GenerateOTP()
	require.NoError(t, err)

	repo := repository.NewMemoryRepository(zap.NewNop())
	store.generate = func() (string, error) { return code, nil }
	otp, err := store.Issue(context.Background(), repo.OTP, testEmail)
	require.NoError(t, err)

	assert.True(t, store.Matches(otp, code))
	assert.False(t, store.Matches(otp, "12345"))
	assert.False(t, store.Matches(otp, code+"0"))
}
