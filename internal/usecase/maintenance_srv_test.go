package usecase

import (
	"context"
	"testing"
	"time"

	"credential-vault/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSweepExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Abandoned signup: the code expires and nobody verifies.
	f.signup(t, "stale@x.com")

	// Verified account with a live session and an expired session.
	f.createUser(t, testEmail, testPassword, true, true)
	_, err := f.auth.Login(ctx, &request.LoginRequest{Email: testEmail, Password: testPassword})
	require.NoError(t, err)
	old, err := f.auth.VerifyLoginOTP(ctx, &request.VerifyOTPRequest{Email: testEmail, OTP: f.sender.last(t, testEmail)}, request.ClientInfo{})
	require.NoError(t, err)

	f.clock.Advance(f.cfg.JWT.RefreshTTL + 8*24*time.Hour)

	// Pending signup that is still within its window.
	f.signup(t, "fresh@x.com")

	result, err := f.maint.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Users)
	assert.Equal(t, int64(1), result.OTPs)
	assert.Equal(t, int64(1), result.Sessions)

	stale, err := f.repo.User.FindByEmail(ctx, "stale@x.com")
	require.NoError(t, err)
	assert.Nil(t, stale)

	fresh, err := f.repo.User.FindByEmail(ctx, "fresh@x.com")
	require.NoError(t, err)
	assert.NotNil(t, fresh)
	assert.Equal(t, 1, f.otpCount(t, "fresh@x.com"))

	verified, err := f.repo.User.FindByEmail(ctx, testEmail)
	require.NoError(t, err)
	assert.NotNil(t, verified)

	session, err := f.repo.Session.FindValidSession(ctx, old.RefreshToken, f.clock.Now())
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSweepExpired_LogsCountsOnce(t *testing.T) {
	f := newFixture(t)
	core, logs := observer.New(zap.InfoLevel)
	f.maint.log = zap.New(core)

	f.signup(t, "stale@x.com")
	f.clock.Advance(f.cfg.OTP.Expiry + time.Minute)

	_, err := f.maint.SweepExpired(context.Background())
	require.NoError(t, err)

	entries := logs.FilterMessage("Sweep completed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["users"])
	assert.Equal(t, 1, logs.Len())
}
