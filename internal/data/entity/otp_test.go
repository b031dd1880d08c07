package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOTP_IsExpired(t *testing.T) {
	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	otp := &OTP{BaseSimple: BaseSimple{CreatedAt: created}}
	window := 10 * time.Minute

	assert.False(t, otp.IsExpired(created, window))
	assert.False(t, otp.IsExpired(created.Add(window), window), "boundary is still valid")
	assert.True(t, otp.IsExpired(created.Add(window+time.Second), window))
}
