package utils

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP_RangeAndFormat(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, otpMin)
		assert.LessOrEqual(t, n, otpMax)
	}
}

func TestGenerateSessionToken_Unique(t *testing.T) {
	assert.NotEqual(t, GenerateSessionToken(), GenerateSessionToken())
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("pw12345678")
	require.NoError(t, err)

	assert.NotEqual(t, "pw12345678", hash)
	assert.True(t, CheckPasswordHash("pw12345678", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestGenerateOrderedUUID_Increasing(t *testing.T) {
	prev := GenerateOrderedUUID()
	for i := 0; i < 100; i++ {
		next := GenerateOrderedUUID()
		assert.Equal(t, 1, bytes.Compare(next[:], prev[:]))
		prev = next
	}
}
