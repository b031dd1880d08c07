package cryptox

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCipher(t *testing.T) *Cipher {
	t.Helper()
	key, err := GenerateKey()
	require.NoError(t, err)
	c, err := NewFromBase64(key)
	require.NoError(t, err)
	return c
}

func TestRoundTrip(t *testing.T) {
	c := newTestCipher(t)

	inputs := []string{
		"",
		"bob",
		"s3cret",
		"пароль-密码-🔐",
		string(bytes.Repeat([]byte("x"), 4096)),
	}

	for _, in := range inputs {
		blob, err := c.Encrypt(in)
		require.NoError(t, err)

		out, err := c.Decrypt(blob)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestEncrypt_FreshNonce(t *testing.T) {
	c := newTestCipher(t)

	a, err := c.Encrypt("same")
	require.NoError(t, err)
	b, err := c.Encrypt("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestDecrypt_Failures(t *testing.T) {
	c := newTestCipher(t)
	other := newTestCipher(t)

	blob, err := c.Encrypt("s3cret")
	require.NoError(t, err)
	assert.NotContains(t, string(blob), "s3cret")

	tampered := append([]byte(nil), blob...)
	tampered[len(tampered)-1] ^= 0xff

	badVersion := append([]byte(nil), blob...)
	badVersion[0] = 9

	tests := []struct {
		name string
		c    *Cipher
		blob []byte
	}{
		{name: "empty", c: c, blob: nil},
		{name: "truncated", c: c, blob: blob[:10]},
		{name: "tampered", c: c, blob: tampered},
		{name: "unknown version", c: c, blob: badVersion},
		{name: "wrong key", c: other, blob: blob},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.c.Decrypt(tt.blob)
			assert.ErrorIs(t, err, ErrInvalidCiphertext)
		})
	}
}

func TestNewFromBase64(t *testing.T) {
	raw := bytes.Repeat([]byte{7}, KeySize)

	for _, enc := range []*base64.Encoding{base64.URLEncoding, base64.RawURLEncoding, base64.StdEncoding} {
		_, err := NewFromBase64(enc.EncodeToString(raw))
		assert.NoError(t, err)
	}

	_, err := NewFromBase64(base64.StdEncoding.EncodeToString(raw[:16]))
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = NewFromBase64("!!! not base64 !!!")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
