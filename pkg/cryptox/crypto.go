// Package cryptox seals vault credentials with AES-256-GCM.
//
// A sealed blob is laid out as version(1) || nonce(12) || ciphertext+tag.
// The key is supplied once at startup and never changes for the life of the
// process.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	KeySize = 32

	blobVersion byte = 1
)

var (
	ErrInvalidKey        = errors.New("invalid cipher key")
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)

// Cipher encrypts and decrypts credential fields. It is safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// New builds a Cipher from a raw 32-byte key.
func New(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidKey, KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return &Cipher{aead: aead}, nil
}

// NewFromBase64 accepts the key in URL-safe or standard base64, padded or not.
func NewFromBase64(encoded string) (*Cipher, error) {
	key, err := decodeKey(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return New(key)
}

func decodeKey(encoded string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.URLEncoding,
		base64.RawURLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	}

	var lastErr error
	for _, enc := range encodings {
		key, err := enc.DecodeString(encoded)
		if err == nil {
			return key, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// Encrypt seals plaintext under a fresh random nonce.
func (c *Cipher) Encrypt(plaintext string) ([]byte, error) {
	nonceSize := c.aead.NonceSize()

	blob := make([]byte, 1+nonceSize, 1+nonceSize+len(plaintext)+c.aead.Overhead())
	blob[0] = blobVersion
	if _, err := rand.Read(blob[1:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return c.aead.Seal(blob, blob[1:], []byte(plaintext), []byte{blobVersion}), nil
}

// Decrypt opens a blob produced by Encrypt. Corrupt, truncated or
// foreign-key blobs yield ErrInvalidCiphertext.
func (c *Cipher) Decrypt(blob []byte) (string, error) {
	nonceSize := c.aead.NonceSize()

	if len(blob) < 1+nonceSize+c.aead.Overhead() {
		return "", fmt.Errorf("%w: blob too short", ErrInvalidCiphertext)
	}
	if blob[0] != blobVersion {
		return "", fmt.Errorf("%w: unknown version %d", ErrInvalidCiphertext, blob[0])
	}

	nonce := blob[1 : 1+nonceSize]
	plaintext, err := c.aead.Open(nil, nonce, blob[1+nonceSize:], []byte{blobVersion})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}

	return string(plaintext), nil
}

// GenerateKey returns a new random key encoded the way NewFromBase64 expects.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(key), nil
}
