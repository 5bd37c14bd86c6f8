// Package crypto derives fixed-size keys from operator-supplied secrets.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the key length gorilla/csrf expects (32 bytes).
const KeySize = 32

var ErrEmptySecret = errors.New("secret must not be empty")

// DeriveKey turns secret into a KeySize key bound to purpose. A secret that
// is already KeySize bytes of hex is used as is; anything else is stretched
// with HKDF-SHA256, so the same secret always yields the same key.
func DeriveKey(secret, purpose string) ([]byte, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	if raw, err := hex.DecodeString(secret); err == nil && len(raw) == KeySize {
		return raw, nil
	}

	key := make([]byte, KeySize)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// GenerateKey returns a random KeySize key, hex-encoded so it can be pasted
// into configuration.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return hex.EncodeToString(key), nil
}
