package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// ErrAuthenticationFailed is returned for every blob that cannot be opened:
// wrong password, truncated data and tampered data are deliberately
// indistinguishable so the error cannot be used as a password oracle.
var ErrAuthenticationFailed = errors.New("authentication failed")

// Decrypt opens a blob produced by Encrypt and returns the secret bytes.
// No partial plaintext is ever returned.
// password must be []byte for security (caller should zero it after use)
func Decrypt(blob string, password []byte) ([]byte, error) {
	combined, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	if len(combined) < headerLen {
		return nil, ErrAuthenticationFailed
	}

	// Extract components
	salt := combined[:saltLen]
	nonce := combined[saltLen:headerLen]
	ciphertext := combined[headerLen:]

	// Derive key from password
	key := pbkdf2.Key(password, salt, pbkdf2Iterations, keyLen, sha256.New)
	defer clear(key) // wipe derived key from memory

	// Create AES cipher
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	// Create GCM
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	// Decrypt; tag verification failure must not leak why
	secret, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	return secret, nil
}
