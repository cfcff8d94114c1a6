package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// PBKDF2 parameters for the wallet blob
	//
	// 100k iterations of HMAC-SHA-256 keeps unlock around ~100ms on
	// desktop hardware while making offline brute force of a stolen
	// blob expensive. The salt is regenerated on every encryption, so
	// identical passwords never derive the same key.
	pbkdf2Iterations = 100_000
	keyLen           = 32

	saltLen  = 16
	nonceLen = 12

	// headerLen is the fixed prefix of every blob: salt followed by nonce.
	headerLen = saltLen + nonceLen
)

// Encrypt seals secret under a password-derived AES-256-GCM key and returns
// the storable blob: base64(salt || nonce || ciphertext+tag). Salt and nonce
// are drawn fresh from crypto/rand on every call.
// password must be []byte for security (caller should zero it after use)
func Encrypt(secret, password []byte) (string, error) {
	// Generate salt and nonce
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Derive key from password
	key := pbkdf2.Key(password, salt, pbkdf2Iterations, keyLen, sha256.New)
	defer clear(key) // wipe derived key from memory

	// Create AES cipher
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	// Create GCM
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	// Encrypt
	ciphertext := aesGCM.Seal(nil, nonce, secret, nil)

	// Combine: salt (16) + nonce (12) + ciphertext (which includes auth tag)
	combined := make([]byte, 0, headerLen+len(ciphertext))
	combined = append(combined, salt...)
	combined = append(combined, nonce...)
	combined = append(combined, ciphertext...)

	return base64.StdEncoding.EncodeToString(combined), nil
}
