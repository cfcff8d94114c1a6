package mnemonic

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

const (
	// entropyBits of 128 yields the standard 12-word phrase
	entropyBits = 128

	// SeedLen is the size of the seed ToSeed derives from a phrase
	SeedLen = 64
)

// Generate returns a fresh 12-word BIP-39 recovery phrase. Entropy comes
// from crypto/rand; the final word embeds the checksum.
func Generate() (string, error) {
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}

	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to build mnemonic: %w", err)
	}

	return phrase, nil
}

// Validate reports whether phrase is a well-formed recovery phrase: every
// word on the English wordlist and the checksum intact. Callers must reject
// invalid phrases before deriving any key material from them.
func Validate(phrase string) bool {
	return bip39.IsMnemonicValid(normalize(phrase))
}

// ToSeed derives the 64-byte seed for phrase with an empty passphrase
// (PBKDF2-HMAC-SHA-512, 2048 iterations, per BIP-39). The phrase is
// checksum-verified again before derivation.
func ToSeed(phrase string) ([]byte, error) {
	seed, err := bip39.NewSeedWithErrorChecking(normalize(phrase), "")
	if err != nil {
		return nil, fmt.Errorf("invalid recovery phrase: %w", err)
	}
	return seed, nil
}

// normalize folds case and collapses whitespace so that a phrase pasted with
// stray spacing derives the same seed it was generated with.
func normalize(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}
