package wallet

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/socketagent/socketbrowser/internal/crypto"
	"github.com/socketagent/socketbrowser/internal/mnemonic"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

const (
	storageKeyEncrypted = "solana_wallet_encrypted"
	storageKeyAddress   = "solana_wallet_address"
)

// Store is the persistent key-value storage holding the wallet record.
// Set must make the value durable before returning.
type Store interface {
	Get(key string) (json.RawMessage, bool)
	Set(key string, value any) error
}

// Ledger resolves the on-chain balance of an address.
type Ledger interface {
	Balance(ctx context.Context, address string) (uint64, error)
}

// Wallet holds the single in-memory keypair session and drives every
// lifecycle transition. At most one wallet record exists at a time;
// generating or importing over an existing record overwrites it
// irreversibly. All transitions are serialized by one mutex.
type Wallet struct {
	mu      sync.Mutex
	store   Store
	ledger  Ledger
	keypair solana.PrivateKey // nil while locked
}

// New creates a locked wallet backed by store and ledger.
func New(store Store, ledger Ledger) *Wallet {
	return &Wallet{store: store, ledger: ledger}
}

// GenerateNew creates a wallet from a fresh 12-word recovery phrase,
// persists it encrypted under password and unlocks the session. The phrase
// is returned exactly once and never stored; losing it means the wallet is
// only recoverable through the password.
func (w *Wallet) GenerateNew(password []byte) (address, phrase string, err error) {
	phrase, err = mnemonic.Generate()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate recovery phrase: %w", err)
	}

	keypair, err := keypairFromPhrase(phrase)
	if err != nil {
		return "", "", err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	address, err = w.activateLocked(keypair, password)
	if err != nil {
		return "", "", err
	}
	return address, phrase, nil
}

// ImportFromMnemonic derives the keypair from an existing recovery phrase,
// persists it encrypted under password and unlocks the session.
func (w *Wallet) ImportFromMnemonic(phrase string, password []byte) (string, error) {
	if !mnemonic.Validate(phrase) {
		return "", &ValidationError{Message: "invalid recovery phrase"}
	}

	keypair, err := keypairFromPhrase(phrase)
	if err != nil {
		return "", err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	return w.activateLocked(keypair, password)
}

// ImportFromPrivateKey accepts a base58-encoded 64-byte secret key, persists
// it encrypted under password and unlocks the session. The key is validated
// before anything is written, so a rejected import never clobbers an
// existing wallet record.
func (w *Wallet) ImportFromPrivateKey(encoded string, password []byte) (string, error) {
	decoded, err := base58.Decode(encoded)
	if err != nil {
		return "", &ValidationError{Message: "private key is not valid base58"}
	}
	if len(decoded) != ed25519.PrivateKeySize {
		clear(decoded)
		return "", &ValidationError{Message: fmt.Sprintf("private key must decode to %d bytes", ed25519.PrivateKeySize)}
	}

	// The trailing 32 bytes must be the public key of the leading 32. A key
	// that fails this check could never have produced valid signatures.
	derived := ed25519.NewKeyFromSeed(decoded[:ed25519.SeedSize])
	match := bytes.Equal(derived[ed25519.SeedSize:], decoded[ed25519.SeedSize:])
	clear(derived)
	if !match {
		clear(decoded)
		return "", &ValidationError{Message: "private key does not match its embedded public key"}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	return w.activateLocked(solana.PrivateKey(decoded), password)
}

// Unlock decrypts the stored wallet record with password and starts a
// session. A wrong password is indistinguishable from a corrupted record;
// both surface as crypto.ErrAuthenticationFailed.
func (w *Wallet) Unlock(password []byte) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	blob, err := w.encryptedBlobLocked()
	if err != nil {
		return "", err
	}

	secret, err := crypto.Decrypt(blob, password)
	if err != nil {
		return "", err
	}
	if len(secret) != ed25519.PrivateKeySize {
		clear(secret)
		return "", &StorageError{Err: fmt.Errorf("wallet record decrypted to %d bytes, want %d", len(secret), ed25519.PrivateKeySize)}
	}

	keypair := solana.PrivateKey(secret)
	w.replaceSessionLocked(keypair)

	return keypair.PublicKey().String(), nil
}

// Lock wipes the in-memory secret key and ends the session. It never fails
// and is safe to call in any state.
func (w *Wallet) Lock() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.replaceSessionLocked(nil)
}

// Address returns the base58 public key of the unlocked session.
func (w *Wallet) Address() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.keypair == nil {
		return "", ErrLocked
	}
	return w.keypair.PublicKey().String(), nil
}

// ExportPrivateKey returns the full 64-byte secret key of the unlocked
// session, base58-encoded. The caller owns keeping the result off disk.
func (w *Wallet) ExportPrivateKey() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.keypair == nil {
		return "", ErrLocked
	}
	return base58.Encode(w.keypair), nil
}

// Balance returns the funds of the unlocked wallet in lamports. The address
// is snapshotted under the session lock and the ledger query runs outside
// it, so a slow RPC node does not block other wallet calls.
func (w *Wallet) Balance(ctx context.Context) (uint64, error) {
	w.mu.Lock()
	if w.keypair == nil {
		w.mu.Unlock()
		return 0, ErrLocked
	}
	address := w.keypair.PublicKey().String()
	w.mu.Unlock()

	return w.ledger.Balance(ctx, address)
}

// ChangePassword re-encrypts the stored wallet record under newPassword.
// The session is left untouched: the wallet does not need to be unlocked,
// but oldPassword must open the existing record.
func (w *Wallet) ChangePassword(oldPassword, newPassword []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	blob, err := w.encryptedBlobLocked()
	if err != nil {
		return err
	}

	secret, err := crypto.Decrypt(blob, oldPassword)
	if err != nil {
		return err
	}
	defer clear(secret)

	reencrypted, err := crypto.Encrypt(secret, newPassword)
	if err != nil {
		return fmt.Errorf("failed to encrypt wallet: %w", err)
	}

	if err := w.store.Set(storageKeyEncrypted, reencrypted); err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

// HasWallet reports whether an encrypted wallet record exists in storage,
// regardless of session state.
func (w *Wallet) HasWallet() bool {
	_, ok := w.store.Get(storageKeyEncrypted)
	return ok
}

// IsUnlocked reports whether a keypair is held in memory.
func (w *Wallet) IsUnlocked() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.keypair != nil
}

// activateLocked encrypts keypair under password, persists the wallet
// record and makes keypair the live session. The session only changes after
// both storage writes succeed; on failure the new keypair is wiped and the
// previous session survives untouched. Callers must hold w.mu.
func (w *Wallet) activateLocked(keypair solana.PrivateKey, password []byte) (string, error) {
	blob, err := crypto.Encrypt(keypair, password)
	if err != nil {
		clear(keypair)
		return "", fmt.Errorf("failed to encrypt wallet: %w", err)
	}

	address := keypair.PublicKey().String()

	if err := w.store.Set(storageKeyEncrypted, blob); err != nil {
		clear(keypair)
		return "", &StorageError{Err: err}
	}
	if err := w.store.Set(storageKeyAddress, address); err != nil {
		clear(keypair)
		return "", &StorageError{Err: err}
	}

	w.replaceSessionLocked(keypair)
	return address, nil
}

// replaceSessionLocked wipes any currently held secret key and installs
// keypair (nil locks the wallet). Callers must hold w.mu.
func (w *Wallet) replaceSessionLocked(keypair solana.PrivateKey) {
	if w.keypair != nil {
		clear(w.keypair)
	}
	w.keypair = keypair
}

// encryptedBlobLocked reads the encrypted wallet record from storage.
// Callers must hold w.mu.
func (w *Wallet) encryptedBlobLocked() (string, error) {
	raw, ok := w.store.Get(storageKeyEncrypted)
	if !ok {
		return "", ErrNoWallet
	}

	var blob string
	if err := json.Unmarshal(raw, &blob); err != nil {
		return "", &StorageError{Err: fmt.Errorf("wallet record is not a string: %w", err)}
	}
	return blob, nil
}

// keypairFromPhrase derives the signing keypair from a recovery phrase. The
// first 32 bytes of the BIP-39 seed are used as the ed25519 seed directly,
// with no derivation path; wallets that derive m/44'/501'/0'/0' from the
// same phrase will produce a different address.
func keypairFromPhrase(phrase string) (solana.PrivateKey, error) {
	seed, err := mnemonic.ToSeed(phrase)
	if err != nil {
		return nil, &ValidationError{Message: "invalid recovery phrase"}
	}
	defer clear(seed)

	return solana.PrivateKey(ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])), nil
}
