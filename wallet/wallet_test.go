package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/socketagent/socketbrowser/internal/crypto"
	"github.com/socketagent/socketbrowser/internal/mnemonic"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
)

const testPhrase = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// fakeStore is an in-memory Store with injectable write failures.
type fakeStore struct {
	values  map[string]json.RawMessage
	sets    int
	failKey string
	failAll bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string]json.RawMessage)}
}

func (s *fakeStore) Get(key string) (json.RawMessage, bool) {
	value, ok := s.values[key]
	return value, ok
}

func (s *fakeStore) Set(key string, value any) error {
	s.sets++
	if s.failAll || key == s.failKey {
		return errors.New("disk full")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.values[key] = data
	return nil
}

type stubLedger struct {
	lamports uint64
	err      error
	calls    int
	address  string
}

func (l *stubLedger) Balance(_ context.Context, address string) (uint64, error) {
	l.calls++
	l.address = address
	return l.lamports, l.err
}

func testPassword() []byte {
	return []byte(gofakeit.Password(true, true, true, true, false, 16))
}

func TestGenerateNew(t *testing.T) {
	store := newFakeStore()
	w := New(store, &stubLedger{})

	address, phrase, err := w.GenerateNew(testPassword())
	require.NoError(t, err)
	require.NotEmpty(t, address)
	require.Len(t, strings.Fields(phrase), 12)
	require.True(t, mnemonic.Validate(phrase))

	require.True(t, w.HasWallet())
	require.True(t, w.IsUnlocked())

	got, err := w.Address()
	require.NoError(t, err)
	require.Equal(t, address, got)

	// The phrase alone must recover the same wallet elsewhere.
	other := New(newFakeStore(), &stubLedger{})
	recovered, err := other.ImportFromMnemonic(phrase, testPassword())
	require.NoError(t, err)
	require.Equal(t, address, recovered)
}

func TestLockAndUnlock(t *testing.T) {
	w := New(newFakeStore(), &stubLedger{})

	password := []byte("p@ss1")
	address, _, err := w.GenerateNew(password)
	require.NoError(t, err)

	w.Lock()
	require.False(t, w.IsUnlocked())
	require.True(t, w.HasWallet())

	_, err = w.Address()
	require.ErrorIs(t, err, ErrLocked)
	_, err = w.ExportPrivateKey()
	require.ErrorIs(t, err, ErrLocked)

	unlocked, err := w.Unlock(password)
	require.NoError(t, err)
	require.Equal(t, address, unlocked)
	require.True(t, w.IsUnlocked())
}

func TestUnlockWrongPassword(t *testing.T) {
	w := New(newFakeStore(), &stubLedger{})

	_, _, err := w.GenerateNew([]byte("correct"))
	require.NoError(t, err)
	w.Lock()

	_, err = w.Unlock([]byte("wrong"))
	require.ErrorIs(t, err, crypto.ErrAuthenticationFailed)
	require.False(t, w.IsUnlocked())

	_, err = w.Unlock([]byte("correct"))
	require.NoError(t, err)
}

func TestUnlockNoWallet(t *testing.T) {
	w := New(newFakeStore(), &stubLedger{})
	require.False(t, w.HasWallet())

	_, err := w.Unlock([]byte("anything"))
	require.ErrorIs(t, err, ErrNoWallet)
}

func TestLockIsIdempotent(t *testing.T) {
	w := New(newFakeStore(), &stubLedger{})
	w.Lock()
	w.Lock()
	require.False(t, w.IsUnlocked())
}

func TestMnemonicImportDeterministic(t *testing.T) {
	first := New(newFakeStore(), &stubLedger{})
	second := New(newFakeStore(), &stubLedger{})

	addr1, err := first.ImportFromMnemonic(testPhrase, testPassword())
	require.NoError(t, err)

	// Casing and stray whitespace must not change the derived wallet.
	messy := "  Abandon ABANDON abandon\tabandon abandon abandon abandon abandon abandon abandon abandon ABOUT "
	addr2, err := second.ImportFromMnemonic(messy, testPassword())
	require.NoError(t, err)

	require.Equal(t, addr1, addr2)
}

func TestImportInvalidMnemonic(t *testing.T) {
	store := newFakeStore()
	w := New(store, &stubLedger{})

	_, err := w.ImportFromMnemonic("definitely not a recovery phrase", []byte("pw"))
	require.True(t, IsValidationError(err), "err=%v", err)
	require.Zero(t, store.sets, "rejected import must not touch storage")
}

func TestImportPrivateKeyRoundTrip(t *testing.T) {
	first := New(newFakeStore(), &stubLedger{})
	address, _, err := first.GenerateNew([]byte("pw"))
	require.NoError(t, err)

	exported, err := first.ExportPrivateKey()
	require.NoError(t, err)

	second := New(newFakeStore(), &stubLedger{})
	imported, err := second.ImportFromPrivateKey(exported, []byte("other-pw"))
	require.NoError(t, err)
	require.Equal(t, address, imported)

	reexported, err := second.ExportPrivateKey()
	require.NoError(t, err)
	require.Equal(t, exported, reexported)
}

func TestImportPrivateKeyValidation(t *testing.T) {
	cases := map[string]string{
		"not base58":   "!!!not-base58!!!",
		"wrong length": "abc",
	}

	for name, key := range cases {
		t.Run(name, func(t *testing.T) {
			store := newFakeStore()
			w := New(store, &stubLedger{})

			_, err := w.ImportFromPrivateKey(key, []byte("pw"))
			require.True(t, IsValidationError(err), "err=%v", err)
			require.Zero(t, store.sets, "rejected import must not touch storage")
			require.False(t, w.HasWallet())
		})
	}
}

func TestImportPrivateKeyMismatchedPublicKey(t *testing.T) {
	source := New(newFakeStore(), &stubLedger{})
	_, _, err := source.GenerateNew([]byte("pw"))
	require.NoError(t, err)

	exported, err := source.ExportPrivateKey()
	require.NoError(t, err)

	decoded, err := base58.Decode(exported)
	require.NoError(t, err)
	decoded[len(decoded)-1] ^= 0xff
	forged := base58.Encode(decoded)

	store := newFakeStore()
	w := New(store, &stubLedger{})
	_, err = w.ImportFromPrivateKey(forged, []byte("pw"))
	require.True(t, IsValidationError(err), "err=%v", err)
	require.Zero(t, store.sets)
}

func TestGenerateOverwritesExistingWallet(t *testing.T) {
	w := New(newFakeStore(), &stubLedger{})

	first, _, err := w.GenerateNew([]byte("first-pw"))
	require.NoError(t, err)

	second, _, err := w.GenerateNew([]byte("second-pw"))
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	w.Lock()

	// The old record is gone for good; only the new password opens the wallet.
	_, err = w.Unlock([]byte("first-pw"))
	require.ErrorIs(t, err, crypto.ErrAuthenticationFailed)

	address, err := w.Unlock([]byte("second-pw"))
	require.NoError(t, err)
	require.Equal(t, second, address)
}

func TestPersistFailureLeavesWalletLocked(t *testing.T) {
	store := newFakeStore()
	store.failAll = true
	w := New(store, &stubLedger{})

	_, _, err := w.GenerateNew([]byte("pw"))
	require.True(t, IsStorageError(err), "err=%v", err)
	require.False(t, w.IsUnlocked())
	require.False(t, w.HasWallet())
}

func TestPersistFailureKeepsPreviousSession(t *testing.T) {
	store := newFakeStore()
	w := New(store, &stubLedger{})

	address, _, err := w.GenerateNew([]byte("pw"))
	require.NoError(t, err)

	store.failAll = true
	_, err = w.ImportFromMnemonic(testPhrase, []byte("pw"))
	require.True(t, IsStorageError(err), "err=%v", err)

	// The failed import must not have replaced the live session.
	require.True(t, w.IsUnlocked())
	got, err := w.Address()
	require.NoError(t, err)
	require.Equal(t, address, got)
}

func TestPartialPersistFailure(t *testing.T) {
	store := newFakeStore()
	store.failKey = storageKeyAddress
	w := New(store, &stubLedger{})

	_, _, err := w.GenerateNew([]byte("pw"))
	require.True(t, IsStorageError(err), "err=%v", err)
	require.False(t, w.IsUnlocked())
}

func TestBalance(t *testing.T) {
	ledger := &stubLedger{lamports: 2_500_000_000}
	w := New(newFakeStore(), ledger)

	address, _, err := w.GenerateNew([]byte("pw"))
	require.NoError(t, err)

	balance, err := w.Balance(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(2_500_000_000), balance)
	require.Equal(t, address, ledger.address)
}

func TestBalanceLocked(t *testing.T) {
	ledger := &stubLedger{}
	w := New(newFakeStore(), ledger)

	_, _, err := w.GenerateNew([]byte("pw"))
	require.NoError(t, err)
	w.Lock()

	_, err = w.Balance(context.Background())
	require.ErrorIs(t, err, ErrLocked)
	require.Zero(t, ledger.calls, "ledger must not be queried while locked")
}

func TestBalanceLedgerError(t *testing.T) {
	ledger := &stubLedger{err: errors.New("rpc node unreachable")}
	w := New(newFakeStore(), ledger)

	_, _, err := w.GenerateNew([]byte("pw"))
	require.NoError(t, err)

	_, err = w.Balance(context.Background())
	require.ErrorContains(t, err, "rpc node unreachable")
}

func TestChangePassword(t *testing.T) {
	w := New(newFakeStore(), &stubLedger{})

	address, _, err := w.GenerateNew([]byte("old-pw"))
	require.NoError(t, err)
	w.Lock()

	require.NoError(t, w.ChangePassword([]byte("old-pw"), []byte("new-pw")))

	_, err = w.Unlock([]byte("old-pw"))
	require.ErrorIs(t, err, crypto.ErrAuthenticationFailed)

	got, err := w.Unlock([]byte("new-pw"))
	require.NoError(t, err)
	require.Equal(t, address, got)
}

func TestChangePasswordWrongOld(t *testing.T) {
	w := New(newFakeStore(), &stubLedger{})

	_, _, err := w.GenerateNew([]byte("old-pw"))
	require.NoError(t, err)

	err = w.ChangePassword([]byte("wrong"), []byte("new-pw"))
	require.ErrorIs(t, err, crypto.ErrAuthenticationFailed)

	// The record must still open with the original password.
	w.Lock()
	_, err = w.Unlock([]byte("old-pw"))
	require.NoError(t, err)
}

func TestChangePasswordNoWallet(t *testing.T) {
	w := New(newFakeStore(), &stubLedger{})
	err := w.ChangePassword([]byte("a"), []byte("b"))
	require.ErrorIs(t, err, ErrNoWallet)
}

func TestChangePasswordKeepsSession(t *testing.T) {
	w := New(newFakeStore(), &stubLedger{})

	address, _, err := w.GenerateNew([]byte("old-pw"))
	require.NoError(t, err)

	require.NoError(t, w.ChangePassword([]byte("old-pw"), []byte("new-pw")))
	require.True(t, w.IsUnlocked())

	got, err := w.Address()
	require.NoError(t, err)
	require.Equal(t, address, got)
}

func TestUnlockCorruptRecord(t *testing.T) {
	store := newFakeStore()
	store.values[storageKeyEncrypted] = json.RawMessage(`123`)
	w := New(store, &stubLedger{})

	_, err := w.Unlock([]byte("pw"))
	require.True(t, IsStorageError(err), "err=%v", err)
}

func TestUnlockRecordWrongSize(t *testing.T) {
	blob, err := crypto.Encrypt([]byte("too short"), []byte("pw"))
	require.NoError(t, err)

	store := newFakeStore()
	require.NoError(t, store.Set(storageKeyEncrypted, blob))
	w := New(store, &stubLedger{})

	_, err = w.Unlock([]byte("pw"))
	require.True(t, IsStorageError(err), "err=%v", err)
	require.False(t, w.IsUnlocked())
}
