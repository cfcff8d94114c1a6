package wallet

import "errors"

var (
	// ErrLocked is returned by session reads that require an unlocked wallet.
	ErrLocked = errors.New("wallet is locked")

	// ErrNoWallet is returned when no wallet record exists in storage.
	ErrNoWallet = errors.New("no wallet found")
)

// ValidationError is an error for malformed caller input, such as a bad
// recovery phrase or private key. It is always raised before any key
// material is persisted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError checks if error is ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StorageError wraps a read or write failure of the persistent store.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return "wallet storage failure: " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError checks if error is StorageError
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
