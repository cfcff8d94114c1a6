// Rotates the wallet record password: decrypts the stored record with the
// old password and re-encrypts it under a new one. The address and any
// running session are unaffected.
// Usage: go run ./cmd/rotate_password
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/socketagent/socketbrowser/internal/client"
	"github.com/socketagent/socketbrowser/internal/config"
	"github.com/socketagent/socketbrowser/internal/storage"
	"github.com/socketagent/socketbrowser/wallet"
)

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	store, err := storage.Open(config.GetStorageFilePath())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	w := wallet.New(store, client.NewSolanaClient())
	if !w.HasWallet() {
		fmt.Fprintln(os.Stderr, "no wallet found in", config.GetStorageFilePath())
		os.Exit(1)
	}

	oldPassword, err := config.PromptForPassword("Current wallet password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(oldPassword)

	newPassword, err := config.PromptForPassword("New wallet password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(newPassword)

	confirm, err := config.PromptForPassword("Repeat new password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(confirm)

	if !bytes.Equal(newPassword, confirm) {
		fmt.Fprintln(os.Stderr, "passwords do not match")
		os.Exit(1)
	}

	if err := w.ChangePassword(oldPassword, newPassword); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("password rotated")
}
