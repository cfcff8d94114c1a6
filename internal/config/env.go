package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: the wallet password is never configured; it is prompted at runtime
// via PromptForPassword or supplied per request over the local API.
type Config struct {
	Port             string `envconfig:"PORT" default:"8080"`
	StorageFilePath  string `envconfig:"STORAGE_FILE_PATH"`
	SolanaRPCURL     string `envconfig:"SOLANA_RPC_URL" default:"https://api.mainnet-beta.solana.com"`
	AuthServiceURL   string `envconfig:"AUTH_SERVICE_URL" default:"https://socketagent.io"`
	RenderServiceURL string `envconfig:"RENDER_SERVICE_URL" default:"http://localhost:8000"`
	UnlockOnStart    bool   `envconfig:"UNLOCK_ON_START" default:"false"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.StorageFilePath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("failed to resolve config directory: %w", err)
		}
		cfg.StorageFilePath = filepath.Join(dir, "socketbrowser", "wallet-storage.json")
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetStorageFilePath returns the path of the persistent storage file
func GetStorageFilePath() string {
	return Get().StorageFilePath
}

// GetSolanaRPCURL returns Solana RPC URL from configuration
func GetSolanaRPCURL() string {
	return Get().SolanaRPCURL
}

// GetAuthServiceURL returns the identity service URL from configuration
func GetAuthServiceURL() string {
	return Get().AuthServiceURL
}

// GetRenderServiceURL returns the render service URL from configuration
func GetRenderServiceURL() string {
	return Get().RenderServiceURL
}

// GetUnlockOnStart reports whether the wallet should be unlocked
// interactively at startup
func GetUnlockOnStart() bool {
	return Get().UnlockOnStart
}

// PromptForPassword prompts the user for the wallet password in the
// terminal. The password is read without echoing (hidden input). Caller
// must zero the returned slice after use.
func PromptForPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}
	return raw, nil
}
