package client

import (
	"context"
	"fmt"

	"github.com/socketagent/socketbrowser/internal/config"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// SolanaClient resolves on-chain balances over Solana JSON-RPC
type SolanaClient struct {
	rpcClient *rpc.Client
	rpcURL    string
}

// NewSolanaClient creates a new Solana RPC client
func NewSolanaClient() *SolanaClient {
	rpcURL := config.GetSolanaRPCURL()
	return &SolanaClient{
		rpcClient: rpc.New(rpcURL),
		rpcURL:    rpcURL,
	}
}

// URL returns the RPC endpoint this client talks to
func (c *SolanaClient) URL() string {
	return c.rpcURL
}

// Balance gets the SOL balance of address in lamports
func (c *SolanaClient) Balance(ctx context.Context, address string) (uint64, error) {
	pubkey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return 0, fmt.Errorf("invalid Solana address: %w", err)
	}

	balance, err := c.rpcClient.GetBalance(ctx, pubkey, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, &NetworkError{Service: "Solana RPC node", Err: err}
	}

	return balance.Value, nil
}
