package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/socketagent/socketbrowser/internal/api"
	"github.com/socketagent/socketbrowser/internal/client"
	"github.com/socketagent/socketbrowser/internal/config"
	"github.com/socketagent/socketbrowser/internal/storage"
	"github.com/socketagent/socketbrowser/wallet"

	_ "github.com/socketagent/socketbrowser/docs"

	"go.uber.org/zap"
)

// @title           Socket Browser API
// @version         0.1.0
// @description     Local backend for Socket Browser: encrypted Solana wallet custody, socketagent.io accounts, Socket Agent discovery and UI rendering.
// @host            localhost:8080
// @BasePath        /
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := config.Init(); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	store, err := storage.Open(config.GetStorageFilePath())
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}

	solanaClient := client.NewSolanaClient()
	w := wallet.New(store, solanaClient)

	if config.GetUnlockOnStart() && w.HasWallet() {
		password, err := config.PromptForPassword("Enter wallet password: ")
		if err != nil {
			logger.Fatal("failed to read password", zap.Error(err))
		}
		address, err := w.Unlock(password)
		clear(password)
		if err != nil {
			logger.Fatal("failed to unlock wallet", zap.Error(err))
		}
		logger.Info("wallet unlocked", zap.String("address", address))
	}

	server := &http.Server{
		Addr:    ":" + config.GetPort(),
		Handler: api.SetupRouter(w, store, logger),
	}

	go func() {
		logger.Info("server listening",
			zap.String("port", config.GetPort()),
			zap.String("storage", config.GetStorageFilePath()),
			zap.String("solana_rpc", solanaClient.URL()),
			zap.Bool("has_wallet", w.HasWallet()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}

	// Wipe the in-memory key before exit
	w.Lock()
}
