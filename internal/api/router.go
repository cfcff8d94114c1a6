package api

import (
	"net/http"
	"time"

	"github.com/socketagent/socketbrowser/internal/client"
	"github.com/socketagent/socketbrowser/internal/handler"
	"github.com/socketagent/socketbrowser/internal/storage"
	"github.com/socketagent/socketbrowser/wallet"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// SetupRouter sets up router with handlers
func SetupRouter(w *wallet.Wallet, store *storage.Store, logger *zap.Logger) http.Handler {
	walletHandler := handler.NewWalletHandler(w)
	authHandler := handler.NewAuthHandler(client.NewAuthClient())
	agentHandler := handler.NewAgentHandler(client.NewAgentClient(), client.NewRenderClient())
	storageHandler := handler.NewStorageHandler(store)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Wallet endpoints
	mux.HandleFunc("/wallet/generate", walletHandler.Generate)
	mux.HandleFunc("/wallet/import/mnemonic", walletHandler.ImportMnemonic)
	mux.HandleFunc("/wallet/import/key", walletHandler.ImportKey)
	mux.HandleFunc("/wallet/unlock", walletHandler.Unlock)
	mux.HandleFunc("/wallet/lock", walletHandler.Lock)
	mux.HandleFunc("/wallet/address", walletHandler.Address)
	mux.HandleFunc("/wallet/export", walletHandler.Export)
	mux.HandleFunc("/wallet/balance", walletHandler.Balance)
	mux.HandleFunc("/wallet/status", walletHandler.Status)

	// Auth endpoints
	mux.HandleFunc("/auth/register", authHandler.Register)
	mux.HandleFunc("/auth/login", authHandler.Login)
	mux.HandleFunc("/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("/auth/logout", authHandler.Logout)
	mux.HandleFunc("/auth/me", authHandler.Me)

	// Agent endpoints
	mux.HandleFunc("/agent/discover", agentHandler.Discover)
	mux.HandleFunc("/agent/call", agentHandler.Call)
	mux.HandleFunc("/agent/render", agentHandler.Render)
	mux.HandleFunc("/agent/render/health", agentHandler.RenderHealth)

	// Storage endpoints
	mux.HandleFunc("/storage", storageHandler.Handle)

	return withRequestLog(logger, mux)
}

// withRequestLog logs every request. Only the path is logged, never query
// parameters or bodies, so secrets cannot end up in the log.
func withRequestLog(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
