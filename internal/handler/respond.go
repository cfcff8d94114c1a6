package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/socketagent/socketbrowser/internal/client"
	"github.com/socketagent/socketbrowser/internal/crypto"
	"github.com/socketagent/socketbrowser/internal/model"
	"github.com/socketagent/socketbrowser/wallet"
)

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response with a stable machine-readable code
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, model.ErrorResponse{Error: message, Code: code})
}

// walletError maps wallet and crypto errors onto HTTP status codes
func walletError(w http.ResponseWriter, err error) {
	switch {
	case wallet.IsValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error(), "validation")
	case errors.Is(err, crypto.ErrAuthenticationFailed):
		writeError(w, http.StatusUnauthorized, err.Error(), "authentication")
	case errors.Is(err, wallet.ErrNoWallet):
		writeError(w, http.StatusNotFound, err.Error(), "no_wallet")
	case errors.Is(err, wallet.ErrLocked):
		writeError(w, http.StatusConflict, err.Error(), "locked")
	case client.IsNetworkError(err):
		writeError(w, http.StatusBadGateway, err.Error(), "network")
	case wallet.IsStorageError(err):
		writeError(w, http.StatusInternalServerError, err.Error(), "storage")
	default:
		writeError(w, http.StatusInternalServerError, err.Error(), "internal")
	}
}

// upstreamError maps errors from upstream service clients onto HTTP
// responses, forwarding the upstream status where one exists
func upstreamError(w http.ResponseWriter, err error) {
	var ue *client.UpstreamError
	switch {
	case client.IsNetworkError(err):
		writeError(w, http.StatusBadGateway, err.Error(), "network")
	case errors.As(err, &ue):
		writeError(w, ue.StatusCode, ue.Message, "upstream")
	default:
		writeError(w, http.StatusInternalServerError, err.Error(), "internal")
	}
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}
