package handler

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/socketagent/socketbrowser/internal/common"
	"github.com/socketagent/socketbrowser/internal/model"
	"github.com/socketagent/socketbrowser/wallet"

	"github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// addressQR generates a QR code of address as a base64-encoded PNG
func addressQR(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(qrImageSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}

// WalletHandler serves the wallet lifecycle endpoints
type WalletHandler struct {
	wallet *wallet.Wallet
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(w *wallet.Wallet) *WalletHandler {
	return &WalletHandler{wallet: w}
}

// Generate handles POST /wallet/generate
// @Summary      Generate new wallet
// @Description  Generates a wallet from a fresh recovery phrase, stores it encrypted under the password and unlocks the session. The phrase is returned exactly once and never stored.
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.GenerateWalletRequest  true  "Wallet password"
// @Success      200      {object}  model.GenerateWalletResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      500      {object}  model.ErrorResponse
// @Router       /wallet/generate [post]
func (h *WalletHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.GenerateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required", "validation")
		return
	}

	// Use the password as []byte and zero it when done
	passwordBytes := []byte(req.Password)
	defer clear(passwordBytes)

	address, mnemonic, err := h.wallet.GenerateNew(passwordBytes)
	if err != nil {
		walletError(w, err)
		return
	}

	qr, err := addressQR(address)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "internal")
		return
	}

	writeJSON(w, http.StatusOK, model.GenerateWalletResponse{
		Address:  address,
		Mnemonic: mnemonic,
		QR:       qr,
	})
}

// ImportMnemonic handles POST /wallet/import/mnemonic
// @Summary      Import wallet from recovery phrase
// @Description  Derives the keypair from a BIP-39 recovery phrase, stores it encrypted under the password and unlocks the session. Overwrites any existing wallet record.
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.ImportMnemonicRequest  true  "Recovery phrase and password"
// @Success      200      {object}  model.ImportWalletResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      500      {object}  model.ErrorResponse
// @Router       /wallet/import/mnemonic [post]
func (h *WalletHandler) ImportMnemonic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ImportMnemonicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	if req.Mnemonic == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "mnemonic and password are required", "validation")
		return
	}

	passwordBytes := []byte(req.Password)
	defer clear(passwordBytes)

	address, err := h.wallet.ImportFromMnemonic(req.Mnemonic, passwordBytes)
	if err != nil {
		walletError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ImportWalletResponse{Address: address})
}

// ImportKey handles POST /wallet/import/key
// @Summary      Import wallet from private key
// @Description  Imports a base58-encoded 64-byte private key, stores it encrypted under the password and unlocks the session. Overwrites any existing wallet record.
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.ImportKeyRequest  true  "Private key and password"
// @Success      200      {object}  model.ImportWalletResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      500      {object}  model.ErrorResponse
// @Router       /wallet/import/key [post]
func (h *WalletHandler) ImportKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ImportKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	if req.PrivateKey == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "private_key and password are required", "validation")
		return
	}

	passwordBytes := []byte(req.Password)
	defer clear(passwordBytes)

	address, err := h.wallet.ImportFromPrivateKey(req.PrivateKey, passwordBytes)
	if err != nil {
		walletError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ImportWalletResponse{Address: address})
}

// Unlock handles POST /wallet/unlock
// @Summary      Unlock wallet
// @Description  Decrypts the stored wallet record with the password and starts an unlocked session. A wrong password and a corrupted record are indistinguishable.
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.UnlockRequest  true  "Wallet password"
// @Success      200      {object}  model.UnlockResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /wallet/unlock [post]
func (h *WalletHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required", "validation")
		return
	}

	passwordBytes := []byte(req.Password)
	defer clear(passwordBytes)

	address, err := h.wallet.Unlock(passwordBytes)
	if err != nil {
		walletError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UnlockResponse{Address: address})
}

// Lock handles POST /wallet/lock
// @Summary      Lock wallet
// @Description  Wipes the in-memory secret key and ends the session. Succeeds in any state.
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.MessageResponse
// @Router       /wallet/lock [post]
func (h *WalletHandler) Lock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	h.wallet.Lock()

	writeJSON(w, http.StatusOK, model.MessageResponse{
		Success: true,
		Message: "wallet locked",
	})
}

// Address handles GET /wallet/address
// @Summary      Get wallet address
// @Description  Returns the base58 public key of the unlocked session together with a QR code of it
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.AddressResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /wallet/address [get]
func (h *WalletHandler) Address(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	address, err := h.wallet.Address()
	if err != nil {
		walletError(w, err)
		return
	}

	qr, err := addressQR(address)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "internal")
		return
	}

	writeJSON(w, http.StatusOK, model.AddressResponse{Address: address, QR: qr})
}

// Export handles POST /wallet/export
// @Summary      Export private key
// @Description  Returns the full 64-byte secret key of the unlocked session, base58-encoded
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.ExportKeyResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /wallet/export [post]
func (h *WalletHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	key, err := h.wallet.ExportPrivateKey()
	if err != nil {
		walletError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ExportKeyResponse{PrivateKey: key})
}

// Balance handles GET /wallet/balance
// @Summary      Get wallet balance
// @Description  Gets the SOL balance of the unlocked wallet in lamports and as a decimal SOL string
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Failure      409  {object}  model.ErrorResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	address, err := h.wallet.Address()
	if err != nil {
		walletError(w, err)
		return
	}

	lamports, err := h.wallet.Balance(r.Context())
	if err != nil {
		walletError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.BalanceResponse{
		Address:  address,
		Lamports: lamports,
		SOL:      common.LamportsToSOL(lamports),
	})
}

// Status handles GET /wallet/status
// @Summary      Get wallet status
// @Description  Reports whether a wallet record exists and whether a session is unlocked
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.StatusResponse
// @Router       /wallet/status [get]
func (h *WalletHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	resp := model.StatusResponse{
		HasWallet: h.wallet.HasWallet(),
		Unlocked:  h.wallet.IsUnlocked(),
	}
	if resp.Unlocked {
		if address, err := h.wallet.Address(); err == nil {
			resp.Address = address
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
