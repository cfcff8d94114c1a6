package model

// ImportMnemonicRequest represents request for POST /wallet/import/mnemonic
type ImportMnemonicRequest struct {
	Mnemonic string `json:"mnemonic" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ImportKeyRequest represents request for POST /wallet/import/key
type ImportKeyRequest struct {
	PrivateKey string `json:"private_key" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// ImportWalletResponse represents response for wallet import endpoints
type ImportWalletResponse struct {
	Address string `json:"address"`
}

// UnlockRequest represents request for POST /wallet/unlock
type UnlockRequest struct {
	Password string `json:"password" binding:"required"`
}

// UnlockResponse represents response for POST /wallet/unlock
type UnlockResponse struct {
	Address string `json:"address"`
}

// AddressResponse represents response for GET /wallet/address.
// QR is a base64-encoded PNG of the address.
type AddressResponse struct {
	Address string `json:"address"`
	QR      string `json:"qr"`
}

// ExportKeyResponse represents response for POST /wallet/export
type ExportKeyResponse struct {
	PrivateKey string `json:"private_key"`
}

// StatusResponse represents response for GET /wallet/status
type StatusResponse struct {
	HasWallet bool   `json:"has_wallet"`
	Unlocked  bool   `json:"unlocked"`
	Address   string `json:"address,omitempty"`
}

// MessageResponse represents a simple success acknowledgement
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
