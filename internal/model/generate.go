package model

// GenerateWalletRequest represents request for POST /wallet/generate
type GenerateWalletRequest struct {
	Password string `json:"password" binding:"required"`
}

// GenerateWalletResponse represents response for POST /wallet/generate.
// QR is a base64-encoded PNG of the address.
type GenerateWalletResponse struct {
	Address  string `json:"address"`
	Mnemonic string `json:"mnemonic"`
	QR       string `json:"qr"`
}
