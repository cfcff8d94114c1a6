package handler

import (
	"encoding/json"
	"net/http"

	"github.com/socketagent/socketbrowser/internal/client"
	"github.com/socketagent/socketbrowser/internal/model"
)

// AuthHandler proxies account operations to the socketagent.io identity
// service so the UI never talks to it directly
type AuthHandler struct {
	auth *client.AuthClient
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *client.AuthClient) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /auth/register
// @Summary      Register account
// @Description  Creates a new socketagent.io account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.RegisterRequest  true  "New account credentials"
// @Success      200      {object}  model.RegisterResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required", "validation")
		return
	}

	userID, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		upstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.RegisterResponse{UserID: userID})
}

// Login handles POST /auth/login
// @Summary      Login
// @Description  Exchanges credentials for an access and refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.LoginRequest  true  "Account credentials"
// @Success      200      {object}  model.TokenResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required", "validation")
		return
	}

	tokens, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		upstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse(tokens))
}

// Refresh handles POST /auth/refresh
// @Summary      Refresh tokens
// @Description  Exchanges a refresh token for a fresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.RefreshRequest  true  "Refresh token"
// @Success      200      {object}  model.TokenResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh_token is required", "validation")
		return
	}

	tokens, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		upstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse(tokens))
}

// Logout handles POST /auth/logout
// @Summary      Logout
// @Description  Revokes a refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.LogoutRequest  true  "Refresh token"
// @Success      200      {object}  model.MessageResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh_token is required", "validation")
		return
	}

	if err := h.auth.Logout(r.Context(), req.RefreshToken); err != nil {
		upstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{
		Success: true,
		Message: "logged out",
	})
}

// Me handles GET /auth/me
// @Summary      Get current user
// @Description  Returns the user the bearer access token belongs to
// @Tags         auth
// @Produce      json
// @Param        Authorization  header    string  true  "Bearer access token"
// @Success      200            {object}  model.UserResponse
// @Failure      401            {object}  model.ErrorResponse
// @Failure      502            {object}  model.ErrorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token", "authentication")
		return
	}

	user, err := h.auth.Me(r.Context(), token)
	if err != nil {
		upstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// tokenResponse converts a client token pair to the API response shape
func tokenResponse(tokens *client.TokenPair) model.TokenResponse {
	return model.TokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		TokenType:    tokens.TokenType,
	}
}
