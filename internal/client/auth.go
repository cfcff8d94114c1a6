package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/socketagent/socketbrowser/internal/config"
)

// AuthClient is a client for the socketagent.io identity service
type AuthClient struct {
	baseURL string
	client  *http.Client
}

// NewAuthClient creates a new identity service client
func NewAuthClient() *AuthClient {
	return &AuthClient{
		baseURL: config.GetAuthServiceURL(),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// TokenPair is the token grant returned by login and refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    uint64 `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// UserInfo describes the authenticated user
type UserInfo struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"created_at"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type registerResponse struct {
	UserID uint64 `json:"user_id"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type logoutResponse struct {
	Status string `json:"status"`
}

// Register creates a new user account and returns its ID
func (c *AuthClient) Register(ctx context.Context, username, email, password string) (uint64, error) {
	var response registerResponse
	err := c.do(ctx, http.MethodPost, "/v1/users", "", registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &response, map[int]string{
		http.StatusConflict: "username already exists",
	})
	if err != nil {
		return 0, err
	}
	return response.UserID, nil
}

// Login exchanges credentials for an access and refresh token pair
func (c *AuthClient) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	var tokens TokenPair
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", "", loginRequest{
		Username: username,
		Password: password,
	}, &tokens, map[int]string{
		http.StatusUnauthorized: "invalid username or password",
	})
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Me returns the user that accessToken belongs to
func (c *AuthClient) Me(ctx context.Context, accessToken string) (*UserInfo, error) {
	var user UserInfo
	err := c.do(ctx, http.MethodGet, "/v1/me", accessToken, nil, &user, map[int]string{
		http.StatusUnauthorized: "invalid or expired access token",
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Refresh exchanges a refresh token for a fresh token pair
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var tokens TokenPair
	err := c.do(ctx, http.MethodPost, "/v1/auth/refresh", "", refreshRequest{
		RefreshToken: refreshToken,
	}, &tokens, map[int]string{
		http.StatusUnauthorized: "invalid or expired refresh token",
	})
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Logout revokes a refresh token
func (c *AuthClient) Logout(ctx context.Context, refreshToken string) error {
	var response logoutResponse
	return c.do(ctx, http.MethodPost, "/v1/auth/logout", "", logoutRequest{
		RefreshToken: refreshToken,
	}, &response, nil)
}

// do sends a JSON request to the identity service and decodes the JSON
// response into out. friendly replaces the error message for specific
// upstream status codes.
func (c *AuthClient) do(ctx context.Context, method, path, bearer string, body, out any, friendly map[int]string) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{Service: "authentication service", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := friendly[resp.StatusCode]
		if message == "" {
			message = fmt.Sprintf("authentication service returned %d: %s", resp.StatusCode, readErrorText(resp.Body))
		}
		return &UpstreamError{StatusCode: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
