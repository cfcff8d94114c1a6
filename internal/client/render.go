package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/socketagent/socketbrowser/internal/config"
)

// RenderClient talks to the render service that turns agent descriptors
// into generated UI
type RenderClient struct {
	baseURL string
	client  *http.Client
}

// NewRenderClient creates a new render service client
func NewRenderClient() *RenderClient {
	return &RenderClient{
		baseURL: config.GetRenderServiceURL(),
		client: &http.Client{
			// Generation regularly takes over a minute
			Timeout: 120 * time.Second,
		},
	}
}

// GeneratedUI is a successful render result
type GeneratedUI struct {
	HTML             string `json:"html"`
	CreditsRemaining uint64 `json:"credits_remaining"`
}

type generateRequest struct {
	Descriptor *AgentDescriptor `json:"descriptor"`
	Prompt     string           `json:"prompt,omitempty"`
}

// Generate renders a UI for descriptor. accessToken must be a valid access
// token from the authentication service.
func (c *RenderClient) Generate(ctx context.Context, accessToken string, descriptor *AgentDescriptor, prompt string) (*GeneratedUI, error) {
	encoded, err := json.Marshal(generateRequest{Descriptor: descriptor, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Service: "render service", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, renderError(resp)
	}

	var result GeneratedUI
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse render response: %w", err)
	}

	return &result, nil
}

// Healthy reports whether the render service health endpoint responds OK
func (c *RenderClient) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// renderError maps render service status codes to caller-facing messages
func renderError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &UpstreamError{StatusCode: resp.StatusCode, Message: "authentication failed, please login again"}
	case http.StatusPaymentRequired:
		return &UpstreamError{StatusCode: resp.StatusCode, Message: "insufficient credits"}
	case http.StatusTooManyRequests:
		return &UpstreamError{StatusCode: resp.StatusCode, Message: "rate limit exceeded, please try again later"}
	case http.StatusInternalServerError:
		return &UpstreamError{StatusCode: resp.StatusCode, Message: "render service error: " + readErrorText(resp.Body)}
	case http.StatusBadGateway:
		return &UpstreamError{StatusCode: resp.StatusCode, Message: "GPU server error, please try again later"}
	default:
		return &UpstreamError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("render failed (%d): %s", resp.StatusCode, readErrorText(resp.Body))}
	}
}
