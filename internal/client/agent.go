package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "Socket-Browser/0.1.0"

// AgentClient discovers Socket Agent APIs and calls their endpoints
type AgentClient struct {
	discoverClient *http.Client
	callClient     *http.Client
}

// NewAgentClient creates a new agent client
func NewAgentClient() *AgentClient {
	return &AgentClient{
		discoverClient: &http.Client{Timeout: 10 * time.Second},
		callClient:     &http.Client{Timeout: 15 * time.Second},
	}
}

// AgentDescriptor is the machine-readable API surface a Socket Agent
// service publishes at /.well-known/socket-agent
type AgentDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	BaseURL     string          `json:"baseUrl,omitempty"`
	Endpoints   []AgentEndpoint `json:"endpoints"`
	Context     json.RawMessage `json:"context,omitempty"`
}

// AgentEndpoint describes one callable operation of an agent API
type AgentEndpoint struct {
	Path        string `json:"path"`
	Method      string `json:"method,omitempty"`
	OperationID string `json:"operationId,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
}

// Endpoint resolves an endpoint reference against the descriptor. The
// reference may be an operationId, a path, or "METHOD:path".
func (d *AgentDescriptor) Endpoint(ref string) (AgentEndpoint, bool) {
	for _, ep := range d.Endpoints {
		if ep.OperationID != "" && ep.OperationID == ref {
			return ep, true
		}
		if ep.Path == ref {
			return ep, true
		}
		if ep.Method != "" && ep.Method+":"+ep.Path == ref {
			return ep, true
		}
	}
	return AgentEndpoint{}, false
}

// Discover fetches and validates the agent descriptor published at
// baseURL/.well-known/socket-agent. The descriptor's BaseURL falls back to
// baseURL when the service does not set one.
func (c *AgentClient) Discover(ctx context.Context, baseURL string) (*AgentDescriptor, error) {
	trimmed := strings.TrimRight(baseURL, "/")
	discoveryURL := trimmed + "/.well-known/socket-agent"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.discoverClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Service: "agent service", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("no Socket Agent API found at %s", baseURL),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("agent discovery returned %d: %s", resp.StatusCode, readErrorText(resp.Body)),
		}
	}

	var descriptor AgentDescriptor
	if err := json.NewDecoder(resp.Body).Decode(&descriptor); err != nil {
		return nil, fmt.Errorf("failed to parse agent descriptor: %w", err)
	}
	if descriptor.Name == "" || len(descriptor.Endpoints) == 0 {
		return nil, fmt.Errorf("invalid agent descriptor: missing name or endpoints")
	}
	if descriptor.BaseURL == "" {
		descriptor.BaseURL = trimmed
	}

	return &descriptor, nil
}

// Call invokes an agent endpoint and returns its JSON response. Params
// matching {name} placeholders in the endpoint path are substituted there;
// the rest travel as query parameters for GET and DELETE requests and as a
// JSON body for every other method. When descriptor is nil the reference is
// used as a literal path with method GET.
func (c *AgentClient) Call(ctx context.Context, baseURL, endpointRef string, params map[string]any, descriptor *AgentDescriptor) (json.RawMessage, error) {
	method := http.MethodGet
	path := endpointRef

	if descriptor != nil {
		if ep, ok := descriptor.Endpoint(endpointRef); ok {
			if ep.Method != "" {
				method = strings.ToUpper(ep.Method)
			}
			path = ep.Path
		}
	}

	query := url.Values{}
	body := make(map[string]any)
	for key, value := range params {
		placeholder := "{" + key + "}"
		switch {
		case strings.Contains(path, placeholder):
			path = strings.ReplaceAll(path, placeholder, paramString(value))
		case method == http.MethodGet || method == http.MethodDelete:
			query.Set(key, paramString(value))
		default:
			body[key] = value
		}
	}

	callURL := strings.TrimRight(baseURL, "/") + path
	if len(query) > 0 {
		callURL += "?" + query.Encode()
	}

	var reader io.Reader
	if method != http.MethodGet && method != http.MethodDelete && len(body) > 0 {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, callURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.callClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Service: "agent service", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("agent call returned %d: %s", resp.StatusCode, readErrorText(resp.Body)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("agent returned invalid JSON")
	}

	return json.RawMessage(data), nil
}

// paramString renders a call parameter for use in a path or query string.
// Strings pass through unquoted, everything else uses its JSON form.
func paramString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return strings.Trim(string(encoded), `"`)
}
