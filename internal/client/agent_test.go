package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

const testDescriptorJSON = `{
	"name": "bookstore",
	"description": "Book catalog and ordering",
	"endpoints": [
		{"path": "/books", "method": "GET", "operationId": "listBooks"},
		{"path": "/books/{id}", "method": "GET", "operationId": "getBook"},
		{"path": "/orders", "method": "POST", "operationId": "createOrder"},
		{"path": "/orders/{id}", "method": "DELETE"}
	]
}`

// recordedRequest captures what the fake agent service received so the
// test goroutine can assert on it afterwards.
type recordedRequest struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   []byte
}

func newStubServer(t *testing.T, status int, response string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	last := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*last = recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.Query(),
			header: r.Header.Clone(),
			body:   body,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, last
}

func TestDiscover(t *testing.T) {
	srv, last := newStubServer(t, http.StatusOK, testDescriptorJSON)

	// A trailing slash on the base URL must not produce a double slash.
	descriptor, err := NewAgentClient().Discover(context.Background(), srv.URL+"/")
	require.NoError(t, err)

	require.Equal(t, "/.well-known/socket-agent", last.path)
	require.Equal(t, userAgent, last.header.Get("User-Agent"))

	require.Equal(t, "bookstore", descriptor.Name)
	require.Len(t, descriptor.Endpoints, 4)
	require.Equal(t, srv.URL, descriptor.BaseURL, "base URL must fall back to the discovery origin")
}

func TestDiscoverKeepsDeclaredBaseURL(t *testing.T) {
	srv, _ := newStubServer(t, http.StatusOK,
		`{"name":"bookstore","baseUrl":"https://api.example.com","endpoints":[{"path":"/books"}]}`)

	descriptor, err := NewAgentClient().Discover(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", descriptor.BaseURL)
}

func TestDiscoverNotFound(t *testing.T) {
	srv, _ := newStubServer(t, http.StatusNotFound, `{"detail":"Not Found"}`)

	_, err := NewAgentClient().Discover(context.Background(), srv.URL)
	require.True(t, IsUpstreamError(err), "err=%v", err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, http.StatusNotFound, upstream.StatusCode)
	require.Contains(t, upstream.Message, "no Socket Agent API found")
}

func TestDiscoverInvalidDescriptor(t *testing.T) {
	for name, response := range map[string]string{
		"empty object": `{}`,
		"no endpoints": `{"name":"bookstore","endpoints":[]}`,
		"not json":     `<html>hello</html>`,
	} {
		t.Run(name, func(t *testing.T) {
			srv, _ := newStubServer(t, http.StatusOK, response)

			_, err := NewAgentClient().Discover(context.Background(), srv.URL)
			require.Error(t, err)
		})
	}
}

func TestDiscoverUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	srv.Close()

	_, err := NewAgentClient().Discover(context.Background(), srv.URL)
	require.True(t, IsNetworkError(err), "err=%v", err)
}

func TestEndpointResolution(t *testing.T) {
	var descriptor AgentDescriptor
	require.NoError(t, json.Unmarshal([]byte(testDescriptorJSON), &descriptor))

	ep, ok := descriptor.Endpoint("getBook")
	require.True(t, ok)
	require.Equal(t, "/books/{id}", ep.Path)

	ep, ok = descriptor.Endpoint("/orders")
	require.True(t, ok)
	require.Equal(t, "POST", ep.Method)

	ep, ok = descriptor.Endpoint("DELETE:/orders/{id}")
	require.True(t, ok)
	require.Equal(t, "/orders/{id}", ep.Path)

	_, ok = descriptor.Endpoint("no-such-operation")
	require.False(t, ok)
}

func TestCallSubstitutesPathParams(t *testing.T) {
	srv, last := newStubServer(t, http.StatusOK, `{"title":"Dune"}`)

	var descriptor AgentDescriptor
	require.NoError(t, json.Unmarshal([]byte(testDescriptorJSON), &descriptor))

	params := map[string]any{"id": 42, "fields": "title"}
	data, err := NewAgentClient().Call(context.Background(), srv.URL, "getBook", params, &descriptor)
	require.NoError(t, err)
	require.JSONEq(t, `{"title":"Dune"}`, string(data))

	require.Equal(t, http.MethodGet, last.method)
	require.Equal(t, "/books/42", last.path)
	require.Equal(t, "title", last.query.Get("fields"), "params without a placeholder travel as query")
	require.Empty(t, last.body)
}

func TestCallSendsJSONBody(t *testing.T) {
	srv, last := newStubServer(t, http.StatusOK, `{"order_id":"o-1"}`)

	var descriptor AgentDescriptor
	require.NoError(t, json.Unmarshal([]byte(testDescriptorJSON), &descriptor))

	params := map[string]any{"item": "dune", "qty": 3}
	_, err := NewAgentClient().Call(context.Background(), srv.URL, "createOrder", params, &descriptor)
	require.NoError(t, err)

	require.Equal(t, http.MethodPost, last.method)
	require.Equal(t, "/orders", last.path)
	require.Equal(t, "application/json", last.header.Get("Content-Type"))
	require.JSONEq(t, `{"item":"dune","qty":3}`, string(last.body))
}

func TestCallWithoutDescriptor(t *testing.T) {
	srv, last := newStubServer(t, http.StatusOK, `{"status":"ok"}`)

	data, err := NewAgentClient().Call(context.Background(), srv.URL, "/status", nil, nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"ok"}`, string(data))

	// Without a descriptor the reference is a literal path, called with GET.
	require.Equal(t, http.MethodGet, last.method)
	require.Equal(t, "/status", last.path)
}

func TestCallUpstreamError(t *testing.T) {
	srv, _ := newStubServer(t, http.StatusInternalServerError, `{"detail":"database is down"}`)

	_, err := NewAgentClient().Call(context.Background(), srv.URL, "/status", nil, nil)
	require.True(t, IsUpstreamError(err), "err=%v", err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
	require.Contains(t, upstream.Message, "database is down")
}

func TestCallRejectsNonJSONResponse(t *testing.T) {
	srv, _ := newStubServer(t, http.StatusOK, `<html>not an api</html>`)

	_, err := NewAgentClient().Call(context.Background(), srv.URL, "/status", nil, nil)
	require.ErrorContains(t, err, "invalid JSON")
}

func TestParamString(t *testing.T) {
	cases := []struct {
		value any
		want  string
	}{
		{"plain", "plain"},
		{42, "42"},
		{true, "true"},
		{1.5, "1.5"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, paramString(tc.value), "value=%v", tc.value)
	}
}
