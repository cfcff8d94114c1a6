package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newAuthTestClient(srv *httptest.Server) *AuthClient {
	return &AuthClient{baseURL: srv.URL, client: srv.Client()}
}

func TestLogin(t *testing.T) {
	srv, last := newStubServer(t, http.StatusOK,
		`{"access_token":"acc-1","refresh_token":"ref-1","expires_in":900,"token_type":"Bearer"}`)

	tokens, err := newAuthTestClient(srv).Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	require.Equal(t, http.MethodPost, last.method)
	require.Equal(t, "/v1/auth/login", last.path)
	require.Equal(t, "application/json", last.header.Get("Content-Type"))
	require.JSONEq(t, `{"username":"alice","password":"s3cret"}`, string(last.body))

	require.Equal(t, "acc-1", tokens.AccessToken)
	require.Equal(t, "ref-1", tokens.RefreshToken)
	require.Equal(t, uint64(900), tokens.ExpiresIn)
	require.Equal(t, "Bearer", tokens.TokenType)
}

func TestLoginInvalidCredentials(t *testing.T) {
	srv, _ := newStubServer(t, http.StatusUnauthorized, `{"detail":"unauthorized"}`)

	_, err := newAuthTestClient(srv).Login(context.Background(), "alice", "wrong")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
	require.Equal(t, "invalid username or password", upstream.Message)
}

func TestRegister(t *testing.T) {
	srv, last := newStubServer(t, http.StatusOK, `{"user_id":7}`)

	userID, err := newAuthTestClient(srv).Register(context.Background(), "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, uint64(7), userID)

	require.Equal(t, "/v1/users", last.path)
	require.JSONEq(t, `{"username":"alice","email":"alice@example.com","password":"s3cret"}`, string(last.body))
}

func TestRegisterWithoutEmail(t *testing.T) {
	srv, last := newStubServer(t, http.StatusOK, `{"user_id":8}`)

	_, err := newAuthTestClient(srv).Register(context.Background(), "bob", "", "s3cret")
	require.NoError(t, err)

	// An empty email must be omitted, not sent as "".
	require.JSONEq(t, `{"username":"bob","password":"s3cret"}`, string(last.body))
}

func TestRegisterConflict(t *testing.T) {
	srv, _ := newStubServer(t, http.StatusConflict, `{"detail":"conflict"}`)

	_, err := newAuthTestClient(srv).Register(context.Background(), "alice", "", "s3cret")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, "username already exists", upstream.Message)
}

func TestMe(t *testing.T) {
	srv, last := newStubServer(t, http.StatusOK,
		`{"id":7,"username":"alice","email":"alice@example.com","created_at":"2024-11-02T10:00:00Z"}`)

	user, err := newAuthTestClient(srv).Me(context.Background(), "acc-1")
	require.NoError(t, err)

	require.Equal(t, http.MethodGet, last.method)
	require.Equal(t, "/v1/me", last.path)
	require.Equal(t, "Bearer acc-1", last.header.Get("Authorization"))

	require.Equal(t, uint64(7), user.ID)
	require.Equal(t, "alice", user.Username)
}

func TestMeExpiredToken(t *testing.T) {
	srv, _ := newStubServer(t, http.StatusUnauthorized, `{"detail":"unauthorized"}`)

	_, err := newAuthTestClient(srv).Me(context.Background(), "stale")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, "invalid or expired access token", upstream.Message)
}

func TestRefresh(t *testing.T) {
	srv, last := newStubServer(t, http.StatusOK,
		`{"access_token":"acc-2","refresh_token":"ref-2","expires_in":900,"token_type":"Bearer"}`)

	tokens, err := newAuthTestClient(srv).Refresh(context.Background(), "ref-1")
	require.NoError(t, err)

	require.Equal(t, "/v1/auth/refresh", last.path)
	require.JSONEq(t, `{"refresh_token":"ref-1"}`, string(last.body))
	require.Equal(t, "acc-2", tokens.AccessToken)
}

func TestLogout(t *testing.T) {
	srv, last := newStubServer(t, http.StatusOK, `{"status":"ok"}`)

	err := newAuthTestClient(srv).Logout(context.Background(), "ref-1")
	require.NoError(t, err)

	require.Equal(t, "/v1/auth/logout", last.path)
	require.JSONEq(t, `{"refresh_token":"ref-1"}`, string(last.body))
}

func TestAuthServiceDown(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	srv.Close()

	_, err := (&AuthClient{baseURL: srv.URL, client: http.DefaultClient}).Login(context.Background(), "alice", "s3cret")
	require.True(t, IsNetworkError(err), "err=%v", err)
}

func TestAuthGenericUpstreamError(t *testing.T) {
	srv, _ := newStubServer(t, http.StatusInternalServerError, `something broke`)

	_, err := newAuthTestClient(srv).Login(context.Background(), "alice", "s3cret")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Contains(t, upstream.Message, "authentication service returned 500")
	require.Contains(t, upstream.Message, "something broke")
}
