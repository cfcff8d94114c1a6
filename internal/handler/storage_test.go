package handler

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/socketagent/socketbrowser/internal/model"
	"github.com/socketagent/socketbrowser/internal/storage"

	"github.com/stretchr/testify/require"
)

func newTestStorageHandler(t *testing.T) *StorageHandler {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "storage.json"))
	require.NoError(t, err)
	return NewStorageHandler(store)
}

func TestStoragePutGetDelete(t *testing.T) {
	h := newTestStorageHandler(t)

	rec := doRequest(t, h.Handle, http.MethodPut, "/storage?key=session", `{"user":"alice"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h.Handle, http.MethodGet, "/storage?key=session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.StorageValueResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "session", resp.Key)
	require.JSONEq(t, `{"user":"alice"}`, string(resp.Value))

	rec = doRequest(t, h.Handle, http.MethodDelete, "/storage?key=session", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h.Handle, http.MethodGet, "/storage?key=session", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", errorCode(t, rec))
}

func TestStorageRequiresKey(t *testing.T) {
	h := newTestStorageHandler(t)

	rec := doRequest(t, h.Handle, http.MethodGet, "/storage", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "validation", errorCode(t, rec))
}

func TestStorageRejectsInvalidJSON(t *testing.T) {
	h := newTestStorageHandler(t)

	rec := doRequest(t, h.Handle, http.MethodPut, "/storage?key=broken", `not json at all`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "validation", errorCode(t, rec))
}

func TestStorageMethodNotAllowed(t *testing.T) {
	h := newTestStorageHandler(t)

	rec := doRequest(t, h.Handle, http.MethodPost, "/storage?key=session", `{}`)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStorageDeleteMissingKey(t *testing.T) {
	h := newTestStorageHandler(t)

	rec := doRequest(t, h.Handle, http.MethodDelete, "/storage?key=never-set", "")
	require.Equal(t, http.StatusOK, rec.Code)
}
