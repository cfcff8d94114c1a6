package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/socketagent/socketbrowser/internal/model"
	"github.com/socketagent/socketbrowser/internal/storage"
)

// StorageHandler exposes the persistent key-value store over HTTP
type StorageHandler struct {
	store *storage.Store
}

// NewStorageHandler creates a new StorageHandler
func NewStorageHandler(store *storage.Store) *StorageHandler {
	return &StorageHandler{store: store}
}

// Handle dispatches /storage requests by method
func (h *StorageHandler) Handle(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "key query parameter is required", "validation")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, key)
	case http.MethodPut:
		h.put(w, r, key)
	case http.MethodDelete:
		h.delete(w, key)
	default:
		http.Error(w, "Method not allowed. Should be GET, PUT or DELETE", http.StatusMethodNotAllowed)
	}
}

// get handles GET /storage
// @Summary      Read storage value
// @Description  Returns the JSON value stored under key
// @Tags         storage
// @Produce      json
// @Param        key  query     string  true  "Storage key"
// @Success      200  {object}  model.StorageValueResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /storage [get]
func (h *StorageHandler) get(w http.ResponseWriter, key string) {
	value, ok := h.store.Get(key)
	if !ok {
		writeError(w, http.StatusNotFound, "key not found", "not_found")
		return
	}

	writeJSON(w, http.StatusOK, model.StorageValueResponse{
		Key:   key,
		Value: value,
	})
}

// put handles PUT /storage
// @Summary      Write storage value
// @Description  Stores the request body, which must be a single JSON value, under key. The write is durable before the response is sent.
// @Tags         storage
// @Accept       json
// @Produce      json
// @Param        key    query     string  true  "Storage key"
// @Param        value  body      object  true  "JSON value to store"
// @Success      200    {object}  model.MessageResponse
// @Failure      400    {object}  model.ErrorResponse
// @Failure      500    {object}  model.ErrorResponse
// @Router       /storage [put]
func (h *StorageHandler) put(w http.ResponseWriter, r *http.Request, key string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "body must be valid JSON", "validation")
		return
	}

	if err := h.store.Set(key, json.RawMessage(body)); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "storage")
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{
		Success: true,
		Message: "value stored",
	})
}

// delete handles DELETE /storage
// @Summary      Delete storage value
// @Description  Removes the value stored under key. Deleting a missing key succeeds.
// @Tags         storage
// @Produce      json
// @Param        key  query     string  true  "Storage key"
// @Success      200  {object}  model.MessageResponse
// @Failure      500  {object}  model.ErrorResponse
// @Router       /storage [delete]
func (h *StorageHandler) delete(w http.ResponseWriter, key string) {
	if err := h.store.Delete(key); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "storage")
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{
		Success: true,
		Message: "value deleted",
	})
}
