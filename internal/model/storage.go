package model

import "encoding/json"

// StorageValueResponse represents response for GET /storage
type StorageValueResponse struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}
