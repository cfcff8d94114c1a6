package model

import "encoding/json"

// DiscoverRequest represents request for POST /agent/discover
type DiscoverRequest struct {
	URL string `json:"url" binding:"required"`
}

// AgentCallRequest represents request for POST /agent/call.
// Descriptor is the raw descriptor from a previous discovery; when present
// it is used to resolve the endpoint's method and path.
type AgentCallRequest struct {
	BaseURL    string          `json:"base_url" binding:"required"`
	Endpoint   string          `json:"endpoint" binding:"required"`
	Params     map[string]any  `json:"params"`
	Descriptor json.RawMessage `json:"descriptor"`
}

// AgentCallResponse represents response for POST /agent/call
type AgentCallResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// RenderRequest represents request for POST /agent/render
type RenderRequest struct {
	Descriptor json.RawMessage `json:"descriptor" binding:"required"`
	Prompt     string          `json:"prompt"`
}

// RenderResponse represents response for POST /agent/render
type RenderResponse struct {
	HTML             string `json:"html"`
	CreditsRemaining uint64 `json:"credits_remaining"`
}
