package handler

import (
	"encoding/json"
	"net/http"

	"github.com/socketagent/socketbrowser/internal/client"
	"github.com/socketagent/socketbrowser/internal/model"
)

// AgentHandler serves Socket Agent discovery, API calls and UI rendering
type AgentHandler struct {
	agent  *client.AgentClient
	render *client.RenderClient
}

// NewAgentHandler creates a new AgentHandler
func NewAgentHandler(agent *client.AgentClient, render *client.RenderClient) *AgentHandler {
	return &AgentHandler{agent: agent, render: render}
}

// Discover handles POST /agent/discover
// @Summary      Discover agent API
// @Description  Fetches and validates the Socket Agent descriptor published at url/.well-known/socket-agent
// @Tags         agent
// @Accept       json
// @Produce      json
// @Param        request  body      model.DiscoverRequest  true  "Base URL of the agent service"
// @Success      200      {object}  client.AgentDescriptor
// @Failure      400      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /agent/discover [post]
func (h *AgentHandler) Discover(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.DiscoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required", "validation")
		return
	}

	descriptor, err := h.agent.Discover(r.Context(), req.URL)
	if err != nil {
		upstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, descriptor)
}

// Call handles POST /agent/call
// @Summary      Call agent endpoint
// @Description  Invokes an endpoint of a discovered agent API. Params matching {name} placeholders in the path are substituted there; the rest travel as query parameters for GET and DELETE and as a JSON body otherwise.
// @Tags         agent
// @Accept       json
// @Produce      json
// @Param        request  body      model.AgentCallRequest  true  "Endpoint reference and parameters"
// @Success      200      {object}  model.AgentCallResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /agent/call [post]
func (h *AgentHandler) Call(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.AgentCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	if req.BaseURL == "" || req.Endpoint == "" {
		writeError(w, http.StatusBadRequest, "base_url and endpoint are required", "validation")
		return
	}

	var descriptor *client.AgentDescriptor
	if len(req.Descriptor) > 0 {
		descriptor = &client.AgentDescriptor{}
		if err := json.Unmarshal(req.Descriptor, descriptor); err != nil {
			writeError(w, http.StatusBadRequest, "invalid descriptor: "+err.Error(), "validation")
			return
		}
	}

	data, err := h.agent.Call(r.Context(), req.BaseURL, req.Endpoint, req.Params, descriptor)
	if err != nil {
		upstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.AgentCallResponse{
		Success: true,
		Data:    data,
	})
}

// Render handles POST /agent/render
// @Summary      Render agent UI
// @Description  Asks the render service to generate a UI for a discovered agent descriptor. Requires a bearer access token from /auth/login.
// @Tags         agent
// @Accept       json
// @Produce      json
// @Param        Authorization  header    string               true  "Bearer access token"
// @Param        request        body      model.RenderRequest  true  "Agent descriptor and optional prompt"
// @Success      200            {object}  model.RenderResponse
// @Failure      400            {object}  model.ErrorResponse
// @Failure      401            {object}  model.ErrorResponse
// @Failure      402            {object}  model.ErrorResponse
// @Failure      429            {object}  model.ErrorResponse
// @Failure      502            {object}  model.ErrorResponse
// @Router       /agent/render [post]
func (h *AgentHandler) Render(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token", "authentication")
		return
	}

	var req model.RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	if len(req.Descriptor) == 0 {
		writeError(w, http.StatusBadRequest, "descriptor is required", "validation")
		return
	}

	var descriptor client.AgentDescriptor
	if err := json.Unmarshal(req.Descriptor, &descriptor); err != nil {
		writeError(w, http.StatusBadRequest, "invalid descriptor: "+err.Error(), "validation")
		return
	}

	result, err := h.render.Generate(r.Context(), token, &descriptor, req.Prompt)
	if err != nil {
		upstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.RenderResponse{
		HTML:             result.HTML,
		CreditsRemaining: result.CreditsRemaining,
	})
}

// RenderHealth handles GET /agent/render/health
// @Summary      Render service health
// @Description  Reports whether the render service is reachable
// @Tags         agent
// @Produce      json
// @Success      200  {object}  model.MessageResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /agent/render/health [get]
func (h *AgentHandler) RenderHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	if !h.render.Healthy(r.Context()) {
		writeError(w, http.StatusBadGateway, "render service is unreachable", "network")
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{
		Success: true,
		Message: "render service is healthy",
	})
}
