package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/airtrafficctl/atc/internal/idgen"
	"github.com/airtrafficctl/atc/pkg/types"
)

type postMessageRequest struct {
	Role    string  `json:"role,omitempty"`
	Content string  `json:"content"`
	Model   *string `json:"model,omitempty"`
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := s.getSession(r.Context(), sessionID); err != nil {
		writeCoreError(w, err)
		return
	}

	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorDetail{Kind: "bad_args", Message: err.Error()}})
		return
	}
	role := req.Role
	if role == "" {
		role = "user"
	}

	msg := &types.Message{
		ID:             idgen.New(),
		SessionID:      sessionID,
		Role:           role,
		ContentSummary: types.Summarize(req.Content),
		ModelUsed:      req.Model,
	}
	if err := s.store.AppendMessage(r.Context(), msg); err != nil {
		writeCoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := s.getSession(r.Context(), sessionID); err != nil {
		writeCoreError(w, err)
		return
	}

	kind := r.URL.Query().Get("kind")
	offset := queryInt(r, "cursor", 0)
	limit := queryInt(r, "limit", 50)

	switch kind {
	case "tools":
		events, err := s.store.ListToolEvents(r.Context(), sessionID, offset, limit)
		if err != nil {
			writeCoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"tool_events": events})
	default:
		messages, err := s.store.ListMessages(r.Context(), sessionID, offset, limit)
		if err != nil {
			writeCoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
	}
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
