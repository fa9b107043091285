package httpserver

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/airtrafficctl/atc/internal/event"
	"github.com/airtrafficctl/atc/internal/runtime"
)

// handleDispatchTool is the generic session-scoped tool invocation route
// that discovery.*, files.*, and git.* all go through: POST
// /v1/sessions/{id}/tools/{toolName} with the tool's own argument object
// as the request body.
func (s *Server) handleDispatchTool(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	toolName := chi.URLParam(r, "toolName")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorDetail{Kind: "bad_args", Message: err.Error()}})
		return
	}
	if len(body) == 0 {
		body = []byte(`{}`)
	}

	outcome, dispatchErr := runtime.Dispatch(r.Context(), s.store, s.registry, s.cfg.DefaultSettings, sessionID, toolName, json.RawMessage(body))

	s.publishDispatchEvent(sessionID, toolName, outcome, dispatchErr)

	if dispatchErr != nil {
		writeCoreError(w, dispatchErr)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"summary": outcome.Summary,
		"data":    outcome.Data,
	})
}

// handleIncludeURL is a named convenience route over the generic
// include_url tool.
func (s *Server) handleIncludeURL(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorDetail{Kind: "bad_args", Message: err.Error()}})
		return
	}

	outcome, dispatchErr := runtime.Dispatch(r.Context(), s.store, s.registry, s.cfg.DefaultSettings, sessionID, "include_url", json.RawMessage(body))

	s.publishDispatchEvent(sessionID, "include_url", outcome, dispatchErr)

	if dispatchErr != nil {
		writeCoreError(w, dispatchErr)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"summary": outcome.Summary,
		"data":    outcome.Data,
	})
}

func (s *Server) publishDispatchEvent(sessionID, toolName string, outcome *runtime.Outcome, dispatchErr error) {
	if s.bus == nil {
		return
	}
	data := event.ToolDispatchedData{SessionID: sessionID, Tool: toolName}
	if dispatchErr != nil {
		data.Status = "error"
		data.Error = dispatchErr.Error()
	} else {
		data.Status = "ok"
		data.Summary = outcome.Summary
		data.Data = outcome.Data
	}
	s.bus.Publish(event.Event{Type: event.ToolDispatched, Data: data})
}
