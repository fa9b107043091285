package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/airtrafficctl/atc/pkg/types"
)

type createSessionRequest struct {
	ClientID string         `json:"client_id,omitempty"`
	Settings types.Settings `json:"settings,omitempty"`
}

type createSessionResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorDetail{Kind: "bad_args", Message: err.Error()}})
			return
		}
	}

	sess, err := s.store.CreateSession(r.Context(), req.ClientID, req.Settings)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createSessionResponse{ID: sess.ID})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.ListSessions(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": ids})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	existed, err := s.store.DeleteSession(r.Context(), id)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if !existed {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
