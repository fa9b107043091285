package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/airtrafficctl/atc/internal/settings"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.getSession(r.Context(), id)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Settings)
}

func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	sess, err := s.getSession(r.Context(), id)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	var patch settings.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorDetail{Kind: "bad_args", Message: err.Error()}})
		return
	}

	updated := sess.Settings
	settings.Apply(&updated, patch)

	if err := s.store.UpdateSettings(r.Context(), id, updated); err != nil {
		writeCoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
