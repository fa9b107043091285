package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/airtrafficctl/atc/internal/core"
	"github.com/airtrafficctl/atc/internal/store"
)

type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeCoreError maps a core.Error kind to an HTTP status per the
// taxonomy table, falling back to 500 for anything unrecognized and to
// 404 for store.ErrNotFound.
func writeCoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: errorDetail{Kind: "not_found", Message: err.Error()}})
		return
	}

	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		writeJSON(w, statusForKind(coreErr.Kind), errorResponse{
			Error: errorDetail{Kind: string(coreErr.Kind), Message: coreErr.Error()},
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error: errorDetail{Kind: "internal", Message: err.Error()},
	})
}

func statusForKind(kind core.Kind) int {
	switch kind {
	case core.KindSessionNotFound:
		return http.StatusNotFound
	case core.KindUnknownTool, core.KindBadArgs, core.KindConfigMissing, core.KindPathEscape:
		return http.StatusBadRequest
	case core.KindForbiddenHost:
		return http.StatusForbidden
	case core.KindNotFound:
		return http.StatusBadRequest
	case core.KindUpstreamFailure:
		return http.StatusBadGateway
	case core.KindStorageFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
