package api

import (
	"context"
	"net/http"

	"github.com/arijit3111w/estateai/internal/domain/model"
)

// SimilarDependencies defines the interface for similarity ranking.
type SimilarDependencies interface {
	Similar(ctx context.Context, target model.TargetFeatureVector, k int) ([]Entry, error)
}

// SimilarHandler handles similarity requests.
type SimilarHandler struct {
	deps SimilarDependencies
}

// NewSimilarHandler creates a new similar handler.
func NewSimilarHandler(deps SimilarDependencies) *SimilarHandler {
	return &SimilarHandler{deps: deps}
}

// HandlePostSimilar handles POST /similar requests.
func (h *SimilarHandler) HandlePostSimilar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req similarRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	entries, err := h.deps.Similar(r.Context(), req.Target, req.K)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
