package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/arijit3111w/estateai/internal/domain/model"
	"github.com/arijit3111w/estateai/internal/domain/scoring"
	"github.com/arijit3111w/estateai/internal/domain/types"
)

// PropertyDependencies defines the interface for dataset reads.
type PropertyDependencies interface {
	Properties(ctx context.Context, limit, offset int) (types.Page, error)
	Property(ctx context.Context, id string) (model.PropertyRecord, error)
	SimilarTo(ctx context.Context, id string, k int) ([]Entry, error)
	Breakdown(ctx context.Context, id string, target model.TargetFeatureVector) (scoring.Components, error)
}

// PropertiesHandler handles property requests.
type PropertiesHandler struct {
	deps PropertyDependencies
}

// NewPropertiesHandler creates a new properties handler.
func NewPropertiesHandler(deps PropertyDependencies) *PropertiesHandler {
	return &PropertiesHandler{deps: deps}
}

// HandleList handles GET /properties?limit=N&offset=M requests.
func (h *PropertiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	limit, err := queryInt(q, "limit")
	if err != nil {
		writeFailure(w, err)
		return
	}
	offset, err := queryInt(q, "offset")
	if err != nil {
		writeFailure(w, err)
		return
	}
	page, err := h.deps.Properties(r.Context(), limit, offset)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleProperty handles GET /properties/{id}, GET /properties/{id}/similar?k=N
// and POST /properties/{id}/breakdown.
func (h *PropertiesHandler) HandleProperty(w http.ResponseWriter, r *http.Request) {
	// Extract path parameters after /properties/
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/properties/"), "/")
	if parts[0] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadPath)
		return
	}
	id := parts[0]

	if len(parts) == 2 && parts[1] == "breakdown" {
		h.handleBreakdown(w, r, id)
		return
	}
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	switch {
	case len(parts) == 1:
		rec, err := h.deps.Property(r.Context(), id)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	case len(parts) == 2 && parts[1] == "similar":
		k, err := queryInt(r.URL.Query(), "k")
		if err != nil {
			writeFailure(w, err)
			return
		}
		entries, err := h.deps.SimilarTo(r.Context(), id, k)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	default:
		writeError(w, http.StatusNotFound, "not_found", ErrBadPath)
	}
}

func (h *PropertiesHandler) handleBreakdown(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var target model.TargetFeatureVector
	if err := decodeBody(r, &target); err != nil {
		writeFailure(w, err)
		return
	}
	comps, err := h.deps.Breakdown(r.Context(), id, target)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comps)
}
