package api

import (
	"context"
	"net/http"

	"github.com/arijit3111w/estateai/internal/adapters/repository"
	"github.com/arijit3111w/estateai/internal/domain/dataset"
)

// DatasetDependencies defines the interface for dataset maintenance.
type DatasetDependencies interface {
	Summary(ctx context.Context) (dataset.Summary, error)
	Refresh(ctx context.Context) (dataset.Report, error)
	DatasetInfo() repository.Info
}

// DatasetHandler handles dataset requests.
type DatasetHandler struct {
	deps DatasetDependencies
}

// NewDatasetHandler creates a new dataset handler.
func NewDatasetHandler(deps DatasetDependencies) *DatasetHandler {
	return &DatasetHandler{deps: deps}
}

// HandleInfo handles GET /dataset requests.
func (h *DatasetHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.DatasetInfo())
}

// HandleSummary handles GET /dataset/summary requests.
func (h *DatasetHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sum, err := h.deps.Summary(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// HandleRefresh handles POST /dataset/refresh requests.
func (h *DatasetHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	rep, err := h.deps.Refresh(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
