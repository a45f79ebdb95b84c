package api

import (
	"context"
	"net/http"

	service "github.com/arijit3111w/estateai/internal/app"
	"github.com/arijit3111w/estateai/internal/domain/model"
	"github.com/arijit3111w/estateai/internal/domain/ranking"
)

// ExploreDependencies defines the interface for the combined view.
type ExploreDependencies interface {
	Explore(
		ctx context.Context,
		target model.TargetFeatureVector,
		k int,
		filter ranking.Filter,
		cellSize float64,
		params model.FinancingParams,
	) (service.ExploreResult, error)
	Financing() model.FinancingParams
}

// ExploreHandler handles explore requests.
type ExploreHandler struct {
	deps ExploreDependencies
}

// NewExploreHandler creates a new explore handler.
func NewExploreHandler(deps ExploreDependencies) *ExploreHandler {
	return &ExploreHandler{deps: deps}
}

// HandlePostExplore handles POST /explore requests.
func (h *ExploreHandler) HandlePostExplore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req exploreRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	res, err := h.deps.Explore(r.Context(), req.Target, req.K, req.Filter, req.CellSize, req.Financing.apply(h.deps.Financing()))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
