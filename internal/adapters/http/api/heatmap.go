package api

import (
	"context"
	"net/http"

	"github.com/arijit3111w/estateai/internal/domain/model"
	"github.com/arijit3111w/estateai/internal/domain/ranking"
)

// HeatmapDependencies defines the interface for grid aggregation.
type HeatmapDependencies interface {
	Heatmap(ctx context.Context, filter ranking.Filter, cellSize float64) ([]model.GridCell, error)
	CellSize() float64
}

// HeatmapHandler handles heatmap requests.
type HeatmapHandler struct {
	deps HeatmapDependencies
}

type heatmapResponse struct {
	CellSize float64          `json:"cell_size"`
	Filter   ranking.Filter   `json:"filter"`
	Cells    []model.GridCell `json:"cells"`
}

// NewHeatmapHandler creates a new heatmap handler.
func NewHeatmapHandler(deps HeatmapDependencies) *HeatmapHandler {
	return &HeatmapHandler{deps: deps}
}

// HandleGetHeatmap handles GET /heatmap?cell_size&min_price&max_price&min_bedrooms.
func (h *HeatmapHandler) HandleGetHeatmap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	var (
		filter ranking.Filter
		err    error
	)
	cellSize, err := queryFloat(q, "cell_size")
	if err == nil {
		filter.MinPrice, err = queryFloat(q, "min_price")
	}
	if err == nil {
		filter.MaxPrice, err = queryFloat(q, "max_price")
	}
	if err == nil {
		filter.MinBedrooms, err = queryInt(q, "min_bedrooms")
	}
	if err != nil {
		writeFailure(w, err)
		return
	}
	if q.Has("cell_size") && cellSize == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	cells, err := h.deps.Heatmap(r.Context(), filter, cellSize)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if cellSize == 0 {
		cellSize = h.deps.CellSize()
	}
	writeJSON(w, http.StatusOK, heatmapResponse{CellSize: cellSize, Filter: filter, Cells: cells})
}
