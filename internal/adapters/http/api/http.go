// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/arijit3111w/estateai/internal/adapters/repository"
	"github.com/arijit3111w/estateai/internal/adapters/source"
	service "github.com/arijit3111w/estateai/internal/app"
	"github.com/arijit3111w/estateai/internal/domain/grid"
	"github.com/arijit3111w/estateai/internal/domain/investment"
	"github.com/arijit3111w/estateai/internal/domain/types"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PropertyDependencies
	SimilarDependencies
	HeatmapDependencies
	InvestmentDependencies
	ExploreDependencies
	DatasetDependencies
}

// Entry mirrors the read shape returned by ranking queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	propertiesHandler *PropertiesHandler
	similarHandler    *SimilarHandler
	heatmapHandler    *HeatmapHandler
	investmentHandler *InvestmentHandler
	exploreHandler    *ExploreHandler
	datasetHandler    *DatasetHandler
	dashboardHandler  *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		propertiesHandler: NewPropertiesHandler(deps),
		similarHandler:    NewSimilarHandler(deps),
		heatmapHandler:    NewHeatmapHandler(deps),
		investmentHandler: NewInvestmentHandler(deps),
		exploreHandler:    NewExploreHandler(deps),
		datasetHandler:    NewDatasetHandler(deps),
		dashboardHandler:  newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/properties", MetricsMiddleware(s.propertiesHandler.HandleList, "properties"))
	mux.HandleFunc("/properties/", MetricsMiddleware(s.propertiesHandler.HandleProperty, "property"))
	mux.HandleFunc("/similar", MetricsMiddleware(s.similarHandler.HandlePostSimilar, "similar"))
	mux.HandleFunc("/heatmap", MetricsMiddleware(s.heatmapHandler.HandleGetHeatmap, "heatmap"))
	mux.HandleFunc("/investment", MetricsMiddleware(s.investmentHandler.HandlePostInvestment, "investment"))
	mux.HandleFunc("/investment/schedule", MetricsMiddleware(s.investmentHandler.HandlePostSchedule, "investment_schedule"))
	mux.HandleFunc("/explore", MetricsMiddleware(s.exploreHandler.HandlePostExplore, "explore"))
	mux.HandleFunc("/dataset", MetricsMiddleware(s.datasetHandler.HandleInfo, "dataset"))
	mux.HandleFunc("/dataset/summary", MetricsMiddleware(s.datasetHandler.HandleSummary, "dataset_summary"))
	mux.HandleFunc("/dataset/refresh", MetricsMiddleware(s.datasetHandler.HandleRefresh, "dataset_refresh"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps a domain error onto its HTTP status and code.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, investment.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, "invalid_input", err)
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidTarget),
		errors.Is(err, service.ErrInvalidPage),
		errors.Is(err, grid.ErrInvalidCellSize):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, source.ErrSourceUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// decodeBody reads a JSON request body into v, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
