package api

import (
	"context"
	"net/http"

	"github.com/arijit3111w/estateai/internal/domain/investment"
	"github.com/arijit3111w/estateai/internal/domain/model"
)

// InvestmentDependencies defines the interface for investment ranking.
type InvestmentDependencies interface {
	Investment(ctx context.Context, target model.TargetFeatureVector, k int, params model.FinancingParams) ([]Entry, error)
	Schedule(ctx context.Context, price float64, params model.FinancingParams) ([]investment.YearRow, error)
	Financing() model.FinancingParams
}

// InvestmentHandler handles investment requests.
type InvestmentHandler struct {
	deps InvestmentDependencies
}

type scheduleResponse struct {
	Price     float64               `json:"price"`
	Financing model.FinancingParams `json:"financing"`
	Years     []investment.YearRow  `json:"years"`
}

// NewInvestmentHandler creates a new investment handler.
func NewInvestmentHandler(deps InvestmentDependencies) *InvestmentHandler {
	return &InvestmentHandler{deps: deps}
}

// HandlePostInvestment handles POST /investment requests.
func (h *InvestmentHandler) HandlePostInvestment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req investmentRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	entries, err := h.deps.Investment(r.Context(), req.Target, req.K, req.Financing.apply(h.deps.Financing()))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandlePostSchedule handles POST /investment/schedule requests.
func (h *InvestmentHandler) HandlePostSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scheduleRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	params := req.Financing.apply(h.deps.Financing())
	rows, err := h.deps.Schedule(r.Context(), req.Price, params)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduleResponse{Price: req.Price, Financing: params, Years: rows})
}
