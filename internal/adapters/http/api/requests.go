package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/arijit3111w/estateai/internal/domain/model"
	"github.com/arijit3111w/estateai/internal/domain/ranking"
)

// financingRequest carries optional overrides of the default financing.
// Rent has no default and must always be sent when metrics are computed.
type financingRequest struct {
	AnnualRatePercent   *float64 `json:"annual_rate_percent"`
	TenureYears         *int     `json:"tenure_years"`
	DownPaymentPercent  *float64 `json:"down_payment_percent"`
	AppreciationPercent *float64 `json:"appreciation_percent"`
	ExpectedMonthlyRent float64  `json:"expected_monthly_rent"`
}

func (f financingRequest) apply(base model.FinancingParams) model.FinancingParams {
	if f.AnnualRatePercent != nil {
		base.AnnualRatePercent = *f.AnnualRatePercent
	}
	if f.TenureYears != nil {
		base.TenureYears = *f.TenureYears
	}
	if f.DownPaymentPercent != nil {
		base.DownPaymentPercent = *f.DownPaymentPercent
	}
	if f.AppreciationPercent != nil {
		base.AppreciationPercent = *f.AppreciationPercent
	}
	base.ExpectedMonthlyRent = f.ExpectedMonthlyRent
	return base
}

// similarRequest mirrors the OpenAPI schema for POST /similar.
type similarRequest struct {
	Target model.TargetFeatureVector `json:"target"`
	K      int                       `json:"k"`
}

// investmentRequest mirrors the OpenAPI schema for POST /investment.
type investmentRequest struct {
	Target    model.TargetFeatureVector `json:"target"`
	K         int                       `json:"k"`
	Financing financingRequest          `json:"financing"`
}

// scheduleRequest mirrors the OpenAPI schema for POST /investment/schedule.
type scheduleRequest struct {
	Price     float64          `json:"price"`
	Financing financingRequest `json:"financing"`
}

// exploreRequest mirrors the OpenAPI schema for POST /explore.
type exploreRequest struct {
	Target    model.TargetFeatureVector `json:"target"`
	K         int                       `json:"k"`
	Filter    ranking.Filter            `json:"filter"`
	CellSize  float64                   `json:"cell_size"`
	Financing financingRequest          `json:"financing"`
}

func queryInt(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", ErrBadRequest, key)
	}
	return v, nil
}

func queryFloat(q url.Values, key string) (float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative number", ErrBadRequest, key)
	}
	return v, nil
}
