// Package investment derives loan, return and yield figures for a property
// and uses them to re-rank similar candidates.
package investment

import (
	"math"

	"github.com/arijit3111w/estateai/internal/domain/model"
	"github.com/arijit3111w/estateai/internal/domain/ranking"
)

const (
	roiHorizonYears  = 10
	stressRatio      = 0.8
	stressMultiplier = 0.8
	componentCap     = 10.0
)

// Input field names reported by InputError.
const (
	FieldPrice        = "price"
	FieldRate         = "annual_rate_percent"
	FieldTenure       = "tenure_years"
	FieldDownPayment  = "down_payment_percent"
	FieldAppreciation = "appreciation_percent"
	FieldRent         = "expected_monthly_rent"
)

// DefaultParams are the usual financing assumptions. Rent has no sensible
// default and must be supplied.
func DefaultParams() model.FinancingParams {
	return model.FinancingParams{
		AnnualRatePercent:   7.5,
		TenureYears:         20,
		DownPaymentPercent:  20,
		AppreciationPercent: 6,
	}
}

// Attributes are the property traits that feed the investment score.
type Attributes struct {
	Grade      int
	LivingArea float64
}

// AttributesOf extracts the scoring attributes of a record.
func AttributesOf(r model.PropertyRecord) Attributes {
	return Attributes{Grade: r.Grade, LivingArea: r.LivingArea}
}

// Validate checks financing parameters independent of any price.
func Validate(p model.FinancingParams) error {
	if err := validateLoan(p); err != nil {
		return err
	}
	switch {
	case !finite(p.AppreciationPercent) || p.AppreciationPercent <= -100:
		return invalid(FieldAppreciation, "must be greater than -100")
	case !finite(p.ExpectedMonthlyRent) || p.ExpectedMonthlyRent <= 0:
		return invalid(FieldRent, "must be positive")
	}
	return nil
}

func validateLoan(p model.FinancingParams) error {
	switch {
	case !finite(p.AnnualRatePercent) || p.AnnualRatePercent < 0:
		return invalid(FieldRate, "must be a non-negative number")
	case p.TenureYears <= 0:
		return invalid(FieldTenure, "must be positive")
	case !finite(p.DownPaymentPercent) || p.DownPaymentPercent <= 0:
		return invalid(FieldDownPayment, "must be positive")
	case p.DownPaymentPercent > 100:
		return invalid(FieldDownPayment, "must not exceed 100")
	}
	return nil
}

// MonthlyPayment is the constant payment that repays loan over years at
// annualRatePercent. A zero rate spreads the principal evenly.
func MonthlyPayment(loan, annualRatePercent float64, years int) (float64, error) {
	if years <= 0 {
		return 0, invalid(FieldTenure, "must be positive")
	}
	if !finite(annualRatePercent) || annualRatePercent < 0 {
		return 0, invalid(FieldRate, "must be a non-negative number")
	}
	n := float64(years * 12)
	r := annualRatePercent / 12 / 100
	if r == 0 {
		return loan / n, nil
	}
	growth := math.Pow(1+r, n)
	return loan * r * growth / (growth - 1), nil
}

// Compute derives the investment metrics of one property.
func Compute(price float64, attrs Attributes, p model.FinancingParams) (model.InvestmentMetrics, error) {
	if !finite(price) || price <= 0 {
		return model.InvestmentMetrics{}, invalid(FieldPrice, "must be positive")
	}
	if err := Validate(p); err != nil {
		return model.InvestmentMetrics{}, err
	}

	down := price * p.DownPaymentPercent / 100
	loan := price - down
	payment, err := MonthlyPayment(loan, p.AnnualRatePercent, p.TenureYears)
	if err != nil {
		return model.InvestmentMetrics{}, err
	}
	n := float64(p.TenureYears * 12)

	future := price * math.Pow(1+p.AppreciationPercent/100, roiHorizonYears)
	roi := (future - price) / down * 100
	yield := p.ExpectedMonthlyRent * 12 / price * 100

	score := math.Min(roi/10, componentCap)*0.4 +
		math.Min(yield*2, componentCap)*0.3 +
		math.Min(float64(attrs.Grade), componentCap)*0.15 +
		math.Min(attrs.LivingArea/1000, componentCap)*0.15
	stressed := payment/p.ExpectedMonthlyRent > stressRatio
	if stressed {
		score *= stressMultiplier
	}

	return model.InvestmentMetrics{
		DownPayment:     orZero(down),
		LoanAmount:      orZero(loan),
		MonthlyPayment:  orZero(payment),
		TotalInterest:   orZero(payment*n - loan),
		ROI10Year:       orZero(roi),
		RentalYield:     orZero(yield),
		InvestmentScore: orZero(score),
		Stressed:        stressed,
	}, nil
}

// Rerank computes metrics for every scored candidate and returns them ordered
// by investment score, highest first. Equal scores keep similarity order.
// Params are validated once up front; the input slice is not modified.
func Rerank(scored []model.ScoredCandidate, p model.FinancingParams) ([]model.ScoredCandidate, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	out := make([]model.ScoredCandidate, len(scored))
	for i, c := range scored {
		m, err := Compute(c.Price, AttributesOf(c.PropertyRecord), p)
		if err != nil {
			return nil, err
		}
		score := m.InvestmentScore
		c.Investment = &m
		c.InvestmentScore = &score
		out[i] = c
	}
	return ranking.ByInvestment(out), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func orZero(v float64) float64 {
	if finite(v) {
		return v
	}
	return 0
}
