package investment

import (
	"math"

	"github.com/arijit3111w/estateai/internal/domain/model"
)

// YearRow is one year of an amortization schedule.
type YearRow struct {
	Year           int     `json:"year"`
	PrincipalPaid  float64 `json:"principal_paid"`
	InterestPaid   float64 `json:"interest_paid"`
	ClosingBalance float64 `json:"closing_balance"`
}

// Schedule returns the yearly amortization of the loan on price. Rent is not
// needed and is ignored.
func Schedule(price float64, p model.FinancingParams) ([]YearRow, error) {
	if !finite(price) || price <= 0 {
		return nil, invalid(FieldPrice, "must be positive")
	}
	if err := validateLoan(p); err != nil {
		return nil, err
	}

	balance := price - price*p.DownPaymentPercent/100
	payment, err := MonthlyPayment(balance, p.AnnualRatePercent, p.TenureYears)
	if err != nil {
		return nil, err
	}
	r := p.AnnualRatePercent / 12 / 100

	rows := make([]YearRow, 0, p.TenureYears)
	for year := 1; year <= p.TenureYears; year++ {
		row := YearRow{Year: year}
		for m := 0; m < 12; m++ {
			interest := balance * r
			principal := math.Min(payment-interest, balance)
			balance -= principal
			row.InterestPaid += interest
			row.PrincipalPaid += principal
		}
		if balance < 1e-6 {
			balance = 0
		}
		row.ClosingBalance = balance
		rows = append(rows, row)
	}
	return rows, nil
}
