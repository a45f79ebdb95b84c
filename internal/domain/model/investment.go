package model

// FinancingParams are the loan and market assumptions for an investment.
type FinancingParams struct {
	AnnualRatePercent   float64 `json:"annual_rate_percent"`
	TenureYears         int     `json:"tenure_years"`
	DownPaymentPercent  float64 `json:"down_payment_percent"`
	AppreciationPercent float64 `json:"appreciation_percent"`
	ExpectedMonthlyRent float64 `json:"expected_monthly_rent"`
}

// InvestmentMetrics are the derived figures for one property.
type InvestmentMetrics struct {
	DownPayment     float64 `json:"down_payment"`
	LoanAmount      float64 `json:"loan_amount"`
	MonthlyPayment  float64 `json:"monthly_payment"`
	TotalInterest   float64 `json:"total_interest"`
	ROI10Year       float64 `json:"roi_10_year"`
	RentalYield     float64 `json:"rental_yield"`
	InvestmentScore float64 `json:"investment_score"`
	Stressed        bool    `json:"affordability_stressed"`
}
