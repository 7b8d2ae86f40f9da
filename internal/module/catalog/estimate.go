package catalog

import "math"

// Display-only defaults for the monthly payment estimate shown on item
// cards. Overridable through catalog.credit_rate / credit_term_months.
const (
	DefaultCreditRate = 0.05
	DefaultCreditTerm = 60
)

// MonthlyPayment estimates the annuity payment for financing the full
// price over termMonths at the given yearly rate. It is a marketing
// figure for the item card, not a credit offer; invalid inputs return 0.
func MonthlyPayment(price int64, yearlyRate float64, termMonths int) int64 {
	if price <= 0 || termMonths <= 0 {
		return 0
	}
	if yearlyRate <= 0 {
		return int64(math.Round(float64(price) / float64(termMonths)))
	}

	monthly := yearlyRate / 12
	factor := math.Pow(1+monthly, float64(termMonths))
	payment := float64(price) * monthly * factor / (factor - 1)
	return int64(math.Round(payment))
}
