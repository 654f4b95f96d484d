package record

import "github.com/shopspring/decimal"

// Summary is derived server-side from the record store; clients never supply
// cached balances.
type Summary struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Balance       decimal.Decimal `json:"balance"`
}

func NewSummary(totalIncome, totalExpenses decimal.Decimal) Summary {
	return Summary{
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		Balance:       totalIncome.Sub(totalExpenses),
	}
}
