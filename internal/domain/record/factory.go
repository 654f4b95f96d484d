package record

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewExpenseFromCreateRequest stamps identity and defaults. The owner is
// always the authenticated caller, never a request-supplied value. Callers
// run Validate first; a nil amount maps to zero here.
func NewExpenseFromCreateRequest(userID string, req CreateExpenseRequest) Expense {
	now := time.Now().UTC()

	date := now

	if req.Date != nil && !req.Date.IsZero() {
		date = req.Date.UTC()
	}

	return Expense{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      derefAmount(req.Amount),
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
		CreatedAt:   now,
	}
}

func derefAmount(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Decimal{}
	}
	return *d
}

func NewIncomeFromCreateRequest(userID string, req CreateIncomeRequest) Income {
	now := time.Now().UTC()

	date := now

	if req.Date != nil && !req.Date.IsZero() {
		date = req.Date.UTC()
	}

	return Income{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      derefAmount(req.Amount),
		Source:      req.Source,
		Description: req.Description,
		Date:        date,
		CreatedAt:   now,
	}
}
