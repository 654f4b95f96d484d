package record

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts serialize as JSON numbers, matching the public API contract.
	decimal.MarshalJSONWithoutQuotes = true
}

var ErrNotFound = errors.New("record not found")

type Expense struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description *string         `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Income mirrors Expense with source replacing category.
type Income struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Amount      decimal.Decimal `json:"amount"`
	Source      string          `json:"source"`
	Description *string         `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Amount is a pointer so an absent field fails the required binding; a
// present zero value reaches Validate instead.
type CreateExpenseRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Category    string           `json:"category" binding:"required"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	Date        *time.Time       `json:"date"`
}

type CreateIncomeRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Source      string           `json:"source" binding:"required"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	Date        *time.Time       `json:"date"`
}

// Validate applies the rules binding tags cannot express: amounts must be
// strictly positive and category/source must not be blank.
func (r CreateExpenseRequest) Validate() error {
	if r.Amount == nil {
		return ErrMissingAmount
	}
	if !r.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrBlankLabel
	}
	return nil
}

func (r CreateIncomeRequest) Validate() error {
	if r.Amount == nil {
		return ErrMissingAmount
	}
	if !r.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if strings.TrimSpace(r.Source) == "" {
		return ErrBlankLabel
	}
	return nil
}

var (
	ErrMissingAmount     = errors.New("amount is required")
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrBlankLabel        = errors.New("category or source must not be blank")
)
