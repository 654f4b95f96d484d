package jobs

import (
	"time"

	"github.com/shopspring/decimal"
)

// WelcomeNotificationPayload greets a newly signed-up user.
type WelcomeNotificationPayload struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	RequestedAt time.Time `json:"requestedAt"`
}

// LargeTxnAlertPayload flags an expense at or above the configured threshold.
// Keep payloads minimal and ID-based; the worker does not reload the row.
type LargeTxnAlertPayload struct {
	UserID      string          `json:"userId"`
	Email       string          `json:"email"`
	ExpenseID   string          `json:"expenseId"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	RequestedAt time.Time       `json:"requestedAt"`
}
