package notifications

import (
	"context"

	"github.com/shopspring/decimal"
)

type WelcomeInput struct {
	Email string
	Name  string
}

type LargeTxnAlertInput struct {
	Email    string
	Amount   decimal.Decimal
	Category string
}

type Notifier interface {
	SendWelcome(ctx context.Context, input WelcomeInput) error
	SendLargeTxnAlert(ctx context.Context, input LargeTxnAlertInput) error
}
