package jobs

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestEncodeDecode_WelcomeNotification(t *testing.T) {
	payload := WelcomeNotificationPayload{
		UserID:      "user-123",
		Email:       "a@b.com",
		Name:        "Alice",
		RequestedAt: time.Now().UTC(),
	}

	b, err := EncodePayload(JobWelcomeNotification, payload)
	if err != nil {
		t.Fatalf("EncodePayload error: %v", err)
	}

	decoded, err := DecodePayload(JobWelcomeNotification, b)
	if err != nil {
		t.Fatalf("DecodePayload error: %v", err)
	}

	p, ok := decoded.(WelcomeNotificationPayload)
	if !ok {
		t.Fatalf("expected WelcomeNotificationPayload, got %T", decoded)
	}

	if p.UserID != payload.UserID || p.Email != payload.Email {
		t.Fatalf("round trip mismatch: %+v", p)
	}
}

func TestEncodeDecode_LargeTxnAlert(t *testing.T) {
	payload := LargeTxnAlertPayload{
		UserID:    "user-123",
		Email:     "a@b.com",
		ExpenseID: "exp-1",
		Amount:    decimal.NewFromInt(7000),
		Category:  "Rent",
	}

	b, err := EncodePayload(JobLargeTxnAlert, payload)
	if err != nil {
		t.Fatalf("EncodePayload error: %v", err)
	}

	decoded, err := DecodePayload(JobLargeTxnAlert, b)
	if err != nil {
		t.Fatalf("DecodePayload error: %v", err)
	}

	p, ok := decoded.(LargeTxnAlertPayload)
	if !ok {
		t.Fatalf("expected LargeTxnAlertPayload, got %T", decoded)
	}

	if !p.Amount.Equal(payload.Amount) {
		t.Fatalf("amount = %s, want %s", p.Amount, payload.Amount)
	}
}

func TestEncodePayload_TypeMismatch(t *testing.T) {
	_, err := EncodePayload(JobWelcomeNotification, LargeTxnAlertPayload{
		UserID: "u1",
	})
	if err != ErrPayloadTypeMismatch {
		t.Fatalf("expected ErrPayloadTypeMismatch, got %v", err)
	}
}

func TestEncodePayload_InvalidType(t *testing.T) {
	_, err := EncodePayload(JobType("nope"), WelcomeNotificationPayload{})
	if err != ErrInvalidJobType {
		t.Fatalf("expected ErrInvalidJobType, got %v", err)
	}
}

func TestDecodePayload_Empty(t *testing.T) {
	_, err := DecodePayload(JobWelcomeNotification, nil)
	if err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestValidatePayload_RequiredFields(t *testing.T) {
	if err := ValidatePayload(JobWelcomeNotification, WelcomeNotificationPayload{Email: "a@b.com"}); err == nil {
		t.Fatalf("expected error for missing user id")
	}

	if err := ValidatePayload(JobLargeTxnAlert, LargeTxnAlertPayload{UserID: "u1"}); err == nil {
		t.Fatalf("expected error for missing expense id")
	}
}
