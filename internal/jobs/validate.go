package jobs

import "strings"

// ValidatePayload performs minimal validation on decoded payloads.
func ValidatePayload(t JobType, payload any) error {
	if !t.IsValid() {
		return ErrInvalidJobType
	}

	trim := func(s string) string { return strings.TrimSpace(s) }

	switch t {
	case JobWelcomeNotification:
		var p WelcomeNotificationPayload
		switch v := payload.(type) {
		case WelcomeNotificationPayload:
			p = v
		case *WelcomeNotificationPayload:
			p = *v
		default:
			return ErrPayloadTypeMismatch
		}
		if trim(p.UserID) == "" || trim(p.Email) == "" {
			return ErrInvalidJobPayload
		}
		return nil

	case JobLargeTxnAlert:
		var p LargeTxnAlertPayload
		switch v := payload.(type) {
		case LargeTxnAlertPayload:
			p = v
		case *LargeTxnAlertPayload:
			p = *v
		default:
			return ErrPayloadTypeMismatch
		}
		if trim(p.UserID) == "" || trim(p.ExpenseID) == "" || !p.Amount.IsPositive() {
			return ErrInvalidJobPayload
		}
		return nil

	default:
		return ErrInvalidJobType
	}
}
