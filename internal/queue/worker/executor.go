package worker

import (
	"context"
	"fmt"

	"github.com/paisatrack/paisatrack/internal/domain/job"
	"github.com/paisatrack/paisatrack/internal/jobs"
	"github.com/paisatrack/paisatrack/internal/notifications"
)

// NotificationExecutor dispatches claimed jobs to the notifier.
type NotificationExecutor struct {
	notifier notifications.Notifier
}

func NewNotificationExecutor(notifier notifications.Notifier) *NotificationExecutor {
	return &NotificationExecutor{notifier: notifier}
}

func (e *NotificationExecutor) Execute(ctx context.Context, j job.Job) error {
	t := jobs.JobType(j.Type)

	payload, err := jobs.DecodePayload(t, j.Payload)

	if err != nil {
		return err
	}

	if err := jobs.ValidatePayload(t, payload); err != nil {
		return err
	}

	switch p := payload.(type) {
	case jobs.WelcomeNotificationPayload:
		return e.notifier.SendWelcome(ctx, notifications.WelcomeInput{
			Email: p.Email,
			Name:  p.Name,
		})

	case jobs.LargeTxnAlertPayload:
		return e.notifier.SendLargeTxnAlert(ctx, notifications.LargeTxnAlertInput{
			Email:    p.Email,
			Amount:   p.Amount,
			Category: p.Category,
		})

	default:
		return fmt.Errorf("%w: %s", jobs.ErrInvalidJobType, j.Type)
	}
}
