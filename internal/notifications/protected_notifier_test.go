package notifications

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedNotifier struct {
	err   error
	calls int
}

func (s *scriptedNotifier) SendWelcome(ctx context.Context, in WelcomeInput) error {
	s.calls++
	return s.err
}

func (s *scriptedNotifier) SendLargeTxnAlert(ctx context.Context, in LargeTxnAlertInput) error {
	s.calls++
	return s.err
}

func TestProtectedNotifier_PassThrough(t *testing.T) {
	inner := &scriptedNotifier{}

	n := NewProtectedNotifier(inner, ProtectedNotifierConfig{})

	if err := n.SendWelcome(context.Background(), WelcomeInput{Email: "a@b.com"}); err != nil {
		t.Fatalf("SendWelcome error: %v", err)
	}

	if inner.calls != 1 {
		t.Fatalf("inner calls = %d, want 1", inner.calls)
	}
}

func TestProtectedNotifier_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &scriptedNotifier{err: errors.New("provider down")}

	n := NewProtectedNotifier(inner, ProtectedNotifierConfig{
		FailureThreshold: 3,
		Cooldown:         time.Hour,
	})

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := n.SendWelcome(ctx, WelcomeInput{}); err == nil {
			t.Fatalf("call %d: expected provider error", i)
		}
	}

	// circuit is now open: fail fast without touching the provider
	before := inner.calls

	if err := n.SendWelcome(ctx, WelcomeInput{}); err != ErrCircuitOpen {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}

	if inner.calls != before {
		t.Fatalf("open circuit still called the provider")
	}
}

func TestProtectedNotifier_HalfOpenRecovery(t *testing.T) {
	inner := &scriptedNotifier{err: errors.New("provider down")}

	n := NewProtectedNotifier(inner, ProtectedNotifierConfig{
		FailureThreshold: 1,
		Cooldown:         10 * time.Millisecond,
	})

	ctx := context.Background()

	if err := n.SendLargeTxnAlert(ctx, LargeTxnAlertInput{}); err == nil {
		t.Fatalf("expected provider error")
	}

	if err := n.SendLargeTxnAlert(ctx, LargeTxnAlertInput{}); err != ErrCircuitOpen {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}

	// provider recovers; after cooldown one trial call closes the circuit
	inner.err = nil
	time.Sleep(20 * time.Millisecond)

	if err := n.SendLargeTxnAlert(ctx, LargeTxnAlertInput{}); err != nil {
		t.Fatalf("half-open trial call failed: %v", err)
	}

	if err := n.SendLargeTxnAlert(ctx, LargeTxnAlertInput{}); err != nil {
		t.Fatalf("circuit did not close after successful trial: %v", err)
	}
}
