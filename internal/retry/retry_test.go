package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/retry"
)

func TestExecute_SucceedsAfterFailures(t *testing.T) {
	policy := retry.NewRetryPolicy(3, time.Millisecond)

	calls := 0
	err := policy.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestExecute_Exhausted(t *testing.T) {
	policy := retry.NewRetryPolicy(2, time.Millisecond)
	boom := errors.New("boom")

	calls := 0
	err := policy.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return boom
	})

	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestExecute_PermanentStopsImmediately(t *testing.T) {
	policy := retry.NewRetryPolicy(5, time.Millisecond)
	bad := errors.New("bad request")

	calls := 0
	err := policy.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return retry.Permanent(bad)
	})

	if !errors.Is(err, bad) || !errors.Is(err, retry.ErrPermanent) {
		t.Fatalf("expected permanent bad request, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestExecute_ContextCancelled(t *testing.T) {
	policy := retry.NewRetryPolicy(5, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := policy.Execute(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("transient")
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}
