package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryFixedDelay_SuccessFirstTry(t *testing.T) {
	calls := 0
	err := RetryFixedDelay(context.Background(), 1, time.Millisecond, func(attempt int) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestRetryFixedDelay_SuccessAfterRetry(t *testing.T) {
	calls := 0
	err := RetryFixedDelay(context.Background(), 1, time.Millisecond, func(attempt int) error {
		calls++
		if attempt == 0 {
			return errors.New("transient error")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 calls (1 failure + 1 success), got %d", calls)
	}
}

func TestRetryFixedDelay_AllAttemptsExhausted(t *testing.T) {
	calls := 0
	err := RetryFixedDelay(context.Background(), 1, time.Millisecond, func(attempt int) error {
		calls++
		return errors.New("persistent error")
	})
	if err == nil {
		t.Fatal("Expected error after exhausting retries")
	}
	if calls != 2 {
		t.Errorf("Expected 2 calls (maxRetries+1), got %d", calls)
	}
}

func TestRetryFixedDelay_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryFixedDelay(ctx, 3, time.Second, func(attempt int) error {
		return errors.New("fail")
	})
	if err == nil {
		t.Fatal("Expected an error with a cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRetryFixedDelay_WaitsBetweenAttempts(t *testing.T) {
	start := time.Now()
	_ = RetryFixedDelay(context.Background(), 1, 50*time.Millisecond, func(attempt int) error {
		return errors.New("fail")
	})
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("Expected at least ~50ms of delay, got %v", elapsed)
	}
}
