package util

import (
	"context"
	"fmt"
	"time"
)

// RetryFixedDelay calls fn up to maxRetries+1 times, sleeping a fixed
// delay between attempts. fn receives the current attempt number
// (0-indexed) and should return nil on success. If the context is
// cancelled, RetryFixedDelay returns the context error immediately.
func RetryFixedDelay(ctx context.Context, maxRetries int, delay time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}

		// Don't wait after the last attempt
		if attempt == maxRetries {
			break
		}

		// Check context before sleeping
		if ctx.Err() != nil {
			return ctx.Err()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", maxRetries+1, lastErr)
}
