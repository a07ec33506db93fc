package tailoring

import (
	"context"
	"time"

	"resume-tailor/internal/llm"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/telemetry"
)

// RetryPolicy retries transient network failures with exponential backoff:
// after failed attempt i (0-based) it waits BaseDelay * 2^i.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, BaseDelay: 500 * time.Millisecond}
}

// Do calls fn until it succeeds, fails with a non-transient error, or the
// attempts run out. It returns the number of attempts made. There is no wait
// after the final attempt.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, int, error) {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		metrics.IncLLMAttempt()
		out, err := fn(ctx)
		if err == nil {
			return out, i + 1, nil
		}
		lastErr = err
		if !llm.IsTransient(err) {
			return "", i + 1, err
		}
		if i == attempts-1 || ctx.Err() != nil {
			return "", i + 1, lastErr
		}

		delay := p.BaseDelay << i
		metrics.IncLLMRetry()
		telemetry.Warn("llm.retry", map[string]any{
			"attempt":  i + 1,
			"delay_ms": delay.Milliseconds(),
			"error":    err,
		})
		if err := sleep(ctx, delay); err != nil {
			return "", i + 1, lastErr
		}
	}
	return "", attempts, lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
