package tailoring

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedSleeps struct {
	delays []time.Duration
}

func (r *recordedSleeps) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func transientErr() error {
	return fmt.Errorf("dial tcp 142.250.0.1:443: %w", syscall.ECONNREFUSED)
}

func TestRetryTwoTransientFailuresThenSuccess(t *testing.T) {
	sleeps := &recordedSleeps{}
	p := DefaultRetryPolicy()
	p.Sleep = sleeps.sleep

	calls := 0
	out, attempts, err := p.Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", transientErr()
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 1000 * time.Millisecond}, sleeps.delays)
}

func TestRetryNonTransientPropagatesImmediately(t *testing.T) {
	sleeps := &recordedSleeps{}
	p := DefaultRetryPolicy()
	p.Sleep = sleeps.sleep

	apiErr := errors.New("Error 400: API key not valid")
	calls := 0
	_, attempts, err := p.Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", apiErr
	})
	assert.ErrorIs(t, err, apiErr)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeps.delays)
}

func TestRetryExhaustionReturnsLastError(t *testing.T) {
	sleeps := &recordedSleeps{}
	p := DefaultRetryPolicy()
	p.Sleep = sleeps.sleep

	calls := 0
	var last error
	_, attempts, err := p.Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		last = fmt.Errorf("attempt %d: %w", calls, syscall.ETIMEDOUT)
		return "", last
	})
	assert.Equal(t, last, err)
	assert.Equal(t, 3, attempts)
	// No wait after the final attempt.
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 1000 * time.Millisecond}, sleeps.delays)
}

func TestRetryStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := DefaultRetryPolicy()
	p.Sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	calls := 0
	_, attempts, err := p.Do(ctx, func(ctx context.Context) (string, error) {
		calls++
		return "", transientErr()
	})
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}
