package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_Metrics(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 5}, nil)
	ctx := context.Background()

	got, err := cb.Execute(ctx, func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", got)

	_, err = cb.Execute(ctx, func() (string, error) { return "", errors.New("boom") })
	require.Error(t, err)

	m := cb.Metrics()
	assert.Equal(t, uint64(2), m.TotalRequests)
	assert.Equal(t, uint64(1), m.TotalSuccesses)
	assert.Equal(t, uint64(1), m.TotalFailures)
	assert.Equal(t, uint32(1), m.ConsecutiveFailures)
	assert.Equal(t, "closed", cb.State())
}

func TestCircuitBreaker_CancelledContext(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := cb.Execute(ctx, func() (string, error) {
		called = true
		return "", nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, Timeout: 20 * time.Millisecond, HalfOpenMaxSuccesses: 1}, nil)
	ctx := context.Background()

	_, _ = cb.Execute(ctx, func() (string, error) { return "", errors.New("boom") })
	assert.Equal(t, "open", cb.State())

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, "half-open", cb.State())

	_, err := cb.Execute(ctx, func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "closed", cb.State())
}
