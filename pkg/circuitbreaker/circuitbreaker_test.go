package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func failN(cb *CircuitBreaker, n int) {
	for i := 0; i < n; i++ {
		_ = cb.Execute(func() error { return errBoom })
	}
}

func TestBreakerStaysClosedUnderThreshold(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig())

	failN(cb, 4)
	assert.Equal(t, StateClosed, cb.GetState())

	err := cb.Execute(func() error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestBreakerOpensAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig())

	failN(cb, 5)
	err := cb.Execute(func() error {
		t.Fatal("fn must not run while open")
		return nil
	})
	require.ErrorIs(t, err, ErrCircuitBreakerOpen)
	assert.Equal(t, StateOpen, cb.GetState())
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig())

	failN(cb, 4)
	require.NoError(t, cb.Execute(func() error { return nil }))
	failN(cb, 4)
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestHalfOpenProbeClosesAfterSuccesses(t *testing.T) {
	cfg := Config{
		FailureThreshold:    2,
		SuccessThreshold:    2,
		Timeout:             10 * time.Millisecond,
		HalfOpenMaxRequests: 3,
	}
	cb := NewCircuitBreaker(cfg)

	failN(cb, 2)
	_ = cb.Execute(func() error { return nil }) // rejected, trips the open check
	require.Equal(t, StateOpen, cb.GetState())

	time.Sleep(15 * time.Millisecond)

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateHalfOpen, cb.GetState())
	require.NoError(t, cb.Execute(func() error { return nil }))

	// Threshold reached; next call sees the closed state.
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cfg := Config{
		FailureThreshold:    2,
		SuccessThreshold:    2,
		Timeout:             10 * time.Millisecond,
		HalfOpenMaxRequests: 3,
	}
	cb := NewCircuitBreaker(cfg)

	failN(cb, 2)
	_ = cb.Execute(func() error { return nil })
	require.Equal(t, StateOpen, cb.GetState())

	time.Sleep(15 * time.Millisecond)

	err := cb.Execute(func() error { return errBoom })
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, StateOpen, cb.GetState())
}

func TestReset(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig())
	failN(cb, 5)
	_ = cb.Execute(func() error { return nil })
	require.Equal(t, StateOpen, cb.GetState())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.GetState())
	assert.NoError(t, cb.Execute(func() error { return nil }))
}
