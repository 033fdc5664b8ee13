package httpx

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trip(t *testing.T, breaker CircuitBreaker) {
	t.Helper()
	err := breaker.Execute(func() error { return errors.New("store unavailable") })
	require.Error(t, err)
}

func TestCircuitBreaker_Execute(t *testing.T) {
	t.Run("it should run the call and return nil on success", func(t *testing.T) {
		breaker := NewCircuitBreaker("policy-store", time.Minute, 3)
		called := false

		err := breaker.Execute(func() error {
			called = true
			return nil
		})

		assert.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, "closed", breaker.State())
	})

	t.Run("it should wrap the call error with the breaker name", func(t *testing.T) {
		breaker := NewCircuitBreaker("policy-store", time.Minute, 3)
		cause := errors.New("connection refused")

		err := breaker.Execute(func() error { return cause })

		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "breaker (policy-store): connection refused", err.Error())
		assert.False(t, IsOpen(err))
	})

	t.Run("it should turn a panic into an error and count it as a failure", func(t *testing.T) {
		breaker := NewCircuitBreaker("policy-store", time.Minute, 1)

		var err error
		assert.NotPanics(t, func() {
			err = breaker.Execute(func() error { panic("nil snapshot") })
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "panic recovered: nil snapshot")
		assert.Contains(t, err.Error(), "policy-store")
		assert.Equal(t, "open", breaker.State())
	})
}

func TestCircuitBreaker_States(t *testing.T) {
	t.Run("it should open after max consecutive failures and skip the call", func(t *testing.T) {
		breaker := NewCircuitBreaker("policy-store", time.Minute, 2)

		trip(t, breaker)
		assert.Equal(t, "closed", breaker.State())
		trip(t, breaker)
		assert.Equal(t, "open", breaker.State())

		called := false
		err := breaker.Execute(func() error {
			called = true
			return nil
		})

		assert.False(t, called)
		assert.ErrorIs(t, err, gobreaker.ErrOpenState)
		assert.True(t, IsOpen(err))
	})

	t.Run("it should go half-open after the timeout and close after enough successes", func(t *testing.T) {
		breaker := NewCircuitBreaker("policy-store", 20*time.Millisecond, 1)
		trip(t, breaker)
		require.Equal(t, "open", breaker.State())

		assert.Eventually(t, func() bool {
			return breaker.State() == "half-open"
		}, time.Second, 5*time.Millisecond)

		for i := 0; i < 5; i++ {
			require.NoError(t, breaker.Execute(func() error { return nil }))
		}
		assert.Equal(t, "closed", breaker.State())
	})

	t.Run("it should reopen when the half-open trial fails", func(t *testing.T) {
		breaker := NewCircuitBreaker("policy-store", 20*time.Millisecond, 1)
		trip(t, breaker)

		require.Eventually(t, func() bool {
			return breaker.State() == "half-open"
		}, time.Second, 5*time.Millisecond)

		trip(t, breaker)
		assert.Equal(t, "open", breaker.State())
	})
}

func TestCircuitBreaker_HalfOpenLimit(t *testing.T) {
	breaker := NewCircuitBreaker("policy-store", 20*time.Millisecond, 1)
	trip(t, breaker)
	require.Eventually(t, func() bool {
		return breaker.State() == "half-open"
	}, time.Second, 5*time.Millisecond)

	release := make(chan struct{})
	var started, done sync.WaitGroup
	started.Add(5)
	done.Add(5)
	for i := 0; i < 5; i++ {
		go func() {
			defer done.Done()
			_ = breaker.Execute(func() error { //nolint:errcheck
				started.Done()
				<-release
				return nil
			})
		}()
	}
	started.Wait()

	called := false
	err := breaker.Execute(func() error {
		called = true
		return nil
	})
	close(release)
	done.Wait()

	assert.False(t, called)
	assert.ErrorIs(t, err, gobreaker.ErrTooManyRequests)
	assert.True(t, IsOpen(err))
	assert.Equal(t, "closed", breaker.State())
}

func TestIsOpen(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "open state", err: gobreaker.ErrOpenState, want: true},
		{name: "too many requests", err: gobreaker.ErrTooManyRequests, want: true},
		{name: "wrapped open state", err: fmt.Errorf("breaker (policy-store): %w", gobreaker.ErrOpenState), want: true},
		{name: "call failure", err: errors.New("connection refused"), want: false},
		{name: "nil", err: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOpen(tt.err))
		})
	}
}
