package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendwise/internal/service"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
	}
}

func TestWithRetry(t *testing.T) {
	errPermanent := errors.New("constraint violated")

	tests := []struct {
		wantErr   error
		failures  []error
		name      string
		attempts  int
		wantCalls int
	}{
		{
			name:      "succeeds first time",
			attempts:  3,
			wantCalls: 1,
		},
		{
			name:      "recovers from transient store failure",
			failures:  []error{fmt.Errorf("insert: %w", ErrStoreUnavailable)},
			attempts:  3,
			wantCalls: 2,
		},
		{
			name:      "stops on permanent error",
			failures:  []error{errPermanent, errPermanent},
			attempts:  3,
			wantCalls: 1,
			wantErr:   errPermanent,
		},
		{
			name: "exhausts attempts",
			failures: []error{
				ErrStoreUnavailable, ErrStoreUnavailable, ErrStoreUnavailable,
			},
			attempts:  3,
			wantCalls: 3,
			wantErr:   ErrMaxRetries,
		},
		{
			name:      "explicitly retryable error",
			failures:  []error{&RetryableError{Err: errPermanent, Retryable: true}},
			attempts:  2,
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			}, fastRetry(tt.attempts))

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithRetry_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error {
		return ErrStoreUnavailable
	}, fastRetry(5))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestUserError(t *testing.T) {
	inner := fmt.Errorf("lookup: %w", ErrNotFound)
	err := NewUserError("Category not found", inner)

	assert.Equal(t, "Category not found: lookup: not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Category not found", UserMessage(fmt.Errorf("wrapped: %w", err), "fallback"))
	assert.Equal(t, "fallback", UserMessage(ErrNotFound, "fallback"))
}

func TestParseLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "", "INFO"} {
		_, err := ParseLevel(level)
		assert.NoError(t, err, level)
	}

	_, err := ParseLevel("verbose")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
