package caller

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xinsproject/servicecall/config/types"
	"github.com/xinsproject/servicecall/descriptor"
)

func TestRetryWithExponentialBackoff(t *testing.T) {
	tests := []struct {
		name           string
		maxRetries     uint
		initialDelay   time.Duration
		ctxTimeout     time.Duration
		callback       func() func() error
		expectedErrMsg string
	}{
		{
			name:         "succeeds immediately",
			maxRetries:   3,
			initialDelay: 10 * time.Millisecond,
			callback: func() func() error {
				return func() error { return nil }
			},
		},
		{
			name:         "succeeds after retries",
			maxRetries:   3,
			initialDelay: 10 * time.Millisecond,
			callback: func() func() error {
				attempts := 0
				return func() error {
					attempts++
					if attempts < 3 {
						return errors.New("temporary failure")
					}
					return nil
				}
			},
		},
		{
			name:         "fails with retryable errors",
			maxRetries:   3,
			initialDelay: 5 * time.Millisecond,
			callback: func() func() error {
				return func() error {
					return errors.New("always fails")
				}
			},
			expectedErrMsg: "operation failed after 3 attempt(s): always fails",
		},
		{
			name:         "aborts on non-retryable error",
			maxRetries:   5,
			initialDelay: 5 * time.Millisecond,
			callback: func() func() error {
				attempts := 0
				return func() error {
					attempts++
					if attempts == 2 {
						return fmt.Errorf("wrapper: %w", ErrNonRetryable)
					}
					return errors.New("transient")
				}
			},
			expectedErrMsg: "operation failed after 2 attempt(s): wrapper: non-retryable error",
		},
		{
			name:         "context cancelled before completion",
			maxRetries:   5,
			initialDelay: 100 * time.Millisecond,
			ctxTimeout:   50 * time.Millisecond,
			callback: func() func() error {
				return func() error {
					return errors.New("will timeout")
				}
			},
			expectedErrMsg: "retry cancelled after",
		},
		{
			name:           "nil callback returns error",
			maxRetries:     3,
			initialDelay:   10 * time.Millisecond,
			callback:       nil,
			expectedErrMsg: "retry callback cannot be nil",
		},
		{
			name:         "zero attempts",
			maxRetries:   0,
			initialDelay: 10 * time.Millisecond,
			callback: func() func() error {
				return func() error { return nil }
			},
			expectedErrMsg: "retry needs at least one attempt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctx context.Context
			if tt.ctxTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(context.Background(), tt.ctxTimeout)
				defer cancel()
			} else {
				ctx = context.Background()
			}

			var fn func() error
			if tt.callback != nil {
				fn = tt.callback()
			}

			err := RetryWithExponentialBackoff(ctx, tt.maxRetries, tt.initialDelay, fn)

			if tt.expectedErrMsg != "" {
				require.ErrorContains(t, err, tt.expectedErrMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDoCallWithRetry(t *testing.T) {
	target, err := descriptor.NewTargetDescriptor("http://a/", 0)
	require.NoError(t, err)

	rounds := 0
	sc, err := NewServiceCaller(target, TargetCallerFunc(
		func(context.Context, *descriptor.TargetDescriptor, any) (any, error) {
			rounds++
			if rounds < 3 {
				return nil, errors.New("warming up")
			}
			return "ready", nil
		}))
	require.NoError(t, err)

	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: types.NewDuration(time.Millisecond)}
	result, err := sc.DoCallWithRetry(context.Background(), nil, cfg)
	require.NoError(t, err)
	require.Equal(t, "ready", result.Result)
	require.Equal(t, 3, rounds)

	rounds = -10
	_, err = sc.DoCallWithRetry(context.Background(), nil, cfg)
	var callErr *CallFailedError
	require.ErrorAs(t, err, &callErr)
	require.ErrorContains(t, err, "operation failed after 3 attempt(s)")

	_, err = sc.DoCallWithRetry(context.Background(), nil, RetryConfig{})
	require.ErrorContains(t, err, "MaxAttempts must be greater than zero")
}

func TestRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "RetryConfig{MaxAttempts: 3, InitialDelay: 200ms}", cfg.String())

	cfg.InitialDelay = types.NewDuration(-time.Second)
	require.ErrorContains(t, cfg.Validate(), "must not be negative")
}
