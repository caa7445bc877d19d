package caller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xinsproject/servicecall/config/types"
)

var (
	ErrNonRetryable = errors.New("non-retryable error")
)

const (
	operationFailedTemplate = "operation failed after %d attempt(s): %w"

	defaultRetryAttempts     = 3
	defaultRetryInitialDelay = 200 * time.Millisecond
)

// RetryConfig configures DoCallWithRetry
type RetryConfig struct {
	// MaxAttempts is the number of complete fail-over rounds, at least 1
	MaxAttempts uint `mapstructure:"MaxAttempts"`
	// InitialDelay is the wait before the second round, doubled for every further round
	InitialDelay types.Duration `mapstructure:"InitialDelay"`
}

// DefaultRetryConfig returns the retry settings used when none are configured
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  defaultRetryAttempts,
		InitialDelay: types.NewDuration(defaultRetryInitialDelay),
	}
}

// Validate checks the retry settings
func (c RetryConfig) Validate() error {
	if c.MaxAttempts == 0 {
		return errors.New("retry MaxAttempts must be greater than zero")
	}
	if c.InitialDelay.Duration < 0 {
		return fmt.Errorf("retry InitialDelay must not be negative, got %s", c.InitialDelay)
	}
	return nil
}

func (c RetryConfig) String() string {
	return fmt.Sprintf("RetryConfig{MaxAttempts: %d, InitialDelay: %s}", c.MaxAttempts, c.InitialDelay)
}

// DoCallWithRetry repeats DoCall with exponential backoff until a round succeeds,
// the attempts are exhausted or ctx ends. The returned error wraps the
// *CallFailedError of the last round.
func (c *ServiceCaller) DoCallWithRetry(ctx context.Context, subject any, cfg RetryConfig) (*CallResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var result *CallResult
	err := RetryWithExponentialBackoff(ctx, cfg.MaxAttempts, cfg.InitialDelay.Duration, func() error {
		r, err := c.DoCall(ctx, subject)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("%w: %w", ErrNonRetryable, err)
			}
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RetryWithExponentialBackoff retries the given function up to maxRetries with exponential backoff.
// Use `context.Canceled` or `context.DeadlineExceeded` to cancel early.
// Wrap return with `fmt.Errorf("%w: your error", ErrNonRetryable)` to avoid retries.
func RetryWithExponentialBackoff(ctx context.Context, maxRetries uint,
	initialDelay time.Duration, callback func() error) error {
	if callback == nil {
		return errors.New("retry callback cannot be nil")
	}
	if maxRetries == 0 {
		return errors.New("retry needs at least one attempt")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	delay := initialDelay
	var lastErr error

	for attempt := uint(0); attempt < maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled after %d attempt(s): %w", attempt, ctx.Err())
		default:
		}

		err := callback()
		if err == nil {
			return nil
		}
		lastErr = err

		// Exit early if the error is marked non-retryable
		if errors.Is(err, ErrNonRetryable) {
			return fmt.Errorf(operationFailedTemplate, attempt+1, err)
		}

		if attempt < maxRetries-1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("retry cancelled after %d attempt(s): %w", attempt+1, ctx.Err())
			case <-timer.C:
			}
			delay *= 2
		}
	}

	return fmt.Errorf(operationFailedTemplate, maxRetries, lastErr)
}
