package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/xinsproject/servicecall/config/types"
	"github.com/xinsproject/servicecall/log"
)

var (
	TimeProvider = time.Now
)

type RateLimitConfig struct {
	NumRequests int            `mapstructure:"NumRequests"`
	Interval    types.Duration `mapstructure:"Interval"`
}

func NewRateLimitConfig(numRequests int, period time.Duration) RateLimitConfig {
	return RateLimitConfig{
		NumRequests: numRequests,
		Interval:    types.Duration{Duration: period},
	}
}

func (r RateLimitConfig) String() string {
	if !r.Enabled() {
		return "RateLimitConfig{Unlimited}"
	}
	return fmt.Sprintf("RateLimitConfig{NumRequests: %d, Period: %s}", r.NumRequests, r.Interval)
}

func (r RateLimitConfig) Enabled() bool {
	return r.NumRequests > 0 && r.Interval.Duration > 0
}

// RateLimit is a sliding window limiter. It is not safe for concurrent use.
type RateLimit struct {
	cfg RateLimitConfig
	// Calls realized in the current period
	bucket []time.Time
}

func NewRateLimit(cfg RateLimitConfig) RateLimit {
	return RateLimit{
		cfg: cfg,
	}
}

func (r *RateLimit) String() string {
	if r == nil {
		return "RateLimit{nil}"
	}
	return fmt.Sprintf("RateLimit{cfg: %s, bucket len: %v}", r.cfg, len(r.bucket))
}

// Call registers a call. When the limit is reached it sleeps until the window
// frees a slot if allowToSleep, otherwise the call is not registered. In both
// cases the time to wait is returned, nil when the call was not limited.
func (r *RateLimit) Call(msg string, allowToSleep bool) *time.Duration {
	if r == nil || !r.cfg.Enabled() {
		return nil
	}
	var returnSleepTime *time.Duration
	now := TimeProvider()
	r.cleanOutdatedCalls(now)
	if len(r.bucket) >= r.cfg.NumRequests {
		sleepTime := r.cfg.Interval.Duration - TimeProvider().Sub(r.bucket[0])
		if !allowToSleep {
			return &sleepTime
		}
		if msg != "" {
			log.Debugf("Rate limit reached, sleeping for %s for %s", sleepTime, msg)
		}
		time.Sleep(sleepTime)
		returnSleepTime = &sleepTime
		now = TimeProvider()
	}
	r.bucket = append(r.bucket, now)
	return returnSleepTime
}

// Wait registers a call, waiting for a free slot of the window until ctx is done
func (r *RateLimit) Wait(ctx context.Context, msg string) error {
	for {
		sleepTime := r.Call(msg, false)
		if sleepTime == nil {
			return nil
		}
		log.Debugf("Rate limit reached, waiting %s for %s", *sleepTime, msg)
		timer := time.NewTimer(*sleepTime)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *RateLimit) cleanOutdatedCalls(now time.Time) {
	for i, call := range r.bucket {
		diff := now.Sub(call)
		if diff < r.cfg.Interval.Duration {
			r.bucket = r.bucket[i:]
			return
		}
	}
	r.bucket = []time.Time{}
}
