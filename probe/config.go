package probe

import (
	"errors"
	"fmt"
	"time"

	"github.com/xinsproject/servicecall/config/types"
)

// Config is the configuration of the probe command
type Config struct {
	// DialTimeout bounds each TCP dial, on top of the timeout of the target
	DialTimeout types.Duration `mapstructure:"DialTimeout"`
	// Attempts is the default number of calls made by the probe command
	Attempts int `mapstructure:"Attempts"`
	// Concurrency is the number of calls running at the same time
	Concurrency int `mapstructure:"Concurrency"`
	// RateLimit bounds how many calls are started per interval
	RateLimit RateLimitConfig `mapstructure:"RateLimit"`
}

func DefaultConfig() Config {
	return Config{
		DialTimeout: types.NewDuration(3 * time.Second),
		Attempts:    1,
		Concurrency: 1,
	}
}

func (c Config) Validate() error {
	if c.DialTimeout.Duration <= 0 {
		return errors.New("probe DialTimeout must be positive")
	}
	if c.Attempts < 1 {
		return fmt.Errorf("probe Attempts must be at least 1, got %d", c.Attempts)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("probe Concurrency must be at least 1, got %d", c.Concurrency)
	}
	return nil
}
