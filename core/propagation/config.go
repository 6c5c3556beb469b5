package propagation

import (
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig configures how rejected batches are retried.
type RetryConfig struct {
	// MaxAttempts is the number of attempts before a batch is parked.
	// Zero retries forever.
	MaxAttempts int `mapstructure:"max_attempts" default:"0"`
	// InitialBackoff is the wait before the first retry. Zero retries immediately.
	InitialBackoff time.Duration `mapstructure:"initial_backoff" default:"10ms"`
	// MaxBackoff caps the wait between retries. Zero or less uses DefaultMaxBackoff.
	MaxBackoff time.Duration `mapstructure:"max_backoff" default:"1s"`
	// BackoffFactor multiplies the wait after each failed attempt.
	BackoffFactor float64 `mapstructure:"backoff_factor" default:"2"`
	// Jitter is the random jitter factor (0.0-1.0).
	Jitter float64 `mapstructure:"jitter" default:"0.1"`
}

// Config holds configuration for the synchronizer.
type Config struct {
	// MaxBatch limits how many backlog entries are summed into one call.
	// Zero sends the whole backlog.
	MaxBatch int `mapstructure:"max_batch" default:"0"`
	// Retry is the retry policy for rejected calls.
	Retry RetryConfig `mapstructure:"retry"`
}

// DefaultMaxBackoff caps retries when MaxBackoff is not positive.
const DefaultMaxBackoff = time.Second

// DefaultConfig retries forever with a short exponential backoff.
var DefaultConfig = Config{
	Retry: RetryConfig{
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     DefaultMaxBackoff,
		BackoffFactor:  2.0,
		Jitter:         0.1,
	},
}

// Bounded reports whether batches can be parked.
func (c RetryConfig) Bounded() bool {
	return c.MaxAttempts > 0
}

// Exhausted reports whether a batch that has failed attempts times must be parked.
func (c RetryConfig) Exhausted(attempts int) bool {
	return c.Bounded() && attempts >= c.MaxAttempts
}

// Backoff returns the wait before retry number attempts (1 for the first retry).
func (c RetryConfig) Backoff(attempts int) time.Duration {
	if c.InitialBackoff <= 0 || attempts <= 0 {
		return 0
	}

	factor := c.BackoffFactor
	if factor < 1 {
		factor = 1
	}

	maxBackoff := c.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = DefaultMaxBackoff
	}
	if c.InitialBackoff >= maxBackoff {
		return applyJitter(maxBackoff, c.Jitter)
	}

	// Compare in float64 so large attempt counts cannot overflow time.Duration.
	backoff := float64(c.InitialBackoff) * math.Pow(factor, float64(attempts-1))
	if math.IsInf(backoff, 0) || math.IsNaN(backoff) || backoff >= float64(maxBackoff) {
		return applyJitter(maxBackoff, c.Jitter)
	}

	return applyJitter(time.Duration(backoff), c.Jitter)
}

// applyJitter returns base +/- (base * jitter * random).
func applyJitter(base time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return base
	}
	if jitter > 1 {
		jitter = 1
	}
	jittered := float64(base) + float64(base)*jitter*(rand.Float64()*2-1)
	if jittered >= math.MaxInt64 {
		return base
	}
	return time.Duration(jittered)
}
