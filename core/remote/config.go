package remote

import "time"

const (
	BackendMemory   = "memory"
	BackendDatabase = "database"
)

// Config holds configuration for the simulated remote store.
type Config struct {
	// MaxDelay is the upper bound of the random delay applied to every call.
	MaxDelay time.Duration `mapstructure:"max_delay" default:"100ms"`
	// FailureRate is the probability (0-1) that a call is rejected.
	FailureRate float64 `mapstructure:"failure_rate" default:"0.2"`
	// Backend selects where remote counts live (memory, database).
	Backend string `mapstructure:"backend" default:"memory"`
}

// IsValidBackend checks if the configured backend is supported.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendMemory, BackendDatabase:
		return true
	default:
		return false
	}
}
