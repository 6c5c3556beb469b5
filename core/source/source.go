package source

import (
	"context"
	"math/rand/v2"
	"time"

	"event-sync/core/events"

	"golang.org/x/sync/errgroup"
)

// Emitter emits one occurrence of a name.
type Emitter interface {
	Emit(name events.Name)
}

// Config holds configuration for the occurrence generator.
type Config struct {
	// Names are the event names to emit.
	Names []string `mapstructure:"names" default:"A,B"`
	// Events is the number of occurrences emitted per name.
	Events int `mapstructure:"events" default:"1000"`
	// MaxInterval bounds the random wait before each occurrence.
	MaxInterval time.Duration `mapstructure:"max_interval" default:"5ms"`
	// Grace is how long to wait for convergence after the last occurrence.
	Grace time.Duration `mapstructure:"grace" default:"20s"`
	// PollInterval is how often convergence is checked during the grace period.
	PollInterval time.Duration `mapstructure:"poll_interval" default:"100ms"`
}

// EventNames returns the configured names, or events.DefaultNames when none are set.
func (c Config) EventNames() []events.Name {
	names := events.ParseNames(c.Names)
	if len(names) == 0 {
		return events.DefaultNames
	}
	return names
}

// Trigger calls fn n times, each after a random delay in [0, maxInterval).
// It returns ctx.Err() if ctx is cancelled first.
func Trigger(ctx context.Context, n int, maxInterval time.Duration, fn func()) error {
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if maxInterval > 0 {
			timer.Reset(rand.N(maxInterval))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}

		fn()
	}
	return nil
}

// Burst emits n occurrences of every name on e, one goroutine per name.
func Burst(ctx context.Context, e Emitter, names []events.Name, n int, maxInterval time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		name := name
		g.Go(func() error {
			return Trigger(ctx, n, maxInterval, func() { e.Emit(name) })
		})
	}
	return g.Wait()
}
