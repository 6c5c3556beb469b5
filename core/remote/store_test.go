package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"event-sync/core/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingBackend struct {
	*MemoryBackend
	err error
}

func (b *failingBackend) Add(context.Context, events.Name, int64) error {
	return b.err
}

func TestDelayedStore_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies", func(t *testing.T) {
		backend := NewMemoryBackend()
		store := NewDelayedStore(backend, NewScriptedPolicy(nil))

		require.NoError(t, store.Apply(ctx, events.NameA, 2))
		require.NoError(t, store.Apply(ctx, events.NameA, 3))

		count, err := store.Count(ctx, events.NameA)
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)
	})

	t.Run("Rejects", func(t *testing.T) {
		backend := NewMemoryBackend()
		policy := NewScriptedPolicy(map[events.Name][]Outcome{
			events.NameA: {{Reject: true}},
		})
		store := NewDelayedStore(backend, policy)

		err := store.Apply(ctx, events.NameA, 1)
		assert.ErrorIs(t, err, ErrRejected)

		count, _ := store.Count(ctx, events.NameA)
		assert.Equal(t, int64(0), count, "rejected delta must not be applied")

		require.NoError(t, store.Apply(ctx, events.NameA, 1))
		count, _ = store.Count(ctx, events.NameA)
		assert.Equal(t, int64(1), count)
	})

	t.Run("BackendError", func(t *testing.T) {
		boom := errors.New("boom")
		store := NewDelayedStore(&failingBackend{MemoryBackend: NewMemoryBackend(), err: boom}, NewScriptedPolicy(nil))

		err := store.Apply(ctx, events.NameA, 1)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrRejected)
	})

	t.Run("ContextCancelledDuringDelay", func(t *testing.T) {
		policy := NewScriptedPolicy(map[events.Name][]Outcome{
			events.NameA: {{Delay: time.Minute}},
		})
		store := NewDelayedStore(NewMemoryBackend(), policy)

		cctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()

		err := store.Apply(cctx, events.NameA, 1)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestDelayedStore_OutOfOrderCompletion(t *testing.T) {
	ctx := context.Background()
	policy := NewScriptedPolicy(map[events.Name][]Outcome{
		events.NameA: {{Delay: 50 * time.Millisecond}, {Delay: 0}},
	})
	store := NewDelayedStore(NewMemoryBackend(), policy)

	order := make(chan int, 2)
	go func() {
		_ = store.Apply(ctx, events.NameA, 1)
		order <- 1
	}()
	time.Sleep(5 * time.Millisecond)
	go func() {
		_ = store.Apply(ctx, events.NameA, 1)
		order <- 2
	}()

	assert.Equal(t, 2, <-order)
	assert.Equal(t, 1, <-order)
}

func TestRandomPolicy(t *testing.T) {
	t.Run("Bounds", func(t *testing.T) {
		p := RandomPolicy{MaxDelay: 10 * time.Millisecond}
		for i := 0; i < 100; i++ {
			d := p.Delay(events.NameA)
			assert.GreaterOrEqual(t, d, time.Duration(0))
			assert.Less(t, d, 10*time.Millisecond)
		}
	})

	t.Run("ZeroDelay", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), RandomPolicy{}.Delay(events.NameA))
	})

	t.Run("FailureRate", func(t *testing.T) {
		never := RandomPolicy{FailureRate: 0}
		always := RandomPolicy{FailureRate: 1}
		for i := 0; i < 50; i++ {
			assert.False(t, never.Reject(events.NameA))
			assert.True(t, always.Reject(events.NameA))
		}
	})

	t.Run("FromConfig", func(t *testing.T) {
		p := NewRandomPolicy(Config{MaxDelay: time.Second, FailureRate: 0.5})
		assert.Equal(t, time.Second, p.MaxDelay)
		assert.Equal(t, 0.5, p.FailureRate)
	})
}

func TestScriptedPolicy_PerName(t *testing.T) {
	policy := NewScriptedPolicy(map[events.Name][]Outcome{
		events.NameA: {{Reject: true}, {Reject: false}},
	})

	policy.Delay(events.NameA)
	assert.True(t, policy.Reject(events.NameA))

	policy.Delay(events.NameB)
	assert.False(t, policy.Reject(events.NameB))

	policy.Delay(events.NameA)
	assert.False(t, policy.Reject(events.NameA))

	policy.Delay(events.NameA)
	assert.False(t, policy.Reject(events.NameA), "exhausted script succeeds")
}

func TestMemoryBackend_Reset(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	require.NoError(t, b.Add(ctx, events.NameA, 4))
	require.NoError(t, b.Reset(ctx))

	count, err := b.Count(ctx, events.NameA)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestConfig_IsValidBackend(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		want    bool
	}{
		{"Memory", BackendMemory, true},
		{"Database", BackendDatabase, true},
		{"Invalid", "redis", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Config{Backend: tt.backend}.IsValidBackend())
		})
	}
}
