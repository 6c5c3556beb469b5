// Package remote implements the delayed, unreliable remote counter store.
//
// Every Apply call waits for a policy-chosen delay and is then either applied
// to the backend or rejected with ErrRejected. Calls are independent: two
// concurrent calls for the same name may complete in either order.
//
// # Policies
//
//   - RandomPolicy: uniform delay in [0, MaxDelay) and a fixed rejection probability.
//   - ScriptedPolicy: a per-name list of outcomes, for deterministic tests.
//
// # Backends
//
//   - MemoryBackend: in-process map.
//   - GormBackend: an event_stats table in MySQL or SQLite.
//
// # Usage
//
//	store := remote.NewDelayedStore(remote.NewMemoryBackend(), remote.RandomPolicy{
//	    MaxDelay:    100 * time.Millisecond,
//	    FailureRate: 0.2,
//	})
//	err := store.Apply(ctx, events.NameA, 1)
package remote
