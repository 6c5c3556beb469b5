// Package propagation keeps a remote counter store in step with the local counts.
//
// Every occurrence of an event name is counted locally first, synchronously,
// and then propagated to the remote store as a delta. The remote store is slow
// and unreliable: each call has its own random delay and may be rejected.
//
// # Serialization
//
// For each name the Synchronizer keeps a FIFO backlog of unsent deltas and a
// busy flag. At most one remote call per name is outstanding at any time:
//
//  1. An occurrence appends its delta to the backlog. If the name is idle, the
//     backlog (up to MaxBatch entries) is summed into one batch and sent.
//  2. When a call succeeds and the backlog is not empty, the next batch is sent.
//  3. When a call fails, the batch goes back to the front of the backlog and is
//     resent after a backoff. The name stays busy while it waits.
//
// A delta only leaves the backlog when its call succeeds, so once the backlog
// drains the remote count equals the local count regardless of how many retries
// were needed.
//
// # Bounded retry
//
// With Retry.MaxAttempts set, a batch that keeps failing is parked instead of
// retried forever. Parked deltas are kept, the name is flagged inconsistent and
// the exhaustion hook receives an *ExhaustedError. Redrive puts parked deltas
// back into the backlog.
//
// # Usage
//
//	sync := propagation.New(counter.NewMemoryStore(), remoteStore,
//	    propagation.WithLogger(logger),
//	)
//	sync.Attach(bus, events.DefaultNames...)
//	...
//	err := sync.Wait(ctx) // quiescence
package propagation
