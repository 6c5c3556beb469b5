package propagation

import (
	"context"
	"sort"
	"sync"
	"time"

	"event-sync/core/counter"
	"event-sync/core/events"
	"event-sync/core/metrics"
	"event-sync/core/remote"

	"go.uber.org/zap"
)

// Subscriber registers one callback per event name.
type Subscriber interface {
	Subscribe(name events.Name, fn events.Callback)
}

// batch is a summed group of backlog deltas and the attempts already spent on it.
type batch struct {
	delta    int64
	attempts int
}

// ParkedBatch is a batch held back after exhausting its retries.
type ParkedBatch struct {
	Delta    int64     `json:"delta"`
	Attempts int       `json:"attempts"`
	Error    string    `json:"error"`
	ParkedAt time.Time `json:"parked_at"`
}

// nameState is the propagation state of one event name. Guarded by Synchronizer.mu.
type nameState struct {
	backlog  []batch
	busy     bool
	inFlight *batch
	timer    *time.Timer
	parked   []ParkedBatch

	inconsistent bool
	dispatched   int64
	rejections   int64
	applied      int64
}

// State is a point-in-time view of one name's propagation state.
type State struct {
	Name         events.Name   `json:"name"`
	Local        int64         `json:"local"`
	Busy         bool          `json:"busy"`
	InFlight     int64         `json:"in_flight"`
	BackingOff   bool          `json:"backing_off"`
	Backlog      int64         `json:"backlog"`
	BacklogLen   int           `json:"backlog_len"`
	Attempts     int           `json:"attempts"`
	Applied      int64         `json:"applied"`
	Dispatched   int64         `json:"dispatched"`
	Rejections   int64         `json:"rejections"`
	Parked       []ParkedBatch `json:"parked"`
	Inconsistent bool          `json:"inconsistent"`
}

// Synchronizer counts occurrences locally and propagates them to a remote store,
// one call per name at a time.
type Synchronizer struct {
	local  counter.Store
	remote remote.Store

	cfg         Config
	logger      *zap.Logger
	metrics     metrics.Recorder
	onExhausted func(err *ExhaustedError)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	states map[events.Name]*nameState
	active int           // names with a call in flight or waiting to retry
	idle   chan struct{} // closed while active == 0
	closed bool
}

// New creates a Synchronizer that owns local and propagates to rs.
func New(local counter.Store, rs remote.Store, opts ...Option) *Synchronizer {
	ctx, cancel := context.WithCancel(context.Background())
	idle := make(chan struct{})
	close(idle)

	s := &Synchronizer{
		local:   local,
		remote:  rs,
		cfg:     DefaultConfig,
		logger:  zap.NewNop(),
		metrics: metrics.Noop{},
		ctx:     ctx,
		cancel:  cancel,
		states:  make(map[events.Name]*nameState),
		idle:    idle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach subscribes the synchronizer to every name on sub.
func (s *Synchronizer) Attach(sub Subscriber, names ...events.Name) {
	for _, name := range names {
		name := name
		sub.Subscribe(name, func() {
			if _, err := s.Record(name); err != nil {
				s.logger.Warn("Occurrence not recorded", zap.String("event", string(name)), zap.Error(err))
			}
		})
	}
}

// Record counts one occurrence of name and returns the new local count.
func (s *Synchronizer) Record(name events.Name) (int64, error) {
	return s.RecordDelta(name, 1)
}

// RecordDelta adds delta to the local count of name, queues it for the remote
// store and returns the new local count. It never waits on the remote store.
func (s *Synchronizer) RecordDelta(name events.Name, delta int64) (int64, error) {
	if delta <= 0 {
		return 0, ErrInvalidDelta
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	st := s.stateLocked(name)

	count := s.local.Get(name) + delta
	s.local.Set(name, count)

	st.backlog = append(st.backlog, batch{delta: delta})
	if !st.busy {
		s.dispatchLocked(name, st)
	}

	return count, nil
}

// Count returns the local count for name.
func (s *Synchronizer) Count(name events.Name) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local.Get(name)
}

// Names returns every name recorded so far, sorted.
func (s *Synchronizer) Names() []events.Name {
	s.mu.Lock()
	names := make([]events.Name, 0, len(s.states))
	for name := range s.states {
		names = append(names, name)
	}
	s.mu.Unlock()

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Snapshot returns the propagation state of name.
func (s *Synchronizer) Snapshot(name events.Name) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{Name: name, Local: s.local.Get(name)}
	st, ok := s.states[name]
	if !ok {
		return state
	}

	state.Busy = st.busy
	state.BackingOff = st.timer != nil
	if st.inFlight != nil {
		state.InFlight = st.inFlight.delta
		state.Attempts = st.inFlight.attempts
	} else if st.timer != nil && len(st.backlog) > 0 {
		state.Attempts = st.backlog[0].attempts
	}
	for _, b := range st.backlog {
		state.Backlog += b.delta
	}
	state.BacklogLen = len(st.backlog)
	state.Applied = st.applied
	state.Dispatched = st.dispatched
	state.Rejections = st.rejections
	state.Parked = append([]ParkedBatch(nil), st.parked...)
	state.Inconsistent = st.inconsistent
	return state
}

// Inconsistent returns the names with parked deltas.
func (s *Synchronizer) Inconsistent() []events.Name {
	s.mu.Lock()
	var names []events.Name
	for name, st := range s.states {
		if st.inconsistent {
			names = append(names, name)
		}
	}
	s.mu.Unlock()

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Redrive moves parked deltas of name back to the front of its backlog and
// returns their sum.
func (s *Synchronizer) Redrive(name events.Name) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[name]
	if !ok || len(st.parked) == 0 {
		return 0
	}

	var total int64
	requeued := make([]batch, 0, len(st.parked)+len(st.backlog))
	for _, p := range st.parked {
		total += p.Delta
		requeued = append(requeued, batch{delta: p.Delta})
	}
	st.backlog = append(requeued, st.backlog...)
	st.parked = nil
	st.inconsistent = false

	s.logger.Info("Redriving parked deltas", zap.String("event", string(name)), zap.Int64("delta", total))

	if !st.busy && !s.closed {
		s.dispatchLocked(name, st)
	}
	return total
}

// Wait blocks until no name has a call in flight or a retry pending.
func (s *Synchronizer) Wait(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-idle:
		return nil
	}
}

// Idle reports whether nothing is in flight or waiting to retry.
func (s *Synchronizer) Idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active == 0
}

// Close stops propagation. In-flight calls are cancelled and their batches
// return to the backlog; pending retries are dropped from the schedule but
// their deltas stay in the backlog. Close waits for in-flight calls to return.
func (s *Synchronizer) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for _, st := range s.states {
		if st.timer != nil && st.timer.Stop() {
			st.timer = nil
			s.markIdleLocked(st)
		}
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	return nil
}

func (s *Synchronizer) stateLocked(name events.Name) *nameState {
	st, ok := s.states[name]
	if !ok {
		st = &nameState{}
		s.states[name] = st
	}
	return st
}

func (s *Synchronizer) markBusyLocked(st *nameState) {
	if st.busy {
		return
	}
	st.busy = true
	s.active++
	if s.active == 1 {
		s.idle = make(chan struct{})
	}
}

func (s *Synchronizer) markIdleLocked(st *nameState) {
	if !st.busy {
		return
	}
	st.busy = false
	s.active--
	if s.active == 0 {
		close(s.idle)
	}
}

// dispatchLocked sums the head of the backlog into one batch and sends it.
func (s *Synchronizer) dispatchLocked(name events.Name, st *nameState) {
	n := len(st.backlog)
	if n == 0 {
		s.markIdleLocked(st)
		return
	}
	if s.cfg.MaxBatch > 0 && n > s.cfg.MaxBatch {
		n = s.cfg.MaxBatch
	}

	// With bounded retry a batch only merges entries that spent as many
	// attempts as the head, so fresh deltas keep their full retry budget.
	head := st.backlog[0].attempts
	b := batch{attempts: head}
	taken := 0
	for _, queued := range st.backlog[:n] {
		if s.cfg.Retry.Bounded() && queued.attempts != head {
			break
		}
		b.delta += queued.delta
		if queued.attempts > b.attempts {
			b.attempts = queued.attempts
		}
		taken++
	}
	st.backlog = append([]batch(nil), st.backlog[taken:]...)

	st.inFlight = &b
	st.dispatched++
	s.markBusyLocked(st)

	s.wg.Add(1)
	go s.propagate(name, b)
}

// propagate performs one remote call outside the lock.
func (s *Synchronizer) propagate(name events.Name, b batch) {
	defer s.wg.Done()

	s.metrics.RecordDispatch(s.ctx, string(name), b.delta)

	start := time.Now()
	err := s.remote.Apply(s.ctx, name, b.delta)
	if err == nil || s.ctx.Err() == nil {
		// Calls cut short by Close are not outcomes of the remote store.
		s.metrics.RecordApply(s.ctx, string(name), time.Since(start), err)
	}

	s.complete(name, b, err)
}

// complete handles the outcome of a remote call.
func (s *Synchronizer) complete(name events.Name, b batch, err error) {
	var exhausted *ExhaustedError

	s.mu.Lock()
	st := s.states[name]
	st.inFlight = nil

	if err == nil {
		st.applied += b.delta
		s.nextLocked(name, st)
		s.mu.Unlock()
		return
	}

	if s.closed {
		// Cancelled by Close: the batch goes back unchanged.
		st.backlog = append([]batch{b}, st.backlog...)
		s.markIdleLocked(st)
		s.mu.Unlock()
		return
	}

	st.rejections++
	b.attempts++
	log := s.logger.With(
		zap.String("event", string(name)),
		zap.Int64("delta", b.delta),
		zap.Int("attempt", b.attempts),
		zap.Error(err),
	)

	switch {
	case s.cfg.Retry.Exhausted(b.attempts):
		st.parked = append(st.parked, ParkedBatch{
			Delta:    b.delta,
			Attempts: b.attempts,
			Error:    err.Error(),
			ParkedAt: time.Now(),
		})
		st.inconsistent = true
		exhausted = &ExhaustedError{Name: name, Delta: b.delta, Attempts: b.attempts, Err: err}
		s.metrics.RecordParked(s.ctx, string(name), b.delta)
		log.Error("Propagation exhausted, count may be inconsistent")
		s.nextLocked(name, st)

	default:
		st.backlog = append([]batch{b}, st.backlog...)
		backoff := s.cfg.Retry.Backoff(b.attempts)
		log.Debug("Propagation rejected, retrying", zap.Duration("backoff", backoff))
		if backoff <= 0 {
			s.dispatchLocked(name, st)
		} else {
			st.timer = time.AfterFunc(backoff, func() { s.retry(name) })
		}
	}
	s.mu.Unlock()

	if exhausted != nil && s.onExhausted != nil {
		s.onExhausted(exhausted)
	}
}

// nextLocked sends the next batch, or marks the name idle when nothing is left.
func (s *Synchronizer) nextLocked(name events.Name, st *nameState) {
	if s.closed || len(st.backlog) == 0 {
		s.markIdleLocked(st)
		return
	}
	s.dispatchLocked(name, st)
}

// retry fires after a backoff.
func (s *Synchronizer) retry(name events.Name) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.states[name]
	st.timer = nil
	if s.closed {
		s.markIdleLocked(st)
		return
	}
	s.dispatchLocked(name, st)
}
