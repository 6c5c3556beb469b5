package remote

import (
	"math/rand/v2"
	"sync"
	"time"

	"event-sync/core/events"
)

// Policy decides the delay and outcome of each remote call.
type Policy interface {
	Delay(name events.Name) time.Duration
	Reject(name events.Name) bool
}

// RandomPolicy draws a uniform delay in [0, MaxDelay) and rejects with
// probability FailureRate.
type RandomPolicy struct {
	MaxDelay    time.Duration
	FailureRate float64
}

// NewRandomPolicy builds a RandomPolicy from configuration.
func NewRandomPolicy(cfg Config) RandomPolicy {
	return RandomPolicy{MaxDelay: cfg.MaxDelay, FailureRate: cfg.FailureRate}
}

func (p RandomPolicy) Delay(events.Name) time.Duration {
	if p.MaxDelay <= 0 {
		return 0
	}
	return rand.N(p.MaxDelay)
}

func (p RandomPolicy) Reject(events.Name) bool {
	return p.FailureRate > 0 && rand.Float64() < p.FailureRate
}

// Outcome is one scripted call result.
type Outcome struct {
	Delay  time.Duration
	Reject bool
}

// ScriptedPolicy replays outcomes per name in call order. Once a name's
// script is used up, calls succeed immediately.
type ScriptedPolicy struct {
	mu      sync.Mutex
	scripts map[events.Name][]Outcome
	current map[events.Name]Outcome
}

// NewScriptedPolicy creates a policy from per-name outcome lists.
func NewScriptedPolicy(scripts map[events.Name][]Outcome) *ScriptedPolicy {
	copied := make(map[events.Name][]Outcome, len(scripts))
	for name, outcomes := range scripts {
		copied[name] = append([]Outcome(nil), outcomes...)
	}
	return &ScriptedPolicy{
		scripts: copied,
		current: make(map[events.Name]Outcome),
	}
}

// Delay pops the next outcome for name and returns its delay.
// Reject must be called after Delay for the same call.
func (p *ScriptedPolicy) Delay(name events.Name) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	var next Outcome
	if script := p.scripts[name]; len(script) > 0 {
		next = script[0]
		p.scripts[name] = script[1:]
	}
	p.current[name] = next
	return next.Delay
}

func (p *ScriptedPolicy) Reject(name events.Name) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current[name].Reject
}
