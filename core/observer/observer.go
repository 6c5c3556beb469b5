package observer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"event-sync/core/events"
	"event-sync/core/remote"

	"go.uber.org/zap"
)

// EmitCounter reports how many times a name was emitted.
type EmitCounter interface {
	Emitted(name events.Name) int64
}

// LocalCounter reports the local count of a name.
type LocalCounter interface {
	Count(name events.Name) int64
}

// Result compares the counts of one event name.
type Result struct {
	Name      events.Name `json:"name"`
	Emitted   int64       `json:"emitted"`
	Local     int64       `json:"local"`
	Remote    int64       `json:"remote"`
	Converged bool        `json:"converged"`
}

// Report holds one Result per observed name.
type Report struct {
	Results   []Result  `json:"results"`
	Converged bool      `json:"converged"`
	CreatedAt time.Time `json:"created_at"`
}

// Result returns the result for name.
func (r Report) Result(name events.Name) (Result, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return Result{}, false
}

// JSON encodes the report.
func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Log writes one line per name.
func (r Report) Log(logger *zap.Logger) {
	for _, res := range r.Results {
		fields := []zap.Field{
			zap.String("event", string(res.Name)),
			zap.Int64("emitted", res.Emitted),
			zap.Int64("local", res.Local),
			zap.Int64("remote", res.Remote),
		}
		if res.Converged {
			logger.Info("Counts match", fields...)
		} else {
			logger.Warn("Counts differ", fields...)
		}
	}
}

// Observer collects counts from the three sources.
type Observer struct {
	emitted EmitCounter
	local   LocalCounter
	remote  remote.Store
	names   []events.Name
}

// New creates an Observer for names.
func New(emitted EmitCounter, local LocalCounter, rs remote.Store, names []events.Name) *Observer {
	return &Observer{
		emitted: emitted,
		local:   local,
		remote:  rs,
		names:   names,
	}
}

// Names returns the observed names.
func (o *Observer) Names() []events.Name {
	return o.names
}

// Collect reads the current counts of every name.
func (o *Observer) Collect(ctx context.Context) (Report, error) {
	report := Report{
		Results:   make([]Result, 0, len(o.names)),
		Converged: true,
		CreatedAt: time.Now().UTC(),
	}

	for _, name := range o.names {
		res, err := o.collectOne(ctx, name)
		if err != nil {
			return Report{}, err
		}
		report.Results = append(report.Results, res)
		report.Converged = report.Converged && res.Converged
	}
	return report, nil
}

// CollectOne reads the current counts of one name.
func (o *Observer) CollectOne(ctx context.Context, name events.Name) (Result, error) {
	return o.collectOne(ctx, name)
}

func (o *Observer) collectOne(ctx context.Context, name events.Name) (Result, error) {
	rc, err := o.remote.Count(ctx, name)
	if err != nil {
		return Result{}, fmt.Errorf("read remote count of %s: %w", name, err)
	}

	res := Result{
		Name:    name,
		Emitted: o.emitted.Emitted(name),
		Local:   o.local.Count(name),
		Remote:  rc,
	}
	res.Converged = res.Emitted == res.Local && res.Local == res.Remote
	return res, nil
}

// Await polls every poll until all names converge or grace elapses, and returns
// the last report. It only returns an error when counts cannot be read or ctx
// is cancelled.
func (o *Observer) Await(ctx context.Context, grace, poll time.Duration) (Report, error) {
	if poll <= 0 {
		poll = 100 * time.Millisecond
	}

	deadline := time.NewTimer(grace)
	defer deadline.Stop()
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		report, err := o.Collect(ctx)
		if err != nil {
			return Report{}, err
		}
		if report.Converged {
			return report, nil
		}

		select {
		case <-ctx.Done():
			return report, ctx.Err()
		case <-deadline.C:
			return o.Collect(ctx)
		case <-ticker.C:
		}
	}
}
