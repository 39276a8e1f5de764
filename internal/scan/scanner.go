package scan

import (
	"context"
	"iter"
	"time"

	"golang.org/x/sync/errgroup"

	"tcpsweep/internal/metrics"
)

// Scanner turns a host list and a port list into a lazy event stream.
// The stream is produced on demand by the consumer's range loop and can
// be walked once per call to Events.
type Scanner interface {
	Events(ctx context.Context, hosts []string, ports PortSource) iter.Seq[Event]
}

// Run drives s to completion, handing every event to sink.  It returns
// ctx.Err() if the scan was cut short by cancellation.
func Run(ctx context.Context, s Scanner, hosts []string, ports PortSource, sink Sink) error {
	for ev := range s.Events(ctx, hosts, ports) {
		sink.Emit(ev)
	}
	return ctx.Err()
}

// ── Sequential ───────────────────────────────────────────────────────

// Sequential probes one target at a time, in work-list order.  There
// is never more than one connection outstanding.
type Sequential struct {
	Prober Prober
}

// Events yields EventStart, then for every host an EventHost followed
// by an EventProbe/EventPort pair per port, then EventDone.  Probe N+1
// is issued only after probe N's result has been yielded.
func (s *Sequential) Events(ctx context.Context, hosts []string, ports PortSource) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		if !yield(Event{Kind: EventStart, Total: WorkListLen(hosts, ports), Pool: 1}) {
			return
		}
		if s.walk(ctx, hosts, ports, yield) {
			yield(Event{Kind: EventDone})
		}
	}
}

// walk reports false if the consumer stopped early.
func (s *Sequential) walk(ctx context.Context, hosts []string, ports PortSource, yield func(Event) bool) bool {
	for _, h := range hosts {
		if ctx.Err() != nil {
			return true
		}
		if !yield(Event{Kind: EventHost, Host: h}) {
			return false
		}
		for p := range ports.All() {
			if ctx.Err() != nil {
				return true
			}
			t := Target{Host: h, Port: p}
			if !yield(Event{Kind: EventProbe, Target: t}) {
				return false
			}
			if !yield(Event{Kind: EventPort, Result: s.Prober.Probe(ctx, t)}) {
				return false
			}
		}
	}
	return true
}

// ── Concurrent ───────────────────────────────────────────────────────

// Concurrent splits the work list into waves of PoolSize targets and
// probes each wave in parallel.  A wave starts only after every probe
// of the previous wave has resolved, so at most PoolSize probes are
// ever in flight.  Only open targets are reported.
type Concurrent struct {
	Prober   Prober
	PoolSize int // values below 1 behave as 1
	Metrics  *metrics.Collector
}

// Events yields EventStart, then per wave an EventOpen for each open
// target (in completion order) followed by EventWave, then EventDone.
func (c *Concurrent) Events(ctx context.Context, hosts []string, ports PortSource) iter.Seq[Event] {
	pool := max(c.PoolSize, 1)
	return func(yield func(Event) bool) {
		if !yield(Event{Kind: EventStart, Total: WorkListLen(hosts, ports), Pool: pool}) {
			return
		}

		index := 0
		for wave := range Waves(WorkList(hosts, ports.All()), pool) {
			if ctx.Err() != nil {
				break
			}
			info, ok := c.runWave(ctx, index, wave, yield)
			if !ok {
				return
			}
			c.Metrics.WaveCompleted()
			if !yield(Event{Kind: EventWave, Wave: info}) {
				return
			}
			index++
		}
		yield(Event{Kind: EventDone})
	}
}

// runWave launches every probe of wave at once and returns when all of
// them have resolved, even if the consumer stops early; ok is false in
// that case.
func (c *Concurrent) runWave(ctx context.Context, index int, wave []Target, yield func(Event) bool) (info WaveInfo, ok bool) {
	start := time.Now()
	results := make(chan Result, len(wave))

	var g errgroup.Group
	g.SetLimit(len(wave))
	for _, t := range wave {
		g.Go(func() error {
			results <- c.Prober.Probe(ctx, t)
			return nil
		})
	}
	go func() {
		g.Wait() //nolint:errcheck // probes never fail the group
		close(results)
	}()

	info = WaveInfo{Index: index, Size: len(wave)}
	ok = true
	for r := range results {
		if !r.Open {
			continue
		}
		info.Open++
		if ok && !yield(Event{Kind: EventOpen, Result: r}) {
			ok = false
		}
	}
	info.Elapsed = time.Since(start)
	return info, ok
}
