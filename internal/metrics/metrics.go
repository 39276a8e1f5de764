// Package metrics provides lightweight, lock-free counters and gauges
// for tracking the runtime statistics of a scan.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks probe and wave statistics for a single scan.
// A nil Collector is safe to use; all methods become no-ops.
type Collector struct {
	probesIssued   atomic.Int64
	probesOpen     atomic.Int64
	probesClosed   atomic.Int64
	probesTimedOut atomic.Int64
	inFlight       atomic.Int64
	peakInFlight   atomic.Int64
	waves          atomic.Int64

	mu        sync.RWMutex
	startTime time.Time
	endTime   time.Time
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Probe metrics ────────────────────────────────────────────────────

// ProbeStarted records a newly issued probe and updates the in-flight
// gauge and its high-water mark.
func (c *Collector) ProbeStarted() {
	if c == nil {
		return
	}
	c.probesIssued.Add(1)
	n := c.inFlight.Add(1)
	for {
		peak := c.peakInFlight.Load()
		if n <= peak || c.peakInFlight.CompareAndSwap(peak, n) {
			return
		}
	}
}

// ProbeFinished records the outcome of a probe started with
// [Collector.ProbeStarted].
func (c *Collector) ProbeFinished(open, timedOut bool) {
	if c == nil {
		return
	}
	c.inFlight.Add(-1)
	switch {
	case open:
		c.probesOpen.Add(1)
	case timedOut:
		c.probesTimedOut.Add(1)
		c.probesClosed.Add(1)
	default:
		c.probesClosed.Add(1)
	}
}

// ProbesIssued returns the number of probes started.
func (c *Collector) ProbesIssued() int64 {
	if c == nil {
		return 0
	}
	return c.probesIssued.Load()
}

// OpenCount returns the number of probes that found an open port.
func (c *Collector) OpenCount() int64 {
	if c == nil {
		return 0
	}
	return c.probesOpen.Load()
}

// ClosedCount returns the number of probes that did not connect,
// timeouts included.
func (c *Collector) ClosedCount() int64 {
	if c == nil {
		return 0
	}
	return c.probesClosed.Load()
}

// TimeoutCount returns the number of probes that lost the race to
// their timer.
func (c *Collector) TimeoutCount() int64 {
	if c == nil {
		return 0
	}
	return c.probesTimedOut.Load()
}

// InFlight returns the number of probes currently outstanding.
func (c *Collector) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}

// PeakInFlight returns the highest number of simultaneous probes seen.
func (c *Collector) PeakInFlight() int64 {
	if c == nil {
		return 0
	}
	return c.peakInFlight.Load()
}

// ── Wave metrics ─────────────────────────────────────────────────────

// WaveCompleted records a fully resolved wave.
func (c *Collector) WaveCompleted() {
	if c == nil {
		return
	}
	c.waves.Add(1)
}

// Waves returns the number of completed waves.
func (c *Collector) Waves() int64 {
	if c == nil {
		return 0
	}
	return c.waves.Load()
}

// ── Lifecycle ────────────────────────────────────────────────────────

// Finish stamps the end of the scan.  Later calls are ignored.
func (c *Collector) Finish() {
	if c == nil {
		return
	}
	c.mu.Lock()
	if c.endTime.IsZero() {
		c.endTime = time.Now()
	}
	c.mu.Unlock()
}

// Elapsed returns the scan duration so far, or the final duration once
// [Collector.Finish] has been called.
func (c *Collector) Elapsed() time.Duration {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.endTime.IsZero() {
		return time.Since(c.startTime)
	}
	return c.endTime.Sub(c.startTime)
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Elapsed        string `json:"elapsed"`
	ProbesIssued   int64  `json:"probes_issued"`
	ProbesOpen     int64  `json:"probes_open"`
	ProbesClosed   int64  `json:"probes_closed"`
	ProbesTimedOut int64  `json:"probes_timed_out"`
	InFlight       int64  `json:"in_flight"`
	PeakInFlight   int64  `json:"peak_in_flight"`
	Waves          int64  `json:"waves"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	return Snapshot{
		Elapsed:        c.Elapsed().Round(time.Millisecond).String(),
		ProbesIssued:   c.probesIssued.Load(),
		ProbesOpen:     c.probesOpen.Load(),
		ProbesClosed:   c.probesClosed.Load(),
		ProbesTimedOut: c.probesTimedOut.Load(),
		InFlight:       c.inFlight.Load(),
		PeakInFlight:   c.peakInFlight.Load(),
		Waves:          c.waves.Load(),
	}
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
