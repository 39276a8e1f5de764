package scan

import (
	"sync"
	"time"
)

// EventKind identifies what an Event reports.
type EventKind int

const (
	// EventStart opens every scan.  Total and Pool are set.
	EventStart EventKind = iota
	// EventHost announces the next host (sequential scans only).
	EventHost
	// EventProbe is sent just before a sequential probe is issued.
	EventProbe
	// EventPort carries every sequential result, open or not.
	EventPort
	// EventOpen carries an open target found by a concurrent scan.
	EventOpen
	// EventWave reports a fully resolved concurrent wave.
	EventWave
	// EventDone closes every scan, including interrupted ones.
	EventDone
)

var kindNames = [...]string{"start", "host", "probe", "port", "open", "wave", "done"}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// WaveInfo describes one completed wave.
type WaveInfo struct {
	Index   int // zero-based
	Size    int // probes in the wave
	Open    int // open targets found
	Elapsed time.Duration
}

// Event is one step of a scan.
type Event struct {
	Kind   EventKind
	Host   string   // EventHost
	Target Target   // EventProbe
	Result Result   // EventPort, EventOpen
	Wave   WaveInfo // EventWave
	Total  int      // EventStart: length of the work list
	Pool   int      // EventStart: effective pool size
}

// Sink consumes scan events.  Scanners call Emit from a single
// goroutine, so implementations need no locking of their own.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Emit calls f(ev).
func (f SinkFunc) Emit(ev Event) { f(ev) }

// Discard is a Sink that drops everything.
var Discard Sink = SinkFunc(func(Event) {})

// Recorder is a Sink that keeps every event.  It is safe to read while
// a scan is still running.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit appends ev.
func (r *Recorder) Emit(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Of returns the recorded events of the given kind, in order.
func (r *Recorder) Of(kind EventKind) []Event {
	var out []Event
	for _, ev := range r.Events() {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}
