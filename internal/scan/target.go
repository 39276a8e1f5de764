// Package scan is the probing engine: a bounded-time TCP connect probe,
// the ordered host×port work list, and two schedulers that drive probes
// over it: one strictly sequential, one in fixed-size concurrent waves.
//
// Scanners do not print anything.  They produce a stream of [Event]
// values that a [Sink] turns into output.
package scan

import (
	"iter"

	ncerr "tcpsweep/internal/errors"
	"tcpsweep/util"
)

// Target is a single (host, port) pair to probe.
type Target struct {
	Host string
	Port int
}

// Addr returns the dialable "host:port" form.
func (t Target) Addr() string { return util.FormatAddr(t.Host, t.Port) }

func (t Target) String() string { return t.Addr() }

// Result is the outcome of probing one Target.
type Result struct {
	Target
	Open bool
	// Err is why the target was not open.  It is informational only:
	// scanners never branch on it.
	Err error
}

// Reason classifies Err for diagnostics.
func (r Result) Reason() ncerr.Reason { return ncerr.Classify(r.Err) }

// PortSource is an ordered, restartable list of ports.
// config.PortSet satisfies it.
type PortSource interface {
	All() iter.Seq[int]
	Len() int
}

// PortList is a literal PortSource.
type PortList []int

// All yields the ports in order.
func (pl PortList) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, p := range pl {
			if !yield(p) {
				return
			}
		}
	}
}

// Len returns the number of ports.
func (pl PortList) Len() int { return len(pl) }
