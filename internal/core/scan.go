package core

import (
	"context"
	"fmt"
	"time"

	ncerr "tcpsweep/internal/errors"
	"tcpsweep/internal/metrics"
	"tcpsweep/internal/scan"
	"tcpsweep/internal/transport"
	"tcpsweep/util"
)

// ScanMode probes every host×port pair and streams the results to
// Sink.  It always waits for the last wave before returning.
type ScanMode struct {
	Scanner  scan.Scanner
	Dialer   transport.Dialer
	Hosts    []string
	Ports    scan.PortSource
	PoolSize int
	Timeout  time.Duration
	Sink     scan.Sink
	Metrics  *metrics.Collector
	Logger   *util.Logger
}

// Run performs the scan.  The underlying transport is closed when Run
// returns.
func (m *ScanMode) Run(ctx context.Context) error {
	defer m.Dialer.Close()

	total := scan.WorkListLen(m.Hosts, m.Ports)
	if total == 0 {
		return ncerr.ErrNoTargets
	}

	if c, ok := m.Dialer.(transport.Connector); ok {
		m.Logger.Verbose("connecting gateway")
		if err := c.Connect(ctx); err != nil {
			return err
		}
	}

	m.Logger.Verbose("scanning %d host(s) × %d port(s) = %d probe(s), pool %d, timeout %s",
		len(m.Hosts), m.Ports.Len(), total, m.PoolSize, m.Timeout)

	sink := m.Sink
	if sink == nil {
		sink = scan.Discard
	}
	open := 0
	start := time.Now()
	err := scan.Run(ctx, m.Scanner, m.Hosts, m.Ports, scan.SinkFunc(func(ev scan.Event) {
		switch ev.Kind {
		case scan.EventPort, scan.EventOpen:
			if ev.Result.Open {
				open++
			}
			if m.Logger.Enabled(util.LogDebug) && !ev.Result.Open && ev.Result.Err != nil {
				m.Logger.Debug("%s closed (%s): %v", ev.Result.Target, ev.Result.Reason(), ev.Result.Err)
			}
		case scan.EventWave:
			m.Logger.Debug("wave %d: %d probe(s), %d open, %s",
				ev.Wave.Index, ev.Wave.Size, ev.Wave.Open, ev.Wave.Elapsed.Round(time.Millisecond))
		}
		sink.Emit(ev)
	}))

	m.Metrics.Finish()
	m.Logger.Info("%d open of %d probe(s) in %s", open, total, time.Since(start).Round(time.Millisecond))
	if m.Metrics != nil {
		m.Logger.Debug("metrics: %s", m.Metrics.JSON())
	}

	if err != nil {
		return fmt.Errorf("scan interrupted: %w", err)
	}
	return nil
}
