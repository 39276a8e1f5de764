package scan

import (
	"context"
	"net"
	"time"

	"tcpsweep/config"
	ncerr "tcpsweep/internal/errors"
	"tcpsweep/internal/metrics"
	"tcpsweep/internal/transport"
)

// Prober decides whether a single target accepts TCP connections.
type Prober interface {
	Probe(ctx context.Context, t Target) Result
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, t Target) Result

// Probe calls f(ctx, t).
func (f ProberFunc) Probe(ctx context.Context, t Target) Result { return f(ctx, t) }

// DialProber probes by opening a TCP connection through Dialer and
// closing it straight away.
type DialProber struct {
	Dialer  transport.Dialer
	Timeout time.Duration // per-probe budget; zero means config.DefaultProbeTimeout
	Metrics *metrics.Collector
}

type dialOutcome struct {
	conn net.Conn
	err  error
}

// Probe races one connection attempt against the timeout.  Whichever
// finishes first decides the result; the other is abandoned.  Refusal,
// unreachability, DNS failure and timeout all mean "not open".
//
// The connection, if one is ever established, is closed exactly once:
// here when the dial wins, or by a drain goroutine when it completes
// after the timer has already fired.
func (p *DialProber) Probe(ctx context.Context, t Target) Result {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = config.DefaultProbeTimeout
	}

	p.Metrics.ProbeStarted()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addr := t.Addr()
	done := make(chan dialOutcome, 1)
	go func() {
		conn, err := p.Dialer.Dial(ctx, "tcp", addr)
		done <- dialOutcome{conn: conn, err: err}
	}()

	var res Result
	select {
	case out := <-done:
		if out.err != nil {
			res = Result{Target: t, Err: ncerr.Wrap("probe", addr, out.err)}
			break
		}
		if out.conn != nil {
			out.conn.Close()
		}
		res = Result{Target: t, Open: true}
	case <-ctx.Done():
		go drain(done)
		err := ctx.Err()
		if err == context.DeadlineExceeded {
			err = ncerr.ErrProbeTimeout
		}
		res = Result{Target: t, Err: ncerr.Wrap("probe", addr, err)}
	}

	p.Metrics.ProbeFinished(res.Open, res.Reason() == ncerr.ReasonTimeout)
	return res
}

// drain waits for an abandoned dial and releases whatever it produced.
// The dial observes the cancelled context, so this does not linger.
func drain(done <-chan dialOutcome) {
	if out := <-done; out.err == nil && out.conn != nil {
		out.conn.Close()
	}
}
