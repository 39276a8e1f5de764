package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"tcpsweep/config"
	ncerr "tcpsweep/internal/errors"
	"tcpsweep/internal/metrics"
	"tcpsweep/internal/render"
	"tcpsweep/internal/scan"
	"tcpsweep/internal/transport"
	"tcpsweep/util"
)

// listenN opens n loopback listeners and returns their ports.
func listenN(t *testing.T, n int) []int {
	t.Helper()
	var ports []int
	for i := 0; i < n; i++ {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { ln.Close() })
		ports = append(ports, ln.Addr().(*net.TCPAddr).Port)
	}
	return ports
}

func closedPort(t *testing.T) int {
	t.Helper()
	p, err := util.FindFreePort()
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func portSet(ports ...int) config.PortSet {
	var ps config.PortSet
	for _, p := range ports {
		ps = append(ps, config.PortRange{Start: p, End: p})
	}
	return ps
}

// TestScanMode_Sequential runs the full stack against loopback
// listeners and checks the plain output.
func TestScanMode_Sequential(t *testing.T) {
	open := listenN(t, 1)
	closed := closedPort(t)

	cfg := &config.Config{
		Hosts:    []string{"127.0.0.1"},
		Ports:    portSet(closed, open[0]),
		PoolSize: 1,
		Timeout:  time.Second,
	}
	var out bytes.Buffer
	m := metrics.New()
	mode, err := Build(cfg, util.NewLogger(0), render.NewPlain(&out), m)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mode.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := fmt.Sprintf("HOST: 127.0.0.1\n  PORT: %d is open\n", open[0])
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if m.ProbesIssued() != 2 || m.OpenCount() != 1 {
		t.Errorf("metrics: issued=%d open=%d", m.ProbesIssued(), m.OpenCount())
	}
}

// TestScanMode_Concurrent runs a wave scan end to end.
func TestScanMode_Concurrent(t *testing.T) {
	open := listenN(t, 3)
	closed := closedPort(t)

	cfg := &config.Config{
		Hosts:    []string{"127.0.0.1"},
		Ports:    portSet(open[0], closed, open[1], open[2]),
		PoolSize: 2,
		Timeout:  time.Second,
	}
	var out bytes.Buffer
	m := metrics.New()
	mode, err := Build(cfg, util.NewLogger(0), render.NewPlain(&out), m)
	if err != nil {
		t.Fatal(err)
	}
	if err := mode.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out.String())
	}
	for _, p := range open {
		want := fmt.Sprintf("127.0.0.1:%d is open", p)
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
	if m.Waves() != 2 {
		t.Errorf("waves = %d, want 2", m.Waves())
	}
	if m.PeakInFlight() > 2 {
		t.Errorf("peak in flight = %d, want ≤ 2", m.PeakInFlight())
	}
}

// TestScanMode_NoTargets verifies an empty work list is an error.
func TestScanMode_NoTargets(t *testing.T) {
	mode := &ScanMode{
		Scanner: &scan.Sequential{Prober: scan.ProberFunc(func(context.Context, scan.Target) scan.Result {
			t.Error("no probe expected")
			return scan.Result{}
		})},
		Dialer: &transport.TCPDialer{},
		Ports:  scan.PortList{80},
		Logger: util.NewLogger(0),
	}
	if err := mode.Run(context.Background()); !errors.Is(err, ncerr.ErrNoTargets) {
		t.Errorf("err = %v, want ErrNoTargets", err)
	}
}

// gateway is a Connector dialer that records its lifecycle.
type gateway struct {
	connectErr error
	connects   atomic.Int32
	closes     atomic.Int32
}

func (g *gateway) Connect(context.Context) error {
	g.connects.Add(1)
	return g.connectErr
}

func (g *gateway) Dial(context.Context, string, string) (net.Conn, error) {
	c1, c2 := net.Pipe()
	c2.Close()
	return c1, nil
}

func (g *gateway) Close() error {
	g.closes.Add(1)
	return nil
}

// TestScanMode_ConnectsGatewayFirst verifies a session dialer is
// connected once before probing and closed afterwards.
func TestScanMode_ConnectsGatewayFirst(t *testing.T) {
	gw := &gateway{}
	rec := &scan.Recorder{}
	mode := &ScanMode{
		Scanner:  &scan.Concurrent{Prober: &scan.DialProber{Dialer: gw, Timeout: time.Second}, PoolSize: 4},
		Dialer:   gw,
		Hosts:    []string{"10.0.0.1"},
		Ports:    scan.PortList{22, 80},
		PoolSize: 4,
		Sink:     rec,
		Logger:   util.NewLogger(0),
	}
	if err := mode.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gw.connects.Load() != 1 || gw.closes.Load() != 1 {
		t.Errorf("connects=%d closes=%d, want 1/1", gw.connects.Load(), gw.closes.Load())
	}
	if n := len(rec.Of(scan.EventOpen)); n != 2 {
		t.Errorf("open events = %d, want 2", n)
	}
}

// TestScanMode_GatewayFailure verifies a failed gateway aborts the
// scan before any probe.
func TestScanMode_GatewayFailure(t *testing.T) {
	gw := &gateway{connectErr: &ncerr.SSHError{Op: "handshake", Host: "bastion", Err: ncerr.ErrAuthFailed}}
	probed := false
	mode := &ScanMode{
		Scanner: &scan.Sequential{Prober: scan.ProberFunc(func(context.Context, scan.Target) scan.Result {
			probed = true
			return scan.Result{}
		})},
		Dialer: gw,
		Hosts:  []string{"10.0.0.1"},
		Ports:  scan.PortList{22},
		Logger: util.NewLogger(0),
	}
	err := mode.Run(context.Background())
	if !errors.Is(err, ncerr.ErrAuthFailed) {
		t.Errorf("err = %v, want ErrAuthFailed", err)
	}
	if probed {
		t.Error("probe issued after gateway failure")
	}
	if gw.closes.Load() != 1 {
		t.Error("dialer not closed")
	}
}

// TestScanMode_Interrupted verifies cancellation is reported.
func TestScanMode_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mode := &ScanMode{
		Scanner: &scan.Sequential{Prober: scan.ProberFunc(func(_ context.Context, tg scan.Target) scan.Result {
			cancel()
			return scan.Result{Target: tg}
		})},
		Dialer: &transport.TCPDialer{},
		Hosts:  []string{"10.0.0.1"},
		Ports:  scan.PortList{1, 2, 3},
		Logger: util.NewLogger(0),
	}
	err := mode.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if !strings.Contains(err.Error(), "interrupted") {
		t.Errorf("err = %q", err)
	}
}

// TestScanMode_LogsSummary verifies the summary line goes to the
// logger, not the sink.
func TestScanMode_LogsSummary(t *testing.T) {
	var logs bytes.Buffer
	logger := util.NewLogger(1)
	logger.SetOutput(&logs)

	mode := &ScanMode{
		Scanner: &scan.Sequential{Prober: scan.ProberFunc(func(_ context.Context, tg scan.Target) scan.Result {
			return scan.Result{Target: tg, Open: tg.Port == 443}
		})},
		Dialer: &transport.TCPDialer{},
		Hosts:  []string{"10.0.0.1"},
		Ports:  scan.PortList{80, 443},
		Logger: logger.Named("scan"),
	}
	if err := mode.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "[INF] scan: 1 open of 2 probe(s)") {
		t.Errorf("summary missing from %q", logs.String())
	}
}
