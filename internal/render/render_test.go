package render

import (
	"bytes"
	"strings"
	"testing"

	"tcpsweep/internal/scan"
)

func sequentialEvents() []scan.Event {
	return []scan.Event{
		{Kind: scan.EventStart, Total: 3, Pool: 1},
		{Kind: scan.EventHost, Host: "10.0.0.1"},
		{Kind: scan.EventProbe, Target: scan.Target{Host: "10.0.0.1", Port: 21}},
		{Kind: scan.EventPort, Result: scan.Result{Target: scan.Target{Host: "10.0.0.1", Port: 21}}},
		{Kind: scan.EventProbe, Target: scan.Target{Host: "10.0.0.1", Port: 22}},
		{Kind: scan.EventPort, Result: scan.Result{Target: scan.Target{Host: "10.0.0.1", Port: 22}, Open: true}},
		{Kind: scan.EventProbe, Target: scan.Target{Host: "10.0.0.1", Port: 23}},
		{Kind: scan.EventPort, Result: scan.Result{Target: scan.Target{Host: "10.0.0.1", Port: 23}}},
		{Kind: scan.EventDone},
	}
}

func concurrentEvents() []scan.Event {
	return []scan.Event{
		{Kind: scan.EventStart, Total: 4, Pool: 2},
		{Kind: scan.EventOpen, Result: scan.Result{Target: scan.Target{Host: "10.0.0.1", Port: 80}, Open: true}},
		{Kind: scan.EventWave, Wave: scan.WaveInfo{Index: 0, Size: 2, Open: 1}},
		{Kind: scan.EventOpen, Result: scan.Result{Target: scan.Target{Host: "10.0.0.2", Port: 443}, Open: true}},
		{Kind: scan.EventWave, Wave: scan.WaveInfo{Index: 1, Size: 2, Open: 1}},
		{Kind: scan.EventDone},
	}
}

func emitAll(s scan.Sink, events []scan.Event) {
	for _, ev := range events {
		s.Emit(ev)
	}
}

// TestPlain_Sequential verifies host headers and open ports only.
func TestPlain_Sequential(t *testing.T) {
	var buf bytes.Buffer
	emitAll(NewPlain(&buf), sequentialEvents())

	want := "HOST: 10.0.0.1\n  PORT: 22 is open\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

// TestPlain_Concurrent verifies the host:port form.
func TestPlain_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	emitAll(NewPlain(&buf), concurrentEvents())

	want := "10.0.0.1:80 is open\n10.0.0.2:443 is open\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

// TestTerminal_SequentialErasesClosed verifies closed ports are erased
// in place.
func TestTerminal_SequentialErasesClosed(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	term.green.DisableColor()
	emitAll(term, sequentialEvents())

	want := "HOST: 10.0.0.1\n" +
		"  PORT: 21" + eraseLine +
		"  PORT: 22 is open\n" +
		"  PORT: 23" + eraseLine
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

// TestTerminal_OpenIsGreen verifies open ports are highlighted.
func TestTerminal_OpenIsGreen(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	term.green.EnableColor()

	term.Emit(scan.Event{Kind: scan.EventProbe, Target: scan.Target{Host: "h", Port: 22}})
	term.Emit(scan.Event{Kind: scan.EventPort, Result: scan.Result{Target: scan.Target{Host: "h", Port: 22}, Open: true}})

	if !strings.Contains(buf.String(), "\x1b[32") {
		t.Errorf("expected green escape in %q", buf.String())
	}
}

// TestTerminal_ConcurrentProgress verifies the bar advances per wave
// and is released on done.
func TestTerminal_ConcurrentProgress(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	term.green.DisableColor()

	events := concurrentEvents()
	term.Emit(events[0])
	if term.bar == nil {
		t.Fatal("no progress bar for a concurrent scan")
	}
	for _, ev := range events[1:5] {
		term.Emit(ev)
	}
	if got := term.bar.State().CurrentPercent; got != 1.0 {
		t.Errorf("bar at %v, want 1.0 after every wave", got)
	}
	term.Emit(events[5])
	if term.bar != nil {
		t.Error("bar not released on done")
	}

	out := buf.String()
	for _, want := range []string{"10.0.0.1:80 is open\n", "10.0.0.2:443 is open\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

// TestTerminal_NoBarWhenSequential verifies sequential scans draw no
// bar.
func TestTerminal_NoBarWhenSequential(t *testing.T) {
	term := NewTerminal(&bytes.Buffer{})
	term.Emit(scan.Event{Kind: scan.EventStart, Total: 10, Pool: 1})
	if term.bar != nil {
		t.Error("sequential scan should not draw a progress bar")
	}
}

// TestNew verifies the renderer choice.
func TestNew(t *testing.T) {
	if _, ok := New(&bytes.Buffer{}, false).(*Plain); !ok {
		t.Error("New(tty=false) should be Plain")
	}
	if _, ok := New(&bytes.Buffer{}, true).(*Terminal); !ok {
		t.Error("New(tty=true) should be Terminal")
	}
}
