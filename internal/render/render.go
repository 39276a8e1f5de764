// Package render turns the scan event stream into console output.
//
// Two renderers are provided.  [Plain] appends lines and never rewrites
// them, so it is safe for pipes and log files.  [Terminal] erases
// closed sequential probes in place and draws a progress bar for
// concurrent scans.
package render

import (
	"fmt"
	"io"

	"tcpsweep/internal/scan"
)

// New returns the renderer suited to w: Terminal when tty is true,
// Plain otherwise.
func New(w io.Writer, tty bool) scan.Sink {
	if tty {
		return NewTerminal(w)
	}
	return NewPlain(w)
}

// Plain writes one line per host header and per open target.  Closed
// ports produce no output.
type Plain struct {
	w io.Writer
}

// NewPlain returns a Plain renderer writing to w.
func NewPlain(w io.Writer) *Plain { return &Plain{w: w} }

// Emit implements [scan.Sink].
func (p *Plain) Emit(ev scan.Event) {
	switch ev.Kind {
	case scan.EventHost:
		fmt.Fprintf(p.w, "HOST: %s\n", ev.Host)
	case scan.EventPort:
		if ev.Result.Open {
			fmt.Fprintf(p.w, "  PORT: %d is open\n", ev.Result.Port)
		}
	case scan.EventOpen:
		fmt.Fprintf(p.w, "%s is open\n", ev.Result.Target)
	}
}
