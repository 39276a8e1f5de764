package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"tcpsweep/internal/scan"
)

// eraseLine returns the cursor to column 0 and clears the line.
const eraseLine = "\r\033[2K"

// Terminal is the live renderer.  A sequential probe is announced as
// "  PORT: p" before it is issued; the line is completed with
// " is open" or erased once the result arrives.  A concurrent scan
// gets a progress bar sized to the work list, with open targets
// printed above it.
type Terminal struct {
	w     io.Writer
	green *color.Color
	bar   *progressbar.ProgressBar
}

// NewTerminal returns a Terminal renderer writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w, green: color.New(color.FgGreen, color.Bold)}
}

// Emit implements [scan.Sink].
func (t *Terminal) Emit(ev scan.Event) {
	switch ev.Kind {
	case scan.EventStart:
		if ev.Pool > 1 && ev.Total > 0 {
			t.bar = t.newBar(ev.Total)
		}
	case scan.EventHost:
		fmt.Fprintf(t.w, "HOST: %s\n", ev.Host)
	case scan.EventProbe:
		fmt.Fprintf(t.w, "  PORT: %d", ev.Target.Port)
	case scan.EventPort:
		if ev.Result.Open {
			t.green.Fprint(t.w, " is open")
			fmt.Fprintln(t.w)
		} else {
			fmt.Fprint(t.w, eraseLine)
		}
	case scan.EventOpen:
		if t.bar != nil {
			t.bar.Clear() //nolint:errcheck
		}
		t.green.Fprintf(t.w, "%s is open", ev.Result.Target)
		fmt.Fprintln(t.w)
	case scan.EventWave:
		if t.bar != nil {
			t.bar.Add(ev.Wave.Size) //nolint:errcheck
		}
	case scan.EventDone:
		if t.bar != nil {
			t.bar.Finish() //nolint:errcheck
			t.bar = nil
		}
	}
}

func (t *Terminal) newBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(t.w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("[cyan]scanning[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionClearOnFinish(),
	)
}
