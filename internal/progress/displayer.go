// Package progress renders user-facing narration for long-running
// extraction batches. It is purely cosmetic: nothing correctness-critical
// reads its state, and disabling it changes no behaviour.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

const (
	// repaintInterval is how often the current line is redrawn so the
	// elapsed-time stamp keeps moving during silent stretches.
	repaintInterval = 500 * time.Millisecond

	// stopTimeout bounds how long teardown waits for the repaint
	// goroutine to acknowledge. A stuck writer must not wedge exit.
	stopTimeout = 2 * time.Second
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Displayer narrates batch progress to the user. All methods are no-ops
// when the displayer is disabled. Safe for concurrent use.
//
// On a terminal the current message is repainted in place every half
// second with a live elapsed-time stamp and spinner. On a plain writer
// each message prints once as its own line.
type Displayer struct {
	mu      sync.Mutex
	enabled bool
	out     io.Writer
	tty     bool

	message string
	started time.Time
	frame   int
	running bool

	done     chan struct{}
	finished chan struct{}
}

// New returns a displayer writing to stdout. When enabled is false every
// method is a no-op.
func New(enabled bool) *Displayer {
	return NewWithWriter(enabled, os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
}

// NewWithWriter returns a displayer with an explicit writer and terminal
// mode. Used by tests and by callers that narrate somewhere other than
// stdout.
func NewWithWriter(enabled bool, out io.Writer, tty bool) *Displayer {
	return &Displayer{
		enabled: enabled,
		out:     out,
		tty:     tty,
	}
}

// Show replaces the current progress message. The first call starts the
// elapsed clock and the repaint goroutine.
func (d *Displayer) Show(msg string) {
	if d == nil || !d.enabled {
		return
	}
	d.mu.Lock()
	d.ensureRunningLocked()
	d.message = msg
	d.paintLocked()
	d.mu.Unlock()
}

// Major announces a major step. The line is durable - it stays in the
// transcript above the repainted progress line.
func (d *Displayer) Major(msg string) {
	if d == nil || !d.enabled {
		return
	}
	d.mu.Lock()
	d.ensureRunningLocked()
	if d.tty {
		fmt.Fprint(d.out, "\r\033[2K")
	}
	fmt.Fprintf(d.out, "🚀 %s\n", msg)
	d.message = msg
	d.mu.Unlock()
}

// Success prints the completion banner with the total elapsed time and
// tears the displayer down.
func (d *Displayer) Success(msg string) {
	if d == nil || !d.enabled {
		return
	}
	d.mu.Lock()
	total := time.Duration(0)
	if d.running {
		total = time.Since(d.started)
	}
	if d.tty {
		fmt.Fprint(d.out, "\r\033[2K")
	}
	fmt.Fprintf(d.out, "✅✅✅ %s（总用时 %s）\n", msg, formatElapsed(total))
	d.mu.Unlock()
	d.Stop()
}

// Stop tears down the repaint goroutine without printing a banner.
// Idempotent; waits at most stopTimeout for the goroutine to exit. The
// displayer is reusable: the next Show or Major starts a fresh run.
func (d *Displayer) Stop() {
	if d == nil || !d.enabled {
		return
	}
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	done := d.done
	finished := d.finished
	d.mu.Unlock()

	close(done)
	select {
	case <-finished:
	case <-time.After(stopTimeout):
	}
}

// ensureRunningLocked starts the clock and repaint goroutine. Each run
// gets its own channel pair so a stopped displayer can start over.
// Caller holds d.mu.
func (d *Displayer) ensureRunningLocked() {
	if d.running {
		return
	}
	d.running = true
	d.started = time.Now()
	d.done = make(chan struct{})
	d.finished = make(chan struct{})
	go d.repaintLoop(d.done, d.finished)
}

func (d *Displayer) repaintLoop(done, finished chan struct{}) {
	defer close(finished)
	ticker := time.NewTicker(repaintInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			d.mu.Lock()
			if d.running {
				d.frame++
				// Plain writers get one line per message; only a
				// terminal is repainted on the clock tick.
				if d.tty {
					d.paintLocked()
				}
			}
			d.mu.Unlock()
		}
	}
}

// paintLocked draws the current progress line. Caller holds d.mu.
func (d *Displayer) paintLocked() {
	if d.message == "" {
		return
	}
	elapsed := formatElapsed(time.Since(d.started))
	if d.tty {
		frame := spinnerFrames[d.frame%len(spinnerFrames)]
		fmt.Fprintf(d.out, "\r\033[2K[已用时 %s] %s %s", elapsed, frame, d.message)
		return
	}
	fmt.Fprintf(d.out, "[已用时 %s] %s\n", elapsed, d.message)
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
