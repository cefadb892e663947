// Package progress reports progress of multi-file container operations such
// as adding or extracting files.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"

	"github.com/rc-project/rc/pkg/color"
)

// Callback receives progress updates. current counts finished files and
// message names the file just finished, or is empty for the final call.
type Callback func(op string, current, total int, message string)

// Noop is a no-op callback for default behavior.
func Noop(op string, current, total int, message string) {}

// Progress tracks operation progress. It is safe for concurrent use.
type Progress struct {
	Op    string
	Total int

	mu      sync.Mutex
	current int
	cb      Callback
}

// New creates a new Progress tracker. A nil cb reports nowhere.
func New(op string, total int, cb Callback) *Progress {
	if cb == nil {
		cb = Noop
	}
	return &Progress{Op: op, Total: total, cb: cb}
}

// Increment records one finished file.
func (p *Progress) Increment(message string) {
	p.mu.Lock()
	p.current++
	current := p.current
	p.mu.Unlock()
	p.cb(p.Op, current, p.Total, message)
}

// Done marks the operation as complete.
func (p *Progress) Done(message string) {
	p.mu.Lock()
	p.current = p.Total
	p.mu.Unlock()
	p.cb(p.Op, p.Total, p.Total, message)
}

// Current returns the number of finished files.
func (p *Progress) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Terminal draws a single line progress bar on a terminal.
type Terminal struct {
	writer      io.Writer
	op          string
	total       int
	current     atomic.Int64
	bytes       atomic.Uint64
	lastLineLen atomic.Int64
	enabled     atomic.Bool
}

// NewTerminal creates a progress bar drawn on stderr.
func NewTerminal(op string, total int, enabled bool) *Terminal {
	t := &Terminal{
		writer: os.Stderr,
		op:     op,
		total:  total,
	}
	t.enabled.Store(enabled)
	return t
}

// NewAutoTerminal creates a progress bar that draws only when stderr is a
// terminal.
func NewAutoTerminal(op string, total int) *Terminal {
	return NewTerminal(op, total, color.IsTerminal(os.Stderr))
}

// Callback returns a Callback function for this terminal.
func (t *Terminal) Callback() Callback {
	return func(op string, current, total int, message string) {
		if !t.enabled.Load() {
			return
		}
		t.current.Store(int64(current))
		t.render(message)
	}
}

// AddBytes adds n to the byte count shown after the bar.
func (t *Terminal) AddBytes(n int64) {
	if n > 0 {
		t.bytes.Add(uint64(n))
	}
}

// render draws the progress bar.
func (t *Terminal) render(message string) {
	current := t.current.Load()
	total := int64(t.total)
	if total <= 0 {
		total = 1
	}
	if current > total {
		current = total
	}

	percentage := float64(current) / float64(total) * 100

	barWidth := 30
	filled := int(float64(barWidth) * float64(current) / float64(total))
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)

	// Clear previous line
	clear := "\r"
	if lastLen := t.lastLineLen.Load(); lastLen > 0 {
		clear = "\r" + strings.Repeat(" ", int(lastLen)) + "\r"
	}

	line := fmt.Sprintf("%s [%s] %d/%d (%.0f%%)", t.op, bar, current, total, percentage)
	if b := t.bytes.Load(); b > 0 {
		line += " " + humanize.Bytes(b)
	}
	if message != "" {
		line += " " + message
	}

	fmt.Fprint(t.writer, clear+line)
	t.lastLineLen.Store(int64(len(line)))
}

// Done marks the operation as complete and prints a final newline.
func (t *Terminal) Done(message string) {
	if !t.enabled.Load() {
		return
	}
	t.current.Store(int64(t.total))
	t.render(message)
	fmt.Fprintln(t.writer)
}

// SetEnabled enables or disables the progress bar.
func (t *Terminal) SetEnabled(enabled bool) {
	t.enabled.Store(enabled)
}

// IsEnabled returns whether the progress bar is enabled.
func (t *Terminal) IsEnabled() bool {
	return t.enabled.Load()
}
