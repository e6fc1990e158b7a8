package reembed

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker writes periodic progress lines for a long-running batch.
// It reports once every reportInterval processed records and once on Finish,
// overwriting the line in place so the output stays a single row on a tty.
type ProgressTracker struct {
	mu         sync.Mutex
	out        io.Writer
	total      int
	current    int
	interval   int
	nextReport int
	begun      time.Time
	running    bool
}

// NewProgressTracker creates a tracker over total records that reports every
// reportInterval records. out is typically os.Stderr.
func NewProgressTracker(out io.Writer, total, reportInterval int) *ProgressTracker {
	return &ProgressTracker{
		out:      out,
		total:    total,
		interval: reportInterval,
	}
}

// Start resets the tracker and begins timing. Updates before Start are ignored.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.begun = time.Now()
	p.running = true
	p.current = 0
	p.nextReport = p.interval
}

// Update records that current records have been processed so far, emitting a
// progress line whenever the report interval has been crossed.
func (p *ProgressTracker) Update(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.current = min(current, p.total)
	if p.current >= p.nextReport {
		p.emit()
		p.nextReport = p.current + p.interval
	}
}

// Finish forces the count to total, emits the closing line, and ends the
// in-place overwriting with a newline.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.current = p.total
	p.emit()
	fmt.Fprintln(p.out)
}

// Elapsed returns the time since Start, or zero before Start.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return 0
	}
	return time.Since(p.begun)
}

func (p *ProgressTracker) emit() {
	elapsed := time.Since(p.begun)
	rate := float64(p.current) / elapsed.Seconds()
	pct := 0.0
	if p.total > 0 {
		pct = float64(p.current) / float64(p.total) * 100.0
	}
	fmt.Fprintf(p.out, "\rProgress: %d/%d (%.1f%%) - %.1f records/s",
		p.current, p.total, pct, rate)
}
