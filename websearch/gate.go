package websearch

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultDailyCap is the number of web searches a process may issue.
const DefaultDailyCap = 50

// GateStats reports quota consumption.
type GateStats struct {
	Used      int
	Cap       int
	Remaining int
}

// Gate bounds web searches two ways: a token bucket spaces requests out, and
// a hard cap stops them entirely once the budget for the process lifetime is
// spent. Restarting the process resets the budget.
type Gate struct {
	limiter *rate.Limiter

	mu   sync.Mutex
	used int
	cap  int
}

// NewGate creates a gate allowing at most cap searches, paced to one every
// two seconds with a small burst.
func NewGate(cap int) *Gate {
	if cap <= 0 {
		cap = DefaultDailyCap
	}
	return &Gate{
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 3),
		cap:     cap,
	}
}

// Allow reports whether a search may proceed now and, if so, consumes one
// unit of the budget. It never blocks.
func (g *Gate) Allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.used >= g.cap {
		return false
	}
	if !g.limiter.Allow() {
		return false
	}
	g.used++
	return true
}

// Stats returns the current quota consumption.
func (g *Gate) Stats() GateStats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return GateStats{
		Used:      g.used,
		Cap:       g.cap,
		Remaining: g.cap - g.used,
	}
}
