package websearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateConsumesQuota(t *testing.T) {
	g := NewGate(2)

	assert.True(t, g.Allow())
	assert.True(t, g.Allow())
	assert.False(t, g.Allow())

	stats := g.Stats()
	assert.Equal(t, 2, stats.Used)
	assert.Equal(t, 2, stats.Cap)
	assert.Equal(t, 0, stats.Remaining)
}

func TestGatePacesBursts(t *testing.T) {
	g := NewGate(100)

	// The token bucket holds a burst of three; a fourth immediate call must
	// be refused even though quota remains.
	granted := 0
	for i := 0; i < 10; i++ {
		if g.Allow() {
			granted++
		}
	}
	assert.Equal(t, 3, granted)
	assert.Equal(t, 3, g.Stats().Used)
	assert.Equal(t, 97, g.Stats().Remaining)
}

func TestGateDefaultCap(t *testing.T) {
	g := NewGate(0)
	assert.Equal(t, DefaultDailyCap, g.Stats().Cap)
}
