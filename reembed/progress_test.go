package reembed

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTrackerReportsAtInterval(t *testing.T) {
	var out bytes.Buffer
	p := NewProgressTracker(&out, 100, 10)
	p.Start()

	p.Update(5)
	assert.Empty(t, out.String())

	p.Update(10)
	assert.Contains(t, out.String(), "10/100")

	p.Update(15)
	assert.NotContains(t, out.String(), "15/100")
}

func TestProgressTrackerFinish(t *testing.T) {
	var out bytes.Buffer
	p := NewProgressTracker(&out, 50, 100)
	p.Start()
	p.Update(20)
	p.Finish()

	assert.Contains(t, out.String(), "50/50")
	assert.Contains(t, out.String(), "100.0%")
	assert.True(t, strings.HasSuffix(out.String(), "\n"))
}

func TestProgressTrackerCapsAtTotal(t *testing.T) {
	var out bytes.Buffer
	p := NewProgressTracker(&out, 10, 1)
	p.Start()
	p.Update(25)

	assert.Contains(t, out.String(), "10/10")
}

func TestProgressTrackerIgnoresUpdatesBeforeStart(t *testing.T) {
	var out bytes.Buffer
	p := NewProgressTracker(&out, 10, 1)
	p.Update(5)
	p.Finish()

	assert.Empty(t, out.String())
	assert.Zero(t, p.Elapsed())
}
