package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hsokol/vjmap/profile"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time            { return c.t }
func (c *fakeClock) Advance(d time.Duration)   { c.t = c.t.Add(d) }

func procWith(mode profile.ButtonMode, pulseMs, holdMs int) *buttonProc {
	return newButtonProc(&profile.ButtonMapping{
		Mode:            mode,
		PulseDurationMs: pulseMs,
		HoldDurationMs:  holdMs,
	})
}

func TestNormalModeMirrorsRaw(t *testing.T) {
	clk := newFakeClock()
	p := procWith(profile.ModeNormal, 100, 500)
	assert.False(t, p.step(false, clk.Now()))
	assert.True(t, p.step(true, clk.Now()), "same tick, no latency")
	assert.True(t, p.step(true, clk.Now()))
	assert.False(t, p.step(false, clk.Now()))
}

func TestToggleFlipsOnRisingEdges(t *testing.T) {
	clk := newFakeClock()
	p := procWith(profile.ModeToggle, 100, 500)

	assert.False(t, p.step(false, clk.Now()))
	assert.True(t, p.step(true, clk.Now()), "first press toggles on")
	assert.True(t, p.step(true, clk.Now()), "holding does not retoggle")
	assert.True(t, p.step(false, clk.Now()), "release keeps toggled state")
	assert.False(t, p.step(true, clk.Now()), "second press toggles back off")
	assert.False(t, p.step(false, clk.Now()))
}

func TestPulseHoldsForDurationThenDrops(t *testing.T) {
	clk := newFakeClock()
	p := procWith(profile.ModePulse, 100, 500)

	assert.True(t, p.step(true, clk.Now()), "rising edge starts the pulse")
	for i := 0; i < 9; i++ {
		clk.Advance(10 * time.Millisecond)
		assert.True(t, p.step(true, clk.Now()), "still pulsing at %v", clk.Now())
	}
	clk.Advance(10 * time.Millisecond)
	assert.False(t, p.step(true, clk.Now()), "pulse expires even while raw held")
	assert.False(t, p.step(true, clk.Now()), "no refire without a new edge")
}

func TestPulseRestartsOnNewEdge(t *testing.T) {
	clk := newFakeClock()
	p := procWith(profile.ModePulse, 100, 500)

	assert.True(t, p.step(true, clk.Now()))
	clk.Advance(60 * time.Millisecond)
	assert.True(t, p.step(false, clk.Now()))
	// New edge mid-pulse restarts the timer.
	assert.True(t, p.step(true, clk.Now()))
	clk.Advance(90 * time.Millisecond)
	assert.True(t, p.step(true, clk.Now()), "150ms after first edge, 90ms after restart")
	clk.Advance(10 * time.Millisecond)
	assert.False(t, p.step(true, clk.Now()))
}

func TestHoldNeverFiresOnShortPress(t *testing.T) {
	clk := newFakeClock()
	p := procWith(profile.ModeHold, 100, 500)

	assert.False(t, p.step(true, clk.Now()))
	clk.Advance(300 * time.Millisecond)
	assert.False(t, p.step(true, clk.Now()), "held 300ms of 500ms")
	assert.False(t, p.step(false, clk.Now()), "released before the threshold")
	clk.Advance(time.Second)
	assert.False(t, p.step(false, clk.Now()))
}

func TestHoldFiresAtThresholdUntilRelease(t *testing.T) {
	clk := newFakeClock()
	p := procWith(profile.ModeHold, 100, 500)

	assert.False(t, p.step(true, clk.Now()))
	clk.Advance(500 * time.Millisecond)
	assert.True(t, p.step(true, clk.Now()), "threshold reached while held")
	clk.Advance(time.Second)
	assert.True(t, p.step(true, clk.Now()), "stays asserted while held")
	assert.False(t, p.step(false, clk.Now()), "drops on release")
	assert.False(t, p.step(true, clk.Now()), "new press restarts the wait")
}

func TestHoldRestartTimesFromNewEdge(t *testing.T) {
	clk := newFakeClock()
	p := procWith(profile.ModeHold, 100, 500)

	p.step(true, clk.Now())
	clk.Advance(400 * time.Millisecond)
	p.step(false, clk.Now())
	p.step(true, clk.Now())
	clk.Advance(400 * time.Millisecond)
	assert.False(t, p.step(true, clk.Now()), "only 400ms since the new edge")
	clk.Advance(100 * time.Millisecond)
	assert.True(t, p.step(true, clk.Now()))
}
