package engine

import (
	"time"

	"github.com/hsokol/vjmap/profile"
)

// buttonProc is the per-mapping button mode state machine. One instance
// exists per button mapping while the engine runs; all state is
// discarded on Stop. It turns the raw OR'd input history into the
// virtual output signal, one step per tick.
type buttonProc struct {
	mode  profile.ButtonMode
	pulse time.Duration
	hold  time.Duration

	toggledOn bool
	pulsing   bool
	pulseEnd  time.Time
	holdStart time.Time
	holdFired bool
	prevRaw   bool
}

func newButtonProc(m *profile.ButtonMapping) *buttonProc {
	return &buttonProc{
		mode:  m.Mode,
		pulse: m.PulseDuration(),
		hold:  m.HoldDuration(),
	}
}

// step advances the state machine one tick and returns the output state.
func (p *buttonProc) step(raw bool, now time.Time) bool {
	rising := raw && !p.prevRaw
	p.prevRaw = raw

	switch p.mode {
	case profile.ModeToggle:
		if rising {
			p.toggledOn = !p.toggledOn
		}
		return p.toggledOn

	case profile.ModePulse:
		// A rising edge restarts the timer even mid-pulse.
		if rising {
			p.pulsing = true
			p.pulseEnd = now.Add(p.pulse)
		}
		if p.pulsing && !now.Before(p.pulseEnd) {
			p.pulsing = false
		}
		return p.pulsing

	case profile.ModeHold:
		if rising {
			p.holdStart = now
			p.holdFired = false
		}
		if !raw {
			p.holdFired = false
			return false
		}
		if !p.holdFired && now.Sub(p.holdStart) >= p.hold {
			p.holdFired = true
		}
		return p.holdFired

	default: // ModeNormal: no latency, output mirrors raw.
		return raw
	}
}
