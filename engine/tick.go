package engine

import (
	"time"

	"github.com/hsokol/vjmap/keyboard"
	"github.com/hsokol/vjmap/profile"
)

// axisEval is the engine's compiled copy of one axis mapping.
type axisEval struct {
	m profile.AxisMapping
}

// buttonEval pairs a compiled button mapping with its runtime state.
// prevWritten tracks the last output actually written, so key and button
// events fire only on edges.
type buttonEval struct {
	m           profile.ButtonMapping
	proc        *buttonProc
	prevWritten bool
	key         keyboard.Key
	mods        keyboard.Modifier
	badKey      bool
}

type hatEval struct {
	m profile.HatMapping
}

// layerEval is a compiled shift layer: its mappings shadow base mappings
// on the same output slot while the trigger is held.
type layerEval struct {
	trigger profile.InputSource
	axes    []axisEval
	buttons []*buttonEval
}

// compile snapshots the profile into engine-owned copies. Profile edits
// after this point are invisible until the next LoadProfile/Start.
func (e *Engine) compile() {
	e.axes = compileAxes(e.prof.AxisMappings)
	e.buttons = e.compileButtons(e.prof.ButtonMappings)
	e.hats = make([]hatEval, 0, len(e.prof.HatMappings))
	for _, m := range e.prof.HatMappings {
		e.hats = append(e.hats, hatEval{m: m})
	}
	e.layers = make([]layerEval, 0, len(e.prof.ShiftLayers))
	for _, l := range e.prof.ShiftLayers {
		e.layers = append(e.layers, layerEval{
			trigger: l.Trigger,
			axes:    compileAxes(l.AxisMappings),
			buttons: e.compileButtons(l.ButtonMappings),
		})
	}
}

func compileAxes(ms []profile.AxisMapping) []axisEval {
	out := make([]axisEval, 0, len(ms))
	for _, m := range ms {
		out = append(out, axisEval{m: m})
	}
	return out
}

func (e *Engine) compileButtons(ms []profile.ButtonMapping) []*buttonEval {
	out := make([]*buttonEval, 0, len(ms))
	for i := range ms {
		m := ms[i]
		b := &buttonEval{m: m, proc: newButtonProc(&m)}
		if m.Output.Type == profile.OutKeyboard {
			key, err := keyboard.ParseKey(m.Output.KeyName)
			if err != nil {
				e.logger.Warn("button mapping has unknown key, will be skipped",
					"mapping", m.Name, "key", m.Output.KeyName)
				b.badKey = true
			}
			mods, err := keyboard.ParseModifiers(m.Output.Modifiers)
			if err != nil {
				e.logger.Warn("button mapping has unknown modifiers, will be skipped",
					"mapping", m.Name, "error", err)
				b.badKey = true
			}
			b.key, b.mods = key, mods
		}
		out = append(out, b)
	}
	return out
}

func (e *Engine) allButtons() []*buttonEval {
	all := e.buttons
	for _, l := range e.layers {
		all = append(all[:len(all):len(all)], l.buttons...)
	}
	return all
}

// Tick runs one forwarding pass: one snapshot, then axes, buttons and
// hats in that order. Mappings with dangling device references are
// skipped for this tick only and reported on the event channel.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}

	snap := e.provider.Snapshot()
	now := e.now()
	layer := e.activeLayer(snap)

	for i := range e.axes {
		a := &e.axes[i]
		if layer != nil && slotShadowedAxis(layer.axes, a.m.Output) {
			continue
		}
		e.tickAxis(a, snap)
	}
	if layer != nil {
		for i := range layer.axes {
			e.tickAxis(&layer.axes[i], snap)
		}
	}

	// Every processor advances every tick so toggle/pulse/hold state
	// survives layer switches; only the effective mapping writes.
	for _, b := range e.buttons {
		effective := layer == nil || !slotShadowedButton(layer.buttons, b.m.Output)
		e.tickButton(b, snap, now, effective)
	}
	for i := range e.layers {
		l := &e.layers[i]
		for _, b := range l.buttons {
			e.tickButton(b, snap, now, l == layer)
		}
	}

	for i := range e.hats {
		e.tickHat(&e.hats[i], snap)
	}
}

// activeLayer returns the last layer whose trigger is currently held.
func (e *Engine) activeLayer(snap Snapshot) *layerEval {
	var active *layerEval
	for i := range e.layers {
		l := &e.layers[i]
		if pressed, ok := snap.Button(l.trigger.DeviceID, l.trigger.Index); ok && pressed {
			active = l
		}
	}
	return active
}

func slotShadowedAxis(layerAxes []axisEval, out profile.OutputTarget) bool {
	for i := range layerAxes {
		if layerAxes[i].m.Output.SameSlot(out) {
			return true
		}
	}
	return false
}

func slotShadowedButton(layerButtons []*buttonEval, out profile.OutputTarget) bool {
	for _, b := range layerButtons {
		if b.m.Output.SameSlot(out) {
			return true
		}
	}
	return false
}

func (e *Engine) tickAxis(a *axisEval, snap Snapshot) {
	m := &a.m
	values := make([]float64, 0, len(m.Inputs))
	for _, in := range m.Inputs {
		v, ok := snap.Axis(in.DeviceID, in.Index)
		if !ok {
			e.emit(m.Name, "input device "+in.DeviceID+" absent")
			return
		}
		values = append(values, v)
	}
	out := m.Curve.Apply(m.MergeOp.Combine(values), m.AxisKind.CurveKind())
	if m.Invert {
		// Negation covers both kinds: for end-only axes it is the
		// [-1,1] form of mirroring the 0..1 travel.
		out = -out
	}
	dev, ok := e.acquired[m.Output.VJoyDevice]
	if !ok {
		e.emit(m.Name, "output device not acquired")
		return
	}
	if err := dev.SetAxis(m.Output.Index, out); err != nil {
		e.emit(m.Name, err.Error())
	}
}

func (e *Engine) tickButton(b *buttonEval, snap Snapshot, now time.Time, effective bool) {
	m := &b.m
	raw := false
	for _, in := range m.Inputs {
		v, ok := snap.Button(in.DeviceID, in.Index)
		if !ok {
			e.emit(m.Name, "input device "+in.DeviceID+" absent")
			return
		}
		raw = raw || v
	}

	out := b.proc.step(raw, now)
	want := out && effective && m.Enabled
	if want == b.prevWritten {
		return
	}

	switch m.Output.Type {
	case profile.OutKeyboard:
		if b.badKey {
			e.emit(m.Name, "unresolvable key name "+m.Output.KeyName)
			return
		}
		var err error
		if want {
			err = e.keys.KeyDown(b.key, b.mods)
		} else {
			err = e.keys.KeyUp(b.key, b.mods)
		}
		if err != nil {
			e.emit(m.Name, err.Error())
			return
		}
	default:
		dev, ok := e.acquired[m.Output.VJoyDevice]
		if !ok {
			e.emit(m.Name, "output device not acquired")
			return
		}
		if err := dev.SetButton(m.Output.Index, want); err != nil {
			e.emit(m.Name, err.Error())
			return
		}
	}
	b.prevWritten = want
}

func (e *Engine) tickHat(h *hatEval, snap Snapshot) {
	m := &h.m
	if len(m.Inputs) == 0 {
		return
	}
	in := m.Inputs[0]
	raw, ok := snap.Hat(in.DeviceID, in.Index)
	if !ok {
		e.emit(m.Name, "input device "+in.DeviceID+" absent")
		return
	}
	dev, ok := e.acquired[m.Output.VJoyDevice]
	if !ok {
		e.emit(m.Name, "output device not acquired")
		return
	}
	value := raw
	if !m.UseContinuous {
		value = discretizePov(raw)
	}
	if err := dev.SetPov(m.Output.Index, value); err != nil {
		e.emit(m.Name, err.Error())
	}
}

// discretizePov converts a continuous hat angle (hundredths of a degree)
// to the four-way discrete convention: 0=N 1=E 2=S 3=W, -1 neutral.
func discretizePov(v int) int {
	if v < 0 {
		return -1
	}
	return ((v + 4500) / 9000) % 4
}
