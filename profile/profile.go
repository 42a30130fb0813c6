// Package profile holds the mapping data model: which physical controls
// feed which virtual outputs, and with what transforms. Profiles are
// plain data; the engine takes a read-only view of one at start.
package profile

import (
	"fmt"
	"time"

	"github.com/hsokol/vjmap/curve"
)

// InputType classifies a physical control.
type InputType string

const (
	InputAxis   InputType = "axis"
	InputButton InputType = "button"
	InputHat    InputType = "hat"
)

// OutputType classifies a virtual output target.
type OutputType string

const (
	OutVJoyAxis   OutputType = "vjoy_axis"
	OutVJoyButton OutputType = "vjoy_button"
	OutVJoyPov    OutputType = "vjoy_pov"
	OutKeyboard   OutputType = "keyboard"
)

// ButtonMode selects the output behavior of a button mapping.
type ButtonMode string

const (
	ModeNormal ButtonMode = "normal"
	ModeToggle ButtonMode = "toggle"
	ModePulse  ButtonMode = "pulse"
	ModeHold   ButtonMode = "hold"
)

// AxisKind tells the curve how the axis uses its range.
type AxisKind string

const (
	KindCentered AxisKind = "centered"
	KindEndOnly  AxisKind = "end_only"
)

// CurveKind converts the persisted kind to the curve package's enum.
func (k AxisKind) CurveKind() curve.Kind {
	if k == KindEndOnly {
		return curve.EndOnly
	}
	return curve.Centered
}

// Button timing bounds, milliseconds. Out-of-range values are clamped on
// load and on set rather than rejected.
const (
	MinPulseMs = 100
	MaxPulseMs = 1000
	MinHoldMs  = 200
	MaxHoldMs  = 2000
)

// InputSource identifies one physical control. Immutable once created;
// two sources are the same control when device id, type and index match.
type InputSource struct {
	DeviceID   string    `json:"deviceId" toml:"device_id" yaml:"deviceId"`
	DeviceName string    `json:"deviceName,omitempty" toml:"device_name,omitempty" yaml:"deviceName,omitempty"`
	Type       InputType `json:"type" toml:"type" yaml:"type"`
	Index      int       `json:"index" toml:"index" yaml:"index"`
}

// Same reports whether two sources identify the same physical control.
// DeviceName is display-only and not part of identity.
func (s InputSource) Same(o InputSource) bool {
	return s.DeviceID == o.DeviceID && s.Type == o.Type && s.Index == o.Index
}

func (s InputSource) String() string {
	return fmt.Sprintf("%s/%s%d", s.DeviceID, s.Type, s.Index)
}

// OutputTarget identifies one virtual output. KeyName and Modifiers are
// only meaningful for keyboard targets.
type OutputTarget struct {
	Type       OutputType `json:"type" toml:"type" yaml:"type"`
	VJoyDevice int        `json:"vjoyDevice,omitempty" toml:"vjoy_device,omitempty" yaml:"vjoyDevice,omitempty"`
	Index      int        `json:"index" toml:"index" yaml:"index"`
	KeyName    string     `json:"keyName,omitempty" toml:"key_name,omitempty" yaml:"keyName,omitempty"`
	Modifiers  []string   `json:"modifiers,omitempty" toml:"modifiers,omitempty" yaml:"modifiers,omitempty"`
}

func (o OutputTarget) String() string {
	if o.Type == OutKeyboard {
		return fmt.Sprintf("key:%s", o.KeyName)
	}
	return fmt.Sprintf("vjoy%d/%s%d", o.VJoyDevice, o.Type, o.Index)
}

// SameSlot reports whether two targets occupy the same output slot. For
// virtual device targets the slot is (device, index); keyboard targets
// are identified by key name.
func (o OutputTarget) SameSlot(other OutputTarget) bool {
	if o.Type != other.Type {
		return false
	}
	if o.Type == OutKeyboard {
		return o.KeyName == other.KeyName
	}
	return o.VJoyDevice == other.VJoyDevice && o.Index == other.Index
}

// AxisMapping merges one or more physical axes into one virtual axis
// through a response curve.
type AxisMapping struct {
	Name     string        `json:"name" toml:"name" yaml:"name"`
	Inputs   []InputSource `json:"inputs" toml:"inputs" yaml:"inputs"`
	Output   OutputTarget  `json:"output" toml:"output" yaml:"output"`
	Curve    curve.Curve   `json:"curve" toml:"curve" yaml:"curve"`
	MergeOp  MergeOp       `json:"mergeOp" toml:"merge_op" yaml:"mergeOp"`
	Invert   bool          `json:"invert" toml:"invert" yaml:"invert"`
	AxisKind AxisKind      `json:"axisKind" toml:"axis_kind" yaml:"axisKind"`
}

// ButtonMapping ORs one or more physical buttons into one virtual button
// or keyboard key, through a mode state machine.
type ButtonMapping struct {
	Name            string        `json:"name" toml:"name" yaml:"name"`
	Inputs          []InputSource `json:"inputs" toml:"inputs" yaml:"inputs"`
	Output          OutputTarget  `json:"output" toml:"output" yaml:"output"`
	Mode            ButtonMode    `json:"mode" toml:"mode" yaml:"mode"`
	PulseDurationMs int           `json:"pulseDurationMs" toml:"pulse_duration_ms" yaml:"pulseDurationMs"`
	HoldDurationMs  int           `json:"holdDurationMs" toml:"hold_duration_ms" yaml:"holdDurationMs"`
	Enabled         bool          `json:"enabled" toml:"enabled" yaml:"enabled"`
}

// PulseDuration returns the clamped pulse duration.
func (b *ButtonMapping) PulseDuration() time.Duration {
	return time.Duration(clampInt(b.PulseDurationMs, MinPulseMs, MaxPulseMs)) * time.Millisecond
}

// HoldDuration returns the clamped hold threshold.
func (b *ButtonMapping) HoldDuration() time.Duration {
	return time.Duration(clampInt(b.HoldDurationMs, MinHoldMs, MaxHoldMs)) * time.Millisecond
}

// HatMapping forwards a physical hat to a virtual POV unchanged.
type HatMapping struct {
	Name          string        `json:"name" toml:"name" yaml:"name"`
	Inputs        []InputSource `json:"inputs" toml:"inputs" yaml:"inputs"`
	Output        OutputTarget  `json:"output" toml:"output" yaml:"output"`
	UseContinuous bool          `json:"useContinuous" toml:"use_continuous" yaml:"useContinuous"`
}

// ShiftLayer is an alternate mapping set active while its trigger input
// is held. Layer mappings override base mappings on the same output slot.
type ShiftLayer struct {
	Name           string          `json:"name" toml:"name" yaml:"name"`
	Trigger        InputSource     `json:"trigger" toml:"trigger" yaml:"trigger"`
	AxisMappings   []AxisMapping   `json:"axisMappings,omitempty" toml:"axis_mappings,omitempty" yaml:"axisMappings,omitempty"`
	ButtonMappings []ButtonMapping `json:"buttonMappings,omitempty" toml:"button_mappings,omitempty" yaml:"buttonMappings,omitempty"`
}

// Profile owns the mapping lists. Exactly one profile is active at a
// time; the engine takes a read-only view of it at Start/LoadProfile.
type Profile struct {
	Name           string          `json:"name" toml:"name" yaml:"name"`
	AxisMappings   []AxisMapping   `json:"axisMappings,omitempty" toml:"axis_mappings,omitempty" yaml:"axisMappings,omitempty"`
	ButtonMappings []ButtonMapping `json:"buttonMappings,omitempty" toml:"button_mappings,omitempty" yaml:"buttonMappings,omitempty"`
	HatMappings    []HatMapping    `json:"hatMappings,omitempty" toml:"hat_mappings,omitempty" yaml:"hatMappings,omitempty"`
	ShiftLayers    []ShiftLayer    `json:"shiftLayers,omitempty" toml:"shift_layers,omitempty" yaml:"shiftLayers,omitempty"`
	CreatedAt      time.Time       `json:"createdAt" toml:"created_at" yaml:"createdAt"`
	ModifiedAt     time.Time       `json:"modifiedAt" toml:"modified_at" yaml:"modifiedAt"`
}

// New creates an empty named profile.
func New(name string) *Profile {
	now := time.Now().UTC().Truncate(time.Second)
	return &Profile{Name: name, CreatedAt: now, ModifiedAt: now}
}

// MappingCount returns the total number of mappings of any kind,
// including shift-layer mappings.
func (p *Profile) MappingCount() int {
	n := len(p.AxisMappings) + len(p.ButtonMappings) + len(p.HatMappings)
	for _, l := range p.ShiftLayers {
		n += len(l.AxisMappings) + len(l.ButtonMappings)
	}
	return n
}

func (p *Profile) touch() {
	p.ModifiedAt = time.Now().UTC().Truncate(time.Second)
}

// BindAxis finds the axis mapping targeting the given virtual axis slot,
// or creates one, and adds src to its inputs. Adding a source that is
// already bound is a no-op.
func (p *Profile) BindAxis(src InputSource, out OutputTarget) *AxisMapping {
	for i := range p.AxisMappings {
		m := &p.AxisMappings[i]
		if m.Output.SameSlot(out) {
			for _, in := range m.Inputs {
				if in.Same(src) {
					return m
				}
			}
			m.Inputs = append(m.Inputs, src)
			p.touch()
			return m
		}
	}
	p.AxisMappings = append(p.AxisMappings, AxisMapping{
		Name:     fmt.Sprintf("Axis %d", out.Index+1),
		Inputs:   []InputSource{src},
		Output:   out,
		Curve:    curve.New(),
		MergeOp:  MergeAverage,
		AxisKind: KindCentered,
	})
	p.touch()
	return &p.AxisMappings[len(p.AxisMappings)-1]
}

// BindButton finds the button mapping owning the given output slot, or
// creates one. A slot has a single owning mapping; additional sources
// bound to the same slot OR into it.
func (p *Profile) BindButton(src InputSource, out OutputTarget) *ButtonMapping {
	for i := range p.ButtonMappings {
		m := &p.ButtonMappings[i]
		if m.Output.SameSlot(out) {
			for _, in := range m.Inputs {
				if in.Same(src) {
					return m
				}
			}
			m.Inputs = append(m.Inputs, src)
			p.touch()
			return m
		}
	}
	p.ButtonMappings = append(p.ButtonMappings, ButtonMapping{
		Name:            fmt.Sprintf("Button %d", out.Index+1),
		Inputs:          []InputSource{src},
		Output:          out,
		Mode:            ModeNormal,
		PulseDurationMs: MinPulseMs,
		HoldDurationMs:  500,
		Enabled:         true,
	})
	p.touch()
	return &p.ButtonMappings[len(p.ButtonMappings)-1]
}

// BindHat forwards a physical hat to a virtual POV slot.
func (p *Profile) BindHat(src InputSource, out OutputTarget, continuous bool) *HatMapping {
	for i := range p.HatMappings {
		m := &p.HatMappings[i]
		if m.Output.SameSlot(out) {
			for _, in := range m.Inputs {
				if in.Same(src) {
					return m
				}
			}
			m.Inputs = append(m.Inputs, src)
			p.touch()
			return m
		}
	}
	p.HatMappings = append(p.HatMappings, HatMapping{
		Name:          fmt.Sprintf("POV %d", out.Index+1),
		Inputs:        []InputSource{src},
		Output:        out,
		UseContinuous: continuous,
	})
	p.touch()
	return &p.HatMappings[len(p.HatMappings)-1]
}

// RemoveInput unbinds a physical control from every mapping. Mappings
// left with no inputs are deleted.
func (p *Profile) RemoveInput(src InputSource) {
	changed := false
	p.AxisMappings = filterAxis(p.AxisMappings, src, &changed)
	p.ButtonMappings = filterButtons(p.ButtonMappings, src, &changed)
	p.HatMappings = filterHats(p.HatMappings, src, &changed)
	for i := range p.ShiftLayers {
		l := &p.ShiftLayers[i]
		l.AxisMappings = filterAxis(l.AxisMappings, src, &changed)
		l.ButtonMappings = filterButtons(l.ButtonMappings, src, &changed)
	}
	if changed {
		p.touch()
	}
}

// ClearMappings removes every mapping but keeps the profile itself.
func (p *Profile) ClearMappings() {
	p.AxisMappings = nil
	p.ButtonMappings = nil
	p.HatMappings = nil
	p.ShiftLayers = nil
	p.touch()
}

// AutoMap creates 1:1 mappings for a physical device: axis n to virtual
// axis n, button n to virtual button n, hat n to virtual POV n, capped by
// the virtual device's capability counts.
func (p *Profile) AutoMap(deviceID, deviceName string, vjoyID, axes, buttons, hats int) {
	for i := 0; i < axes; i++ {
		p.BindAxis(
			InputSource{DeviceID: deviceID, DeviceName: deviceName, Type: InputAxis, Index: i},
			OutputTarget{Type: OutVJoyAxis, VJoyDevice: vjoyID, Index: i},
		)
	}
	for i := 0; i < buttons; i++ {
		p.BindButton(
			InputSource{DeviceID: deviceID, DeviceName: deviceName, Type: InputButton, Index: i},
			OutputTarget{Type: OutVJoyButton, VJoyDevice: vjoyID, Index: i},
		)
	}
	for i := 0; i < hats; i++ {
		p.BindHat(
			InputSource{DeviceID: deviceID, DeviceName: deviceName, Type: InputHat, Index: i},
			OutputTarget{Type: OutVJoyPov, VJoyDevice: vjoyID, Index: i},
			false,
		)
	}
}

// VJoyDevices returns the distinct virtual device ids referenced by any
// mapping, shift layers included.
func (p *Profile) VJoyDevices() []int {
	seen := make(map[int]bool)
	var ids []int
	add := func(o OutputTarget) {
		if o.Type == OutKeyboard {
			return
		}
		if !seen[o.VJoyDevice] {
			seen[o.VJoyDevice] = true
			ids = append(ids, o.VJoyDevice)
		}
	}
	for _, m := range p.AxisMappings {
		add(m.Output)
	}
	for _, m := range p.ButtonMappings {
		add(m.Output)
	}
	for _, m := range p.HatMappings {
		add(m.Output)
	}
	for _, l := range p.ShiftLayers {
		for _, m := range l.AxisMappings {
			add(m.Output)
		}
		for _, m := range l.ButtonMappings {
			add(m.Output)
		}
	}
	return ids
}

// Validate checks structural invariants: non-empty input lists, curve
// validity, sane enum values, and single ownership of button slots.
func (p *Profile) Validate() error {
	slots := make(map[buttonSlot]string)
	if err := validateAxis(p.AxisMappings); err != nil {
		return err
	}
	if err := validateButtons(p.ButtonMappings, slots); err != nil {
		return err
	}
	for _, m := range p.HatMappings {
		if len(m.Inputs) == 0 {
			return fmt.Errorf("hat mapping %q has no inputs", m.Name)
		}
		if m.Output.Type != OutVJoyPov {
			return fmt.Errorf("hat mapping %q must target a virtual POV", m.Name)
		}
	}
	for _, l := range p.ShiftLayers {
		if l.Trigger.Type != InputButton {
			return fmt.Errorf("shift layer %q trigger must be a button input", l.Name)
		}
		if err := validateAxis(l.AxisMappings); err != nil {
			return fmt.Errorf("shift layer %q: %w", l.Name, err)
		}
		// Layer slots shadow base slots, so each layer gets its own view.
		layerSlots := make(map[buttonSlot]string)
		if err := validateButtons(l.ButtonMappings, layerSlots); err != nil {
			return fmt.Errorf("shift layer %q: %w", l.Name, err)
		}
	}
	return nil
}

func validateAxis(ms []AxisMapping) error {
	for i := range ms {
		m := &ms[i]
		if len(m.Inputs) == 0 {
			return fmt.Errorf("axis mapping %q has no inputs", m.Name)
		}
		if m.Output.Type != OutVJoyAxis {
			return fmt.Errorf("axis mapping %q must target a virtual axis", m.Name)
		}
		if err := m.Curve.Validate(); err != nil {
			return fmt.Errorf("axis mapping %q: %w", m.Name, err)
		}
		if !m.MergeOp.valid() {
			return fmt.Errorf("axis mapping %q: unknown merge op %q", m.Name, m.MergeOp)
		}
	}
	return nil
}

// buttonSlot is the comparable identity of a virtual button output;
// OutputTarget itself carries a modifier slice and cannot key a map.
type buttonSlot struct {
	dev, idx int
}

func validateButtons(ms []ButtonMapping, slots map[buttonSlot]string) error {
	for i := range ms {
		m := &ms[i]
		if len(m.Inputs) == 0 {
			return fmt.Errorf("button mapping %q has no inputs", m.Name)
		}
		switch m.Output.Type {
		case OutVJoyButton:
			key := buttonSlot{dev: m.Output.VJoyDevice, idx: m.Output.Index}
			if prev, dup := slots[key]; dup {
				return fmt.Errorf("button mappings %q and %q both own vjoy%d button %d",
					prev, m.Name, m.Output.VJoyDevice, m.Output.Index)
			}
			slots[key] = m.Name
		case OutKeyboard:
			if m.Output.KeyName == "" {
				return fmt.Errorf("button mapping %q: keyboard target needs a key name", m.Name)
			}
		default:
			return fmt.Errorf("button mapping %q must target a virtual button or keyboard", m.Name)
		}
		switch m.Mode {
		case ModeNormal, ModeToggle, ModePulse, ModeHold:
		default:
			return fmt.Errorf("button mapping %q: unknown mode %q", m.Name, m.Mode)
		}
	}
	return nil
}

func filterAxis(ms []AxisMapping, src InputSource, changed *bool) []AxisMapping {
	out := ms[:0]
	for _, m := range ms {
		m.Inputs = removeSource(m.Inputs, src, changed)
		if len(m.Inputs) > 0 {
			out = append(out, m)
		} else {
			*changed = true
		}
	}
	return out
}

func filterButtons(ms []ButtonMapping, src InputSource, changed *bool) []ButtonMapping {
	out := ms[:0]
	for _, m := range ms {
		m.Inputs = removeSource(m.Inputs, src, changed)
		if len(m.Inputs) > 0 {
			out = append(out, m)
		} else {
			*changed = true
		}
	}
	return out
}

func filterHats(ms []HatMapping, src InputSource, changed *bool) []HatMapping {
	out := ms[:0]
	for _, m := range ms {
		m.Inputs = removeSource(m.Inputs, src, changed)
		if len(m.Inputs) > 0 {
			out = append(out, m)
		} else {
			*changed = true
		}
	}
	return out
}

func removeSource(ins []InputSource, src InputSource, changed *bool) []InputSource {
	out := ins[:0]
	for _, in := range ins {
		if in.Same(src) {
			*changed = true
			continue
		}
		out = append(out, in)
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
