// Package engine is the mapping/forwarding core: it snapshots physical
// device state at a fixed rate, runs every mapping through its merge,
// curve and button-mode transforms, and writes the results to acquired
// virtual devices.
package engine

// DeviceInputState is one physical device's state as captured by the
// polling collaborator. Axes are normalized to [-1, 1]; hat values are
// hundredths of a degree clockwise from north, -1 when centered.
type DeviceInputState struct {
	DeviceName string
	Axes       []float64
	Buttons    []bool
	Hats       []int
}

// Snapshot is the state of every physical device at one instant, keyed
// by device id. A tick takes exactly one snapshot so every mapping sees
// the same inputs.
type Snapshot map[string]DeviceInputState

// Axis returns the value of one physical axis, or false when the device
// is absent or the index is out of range.
func (s Snapshot) Axis(deviceID string, index int) (float64, bool) {
	d, ok := s[deviceID]
	if !ok || index < 0 || index >= len(d.Axes) {
		return 0, false
	}
	return d.Axes[index], true
}

// Button returns the state of one physical button.
func (s Snapshot) Button(deviceID string, index int) (bool, bool) {
	d, ok := s[deviceID]
	if !ok || index < 0 || index >= len(d.Buttons) {
		return false, false
	}
	return d.Buttons[index], true
}

// Hat returns the value of one physical hat.
func (s Snapshot) Hat(deviceID string, index int) (int, bool) {
	d, ok := s[deviceID]
	if !ok || index < 0 || index >= len(d.Hats) {
		return -1, false
	}
	return d.Hats[index], true
}

// SnapshotProvider is the physical-polling collaborator. Snapshot must
// return a consistent view; the engine never mutates it.
type SnapshotProvider interface {
	Snapshot() Snapshot
}

// SnapshotFunc adapts a function to SnapshotProvider.
type SnapshotFunc func() Snapshot

func (f SnapshotFunc) Snapshot() Snapshot { return f() }
