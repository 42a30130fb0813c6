package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsokol/vjmap/curve"
)

func axisSrc(dev string, idx int) InputSource {
	return InputSource{DeviceID: dev, DeviceName: dev, Type: InputAxis, Index: idx}
}

func btnSrc(dev string, idx int) InputSource {
	return InputSource{DeviceID: dev, DeviceName: dev, Type: InputButton, Index: idx}
}

func TestInputSourceIdentity(t *testing.T) {
	a := InputSource{DeviceID: "dev1", DeviceName: "Stick", Type: InputAxis, Index: 0}
	b := InputSource{DeviceID: "dev1", DeviceName: "renamed", Type: InputAxis, Index: 0}
	c := InputSource{DeviceID: "dev1", Type: InputButton, Index: 0}
	assert.True(t, a.Same(b), "name is not part of identity")
	assert.False(t, a.Same(c), "type is part of identity")
}

func TestBindAxisFindOrCreate(t *testing.T) {
	p := New("test")
	out := OutputTarget{Type: OutVJoyAxis, VJoyDevice: 1, Index: 0}

	m1 := p.BindAxis(axisSrc("dev1", 0), out)
	require.Len(t, p.AxisMappings, 1)

	// Second source on the same slot merges into the existing mapping.
	m2 := p.BindAxis(axisSrc("dev2", 3), out)
	assert.Len(t, p.AxisMappings, 1)
	assert.Len(t, m2.Inputs, 2)
	assert.Equal(t, m1.Name, m2.Name)

	// Rebinding the same source is a no-op.
	p.BindAxis(axisSrc("dev1", 0), out)
	assert.Len(t, p.AxisMappings[0].Inputs, 2)
}

func TestBindButtonSingleSlotOwner(t *testing.T) {
	p := New("test")
	out := OutputTarget{Type: OutVJoyButton, VJoyDevice: 1, Index: 4}
	p.BindButton(btnSrc("dev1", 0), out)
	p.BindButton(btnSrc("dev1", 1), out)
	require.Len(t, p.ButtonMappings, 1, "one mapping owns the slot")
	assert.Len(t, p.ButtonMappings[0].Inputs, 2)
	assert.NoError(t, p.Validate())
}

func TestValidateRejectsDuplicateButtonSlots(t *testing.T) {
	p := New("test")
	out := OutputTarget{Type: OutVJoyButton, VJoyDevice: 1, Index: 2}
	p.ButtonMappings = []ButtonMapping{
		{Name: "a", Inputs: []InputSource{btnSrc("dev1", 0)}, Output: out, Mode: ModeNormal},
		{Name: "b", Inputs: []InputSource{btnSrc("dev1", 1)}, Output: out, Mode: ModeNormal},
	}
	assert.Error(t, p.Validate())
}

func TestRemoveLastInputDeletesMapping(t *testing.T) {
	p := New("test")
	out := OutputTarget{Type: OutVJoyAxis, VJoyDevice: 1, Index: 0}
	p.BindAxis(axisSrc("dev1", 0), out)
	p.BindAxis(axisSrc("dev2", 1), out)

	p.RemoveInput(axisSrc("dev1", 0))
	require.Len(t, p.AxisMappings, 1)
	assert.Len(t, p.AxisMappings[0].Inputs, 1)

	p.RemoveInput(axisSrc("dev2", 1))
	assert.Empty(t, p.AxisMappings, "mapping deleted with its last input")
}

func TestRemoveInputReachesShiftLayers(t *testing.T) {
	p := New("test")
	p.ShiftLayers = []ShiftLayer{{
		Name:    "layer1",
		Trigger: btnSrc("dev1", 5),
		ButtonMappings: []ButtonMapping{{
			Name:   "b",
			Inputs: []InputSource{btnSrc("dev1", 0)},
			Output: OutputTarget{Type: OutVJoyButton, VJoyDevice: 1, Index: 0},
			Mode:   ModeNormal,
		}},
	}}
	p.RemoveInput(btnSrc("dev1", 0))
	assert.Empty(t, p.ShiftLayers[0].ButtonMappings)
}

func TestStructuralEditsBumpModifiedAt(t *testing.T) {
	p := New("test")
	before := p.ModifiedAt
	p.BindAxis(axisSrc("dev1", 0), OutputTarget{Type: OutVJoyAxis, VJoyDevice: 1, Index: 0})
	assert.False(t, p.ModifiedAt.Before(before))
}

func TestAutoMapRespectsCapabilities(t *testing.T) {
	p := New("test")
	p.AutoMap("dev1", "Stick", 1, 2, 3, 1)
	assert.Len(t, p.AxisMappings, 2)
	assert.Len(t, p.ButtonMappings, 3)
	assert.Len(t, p.HatMappings, 1)
	assert.NoError(t, p.Validate())
	assert.Equal(t, []int{1}, p.VJoyDevices())
}

func TestVJoyDevicesCollectsLayerTargets(t *testing.T) {
	p := New("test")
	p.BindAxis(axisSrc("dev1", 0), OutputTarget{Type: OutVJoyAxis, VJoyDevice: 1, Index: 0})
	p.ShiftLayers = []ShiftLayer{{
		Name:    "layer1",
		Trigger: btnSrc("dev1", 5),
		AxisMappings: []AxisMapping{{
			Name:    "alt",
			Inputs:  []InputSource{axisSrc("dev1", 0)},
			Output:  OutputTarget{Type: OutVJoyAxis, VJoyDevice: 2, Index: 0},
			Curve:   curve.New(),
			MergeOp: MergeAverage,
		}},
	}}
	assert.ElementsMatch(t, []int{1, 2}, p.VJoyDevices())
}

func TestDurationClamping(t *testing.T) {
	b := ButtonMapping{PulseDurationMs: 20, HoldDurationMs: 9000}
	assert.Equal(t, int64(MinPulseMs), b.PulseDuration().Milliseconds())
	assert.Equal(t, int64(MaxHoldMs), b.HoldDuration().Milliseconds())
}

func TestValidateModes(t *testing.T) {
	p := New("test")
	p.ButtonMappings = []ButtonMapping{{
		Name:   "bad",
		Inputs: []InputSource{btnSrc("dev1", 0)},
		Output: OutputTarget{Type: OutVJoyButton, VJoyDevice: 1, Index: 0},
		Mode:   ButtonMode("bounce"),
	}}
	assert.Error(t, p.Validate())
}

func TestValidateButtonSlotIdentity(t *testing.T) {
	// Slot ownership is keyed by (device, index); keyboard targets with
	// modifier lists and same-index slots on other devices are fine.
	p := New("slots")
	p.ButtonMappings = []ButtonMapping{
		{Name: "a", Inputs: []InputSource{btnSrc("dev1", 0)},
			Output: OutputTarget{Type: OutVJoyButton, VJoyDevice: 1, Index: 2}, Mode: ModeNormal},
		{Name: "b", Inputs: []InputSource{btnSrc("dev1", 1)},
			Output: OutputTarget{Type: OutVJoyButton, VJoyDevice: 2, Index: 2}, Mode: ModeNormal},
		{Name: "c", Inputs: []InputSource{btnSrc("dev1", 2)},
			Output: OutputTarget{Type: OutKeyboard, KeyName: "G", Modifiers: []string{"LeftShift"}}, Mode: ModeToggle},
		{Name: "d", Inputs: []InputSource{btnSrc("dev1", 3)},
			Output: OutputTarget{Type: OutKeyboard, KeyName: "H", Modifiers: []string{"LeftCtrl", "LeftAlt"}}, Mode: ModeNormal},
	}
	require.NoError(t, p.Validate())

	p.ButtonMappings = append(p.ButtonMappings, ButtonMapping{
		Name: "e", Inputs: []InputSource{btnSrc("dev1", 4)},
		Output: OutputTarget{Type: OutVJoyButton, VJoyDevice: 2, Index: 2}, Mode: ModeNormal,
	})
	assert.ErrorContains(t, p.Validate(), "both own")
}
