// Package vdev models the virtual joystick layer: device capabilities,
// the write interface the engine drives, and a registry handing out
// exclusive ownership of configured devices.
package vdev

import (
	"fmt"
	"sync"
)

// Capabilities describes what one virtual device exposes, as reported by
// the driver at engine start.
type Capabilities struct {
	AxisCount    int
	ButtonCount  int
	ContPovCount int
	DiscPovCount int
}

// PovCount returns the number of POV slots regardless of kind.
func (c Capabilities) PovCount() int {
	if c.ContPovCount > 0 {
		return c.ContPovCount
	}
	return c.DiscPovCount
}

// Device is an acquired virtual device the engine writes to each tick.
// Axis values are normalized to [-1, 1]; POV values follow the driver
// convention (hundredths of a degree continuous, 0-3 discrete, -1
// neutral).
type Device interface {
	SetAxis(index int, value float64) error
	SetButton(index int, pressed bool) error
	SetPov(index int, value int) error
	Relinquish() error
}

// MemDevice is an in-memory Device recording the last written values.
// It backs the registry when no driver transport is configured and is
// what the tests observe.
type MemDevice struct {
	mu      sync.Mutex
	caps    Capabilities
	axes    []float64
	buttons []bool
	povs    []int
}

// NewMemDevice creates a device with every value at rest (axes 0,
// buttons released, POVs neutral).
func NewMemDevice(caps Capabilities) *MemDevice {
	povs := make([]int, caps.PovCount())
	for i := range povs {
		povs[i] = -1
	}
	return &MemDevice{
		caps:    caps,
		axes:    make([]float64, caps.AxisCount),
		buttons: make([]bool, caps.ButtonCount),
		povs:    povs,
	}
}

func (d *MemDevice) SetAxis(index int, value float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.axes) {
		return fmt.Errorf("axis index %d out of range [0,%d)", index, len(d.axes))
	}
	if value > 1 {
		value = 1
	} else if value < -1 {
		value = -1
	}
	d.axes[index] = value
	return nil
}

func (d *MemDevice) SetButton(index int, pressed bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.buttons) {
		return fmt.Errorf("button index %d out of range [0,%d)", index, len(d.buttons))
	}
	d.buttons[index] = pressed
	return nil
}

func (d *MemDevice) SetPov(index int, value int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.povs) {
		return fmt.Errorf("pov index %d out of range [0,%d)", index, len(d.povs))
	}
	d.povs[index] = value
	return nil
}

// Relinquish resets every output to rest, mirroring what the vJoy driver
// does when a feeder releases a device.
func (d *MemDevice) Relinquish() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.axes {
		d.axes[i] = 0
	}
	for i := range d.buttons {
		d.buttons[i] = false
	}
	for i := range d.povs {
		d.povs[i] = -1
	}
	return nil
}

// Axis returns the last written axis value.
func (d *MemDevice) Axis(index int) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.axes[index]
}

// Button returns the last written button state.
func (d *MemDevice) Button(index int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buttons[index]
}

// Pov returns the last written POV value.
func (d *MemDevice) Pov(index int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.povs[index]
}
