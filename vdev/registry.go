package vdev

import (
	"fmt"
	"os"
	"sync"
)

// DeviceState reports how a configured device id currently stands.
type DeviceState int

const (
	// StateNotConfigured means the id is unknown to the driver config.
	StateNotConfigured DeviceState = iota
	// StateFree means the device exists and can be acquired.
	StateFree
	// StateBusy means another owner holds the device.
	StateBusy
)

// Status is the result of probing a device id.
type Status struct {
	State DeviceState
	// OwnerPID is the owning process when State is StateBusy and the
	// owner could be determined, else 0.
	OwnerPID int
}

// BusyError reports an acquisition attempt on a device held elsewhere.
type BusyError struct {
	ID       int
	OwnerPID int
}

func (e *BusyError) Error() string {
	if e.OwnerPID > 0 {
		return fmt.Sprintf("vjoy device %d is owned by pid %d", e.ID, e.OwnerPID)
	}
	return fmt.Sprintf("vjoy device %d is owned by another process", e.ID)
}

// NotConfiguredError reports a device id absent from the driver config.
type NotConfiguredError struct {
	ID int
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("vjoy device %d is not configured", e.ID)
}

type entry struct {
	caps     Capabilities
	dev      *MemDevice
	acquired bool
	lock     *fileLock
}

// Registry tracks the configured virtual devices and hands out exclusive
// ownership. In-process exclusivity is enforced directly; cross-process
// exclusivity uses per-device lock files carrying the owner PID when a
// lock directory is set.
type Registry struct {
	mu      sync.Mutex
	lockDir string
	devices map[int]*entry
}

// NewRegistry creates an empty registry. lockDir may be empty to disable
// cross-process locking (tests, single-instance setups).
func NewRegistry(lockDir string) *Registry {
	return &Registry{lockDir: lockDir, devices: make(map[int]*entry)}
}

// Configure registers a device id with its capabilities, replacing any
// previous configuration for that id.
func (r *Registry) Configure(id int, caps Capabilities) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[id] = &entry{caps: caps, dev: NewMemDevice(caps)}
}

// Capabilities returns the configured capabilities for id.
func (r *Registry) Capabilities(id int) (Capabilities, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.devices[id]
	if !ok {
		return Capabilities{}, false
	}
	return e.caps, true
}

// Status probes a device id without acquiring it.
func (r *Registry) Status(id int) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.devices[id]
	if !ok {
		return Status{State: StateNotConfigured}
	}
	if e.acquired {
		return Status{State: StateBusy, OwnerPID: os.Getpid()}
	}
	if r.lockDir != "" {
		if pid, held := probeLock(r.lockDir, id); held {
			return Status{State: StateBusy, OwnerPID: pid}
		}
	}
	return Status{State: StateFree}
}

// Acquire takes exclusive ownership of a device. It fails with
// *NotConfiguredError or *BusyError; the caller is expected to probe all
// devices first so it can report every conflict at once.
func (r *Registry) Acquire(id int) (Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.devices[id]
	if !ok {
		return nil, &NotConfiguredError{ID: id}
	}
	if e.acquired {
		return nil, &BusyError{ID: id, OwnerPID: os.Getpid()}
	}
	if r.lockDir != "" {
		lock, err := takeLock(r.lockDir, id)
		if err != nil {
			return nil, err
		}
		e.lock = lock
	}
	e.acquired = true
	return e.dev, nil
}

// Release gives a device back and resets its outputs. Releasing a device
// that is not held is a no-op.
func (r *Registry) Release(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.devices[id]
	if !ok || !e.acquired {
		return
	}
	_ = e.dev.Relinquish()
	if e.lock != nil {
		_ = e.lock.release()
		e.lock = nil
	}
	e.acquired = false
}

// Peek returns the backing device for tests and diagnostics, acquired or
// not.
func (r *Registry) Peek(id int) (*MemDevice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.devices[id]
	if !ok {
		return nil, false
	}
	return e.dev, true
}
