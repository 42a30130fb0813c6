package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a precondition failure checked before Start
// touches any device.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

var (
	// ErrNoProfile means Start was called with no profile loaded.
	ErrNoProfile = &ValidationError{Reason: "no active profile"}
	// ErrNoMappings means the loaded profile maps nothing.
	ErrNoMappings = &ValidationError{Reason: "profile has no mappings"}
	// ErrRunning guards operations that are only valid while stopped.
	ErrRunning = errors.New("engine is running")
)

// DeviceConflict is one virtual device the engine could not take.
type DeviceConflict struct {
	ID int
	// Missing is true when the device is not configured at all;
	// otherwise another owner holds it.
	Missing bool
	// OwnerPID is the owning process when known, else 0.
	OwnerPID int
}

func (c DeviceConflict) String() string {
	switch {
	case c.Missing:
		return fmt.Sprintf("vjoy %d not configured", c.ID)
	case c.OwnerPID > 0:
		return fmt.Sprintf("vjoy %d owned by pid %d", c.ID, c.OwnerPID)
	default:
		return fmt.Sprintf("vjoy %d owned by another process", c.ID)
	}
}

// DeviceUnavailableError aggregates every virtual-device conflict found
// during Start into a single report. Start acquires nothing when any
// device conflicts.
type DeviceUnavailableError struct {
	Conflicts []DeviceConflict
}

func (e *DeviceUnavailableError) Error() string {
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		parts[i] = c.String()
	}
	return "virtual devices unavailable: " + strings.Join(parts, "; ")
}
