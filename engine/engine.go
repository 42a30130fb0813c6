package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hsokol/vjmap/keyboard"
	"github.com/hsokol/vjmap/profile"
	"github.com/hsokol/vjmap/vdev"
)

// DefaultTickRate is the forwarding loop period (~100 Hz).
const DefaultTickRate = 10 * time.Millisecond

// Config wires the engine's collaborators. Provider and Devices are
// required; the rest default sensibly.
type Config struct {
	Provider SnapshotProvider
	Devices  *vdev.Registry
	Keyboard keyboard.Sink
	Logger   *slog.Logger
	TickRate time.Duration
	// Clock overrides time.Now for the timing state machines (tests).
	Clock func() time.Time
}

// Engine drives the mapping loop. All public methods are safe to call
// from any goroutine; Tick and Stop serialize on the same mutex, so a
// Stop issued mid-tick waits for the tick to finish before devices are
// released.
type Engine struct {
	provider SnapshotProvider
	devices  *vdev.Registry
	keys     keyboard.Sink
	logger   *slog.Logger
	now      func() time.Time
	tickRate time.Duration
	events   chan Event

	mu       sync.Mutex
	running  bool
	prof     *profile.Profile
	acquired map[int]vdev.Device
	axes     []axisEval
	buttons  []*buttonEval
	hats     []hatEval
	layers   []layerEval
}

// New creates a stopped engine. Load a profile and call Start or Run.
func New(cfg Config) *Engine {
	if cfg.Keyboard == nil {
		cfg.Keyboard = keyboard.NopSink{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Engine{
		provider: cfg.Provider,
		devices:  cfg.Devices,
		keys:     cfg.Keyboard,
		logger:   cfg.Logger,
		now:      cfg.Clock,
		tickRate: cfg.TickRate,
		events:   make(chan Event, eventBuffer),
	}
}

// LoadProfile replaces the mapping set. Only valid while stopped; the
// engine compiles its own read-only view at Start, so later edits to the
// profile do not affect a running engine.
func (e *Engine) LoadProfile(p *profile.Profile) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrRunning
	}
	e.prof = p
	return nil
}

// IsRunning reports whether the engine is forwarding.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Start validates the profile, checks every referenced virtual device,
// and acquires them all or none. On any conflict it returns a single
// DeviceUnavailableError naming every conflicting device.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrRunning
	}
	if e.prof == nil {
		return ErrNoProfile
	}
	if e.prof.MappingCount() == 0 {
		return ErrNoMappings
	}

	ids := e.prof.VJoyDevices()
	var conflicts []DeviceConflict
	for _, id := range ids {
		switch st := e.devices.Status(id); st.State {
		case vdev.StateNotConfigured:
			conflicts = append(conflicts, DeviceConflict{ID: id, Missing: true})
		case vdev.StateBusy:
			conflicts = append(conflicts, DeviceConflict{ID: id, OwnerPID: st.OwnerPID})
		}
	}
	if len(conflicts) > 0 {
		return &DeviceUnavailableError{Conflicts: conflicts}
	}

	acquired := make(map[int]vdev.Device, len(ids))
	for _, id := range ids {
		dev, err := e.devices.Acquire(id)
		if err != nil {
			// Lost a race since the probe; back out fully.
			for aid := range acquired {
				e.devices.Release(aid)
			}
			return &DeviceUnavailableError{Conflicts: []DeviceConflict{conflictFromErr(id, err)}}
		}
		acquired[id] = dev
	}

	e.acquired = acquired
	e.compile()
	e.running = true
	e.logger.Info("engine started",
		"profile", e.prof.Name,
		"devices", len(ids),
		"mappings", e.prof.MappingCount())
	return nil
}

// Stop releases every acquired device, lifts any held keyboard keys and
// discards all runtime button state. Idempotent.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return nil
	}
	for _, b := range e.allButtons() {
		if b.prevWritten && b.m.Output.Type == profile.OutKeyboard && !b.badKey {
			_ = e.keys.KeyUp(b.key, b.mods)
		}
	}
	for id := range e.acquired {
		e.devices.Release(id)
	}
	e.acquired = nil
	e.axes, e.buttons, e.hats, e.layers = nil, nil, nil, nil
	e.running = false
	e.logger.Info("engine stopped")
	return nil
}

// Run starts the engine and drives Tick at the configured rate until the
// context is cancelled, then stops it.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Start(); err != nil {
		return err
	}
	defer e.Stop()
	ticker := time.NewTicker(e.tickRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			e.Tick()
		}
	}
}

func conflictFromErr(id int, err error) DeviceConflict {
	var busy *vdev.BusyError
	if errors.As(err, &busy) {
		return DeviceConflict{ID: id, OwnerPID: busy.OwnerPID}
	}
	return DeviceConflict{ID: id, Missing: true}
}
