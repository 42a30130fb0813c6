package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hsokol/vjmap/engine"
	"github.com/hsokol/vjmap/internal/configpaths"
	"github.com/hsokol/vjmap/keyboard"
	"github.com/hsokol/vjmap/profile"
	"github.com/hsokol/vjmap/vdev"
)

// Run loads a profile and forwards physical input to virtual devices
// until interrupted.
type Run struct {
	Profile  string        `arg:"" help:"Profile file (toml/yaml/json)" type:"path" env:"VJMAP_PROFILE"`
	TickRate time.Duration `help:"Forwarding loop period" default:"10ms" env:"VJMAP_TICK_RATE"`
	LockDir  string        `help:"Directory for device ownership lock files" type:"path" env:"VJMAP_LOCK_DIR"`
	Devices  []string      `help:"Virtual device capabilities as id:axes:buttons:povs" default:"1:8:32:1" env:"VJMAP_DEVICES"`
	Replay   string        `help:"Read physical input as JSON lines from this file ('-' for stdin)"`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prof, err := profile.Load(r.Profile)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	logger.Info("loaded profile", "name", prof.Name, "mappings", prof.MappingCount())

	reg, err := buildRegistry(r.LockDir, r.Devices)
	if err != nil {
		return err
	}

	provider, err := openProvider(r.Replay, logger)
	if err != nil {
		return err
	}

	eng := engine.New(engine.Config{
		Provider: provider,
		Devices:  reg,
		Keyboard: &keyboard.LogSink{Logger: logger},
		Logger:   logger,
		TickRate: r.TickRate,
	})
	if err := eng.LoadProfile(prof); err != nil {
		return err
	}

	go func() {
		for ev := range eng.Events() {
			logger.Warn("mapping skipped", "mapping", ev.Mapping, "reason", ev.Reason)
		}
	}()

	logger.Info("starting forwarding loop", "tickRate", r.TickRate)
	return eng.Run(ctx)
}

// buildRegistry configures the virtual device registry from id:axes:buttons:povs specs.
func buildRegistry(lockDir string, specs []string) (*vdev.Registry, error) {
	if lockDir == "" {
		lockDir = configpaths.DefaultLockDir()
	}
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	reg := vdev.NewRegistry(lockDir)
	for _, spec := range specs {
		id, caps, err := parseDeviceSpec(spec)
		if err != nil {
			return nil, err
		}
		reg.Configure(id, caps)
	}
	return reg, nil
}

func parseDeviceSpec(spec string) (int, vdev.Capabilities, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 4 {
		return 0, vdev.Capabilities{}, fmt.Errorf("device spec %q: want id:axes:buttons:povs", spec)
	}
	nums := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, vdev.Capabilities{}, fmt.Errorf("device spec %q: bad field %q", spec, p)
		}
		nums[i] = n
	}
	if nums[0] < 1 {
		return 0, vdev.Capabilities{}, fmt.Errorf("device spec %q: id must be >= 1", spec)
	}
	return nums[0], vdev.Capabilities{
		AxisCount:    nums[1],
		ButtonCount:  nums[2],
		ContPovCount: nums[3],
	}, nil
}
