package cmd

import (
	"fmt"
	"log/slog"

	"github.com/hsokol/vjmap/profile"
)

// Check validates a profile file without touching any device.
type Check struct {
	Profile string `arg:"" help:"Profile file (toml/yaml/json)" type:"path"`
}

func (c *Check) Run(logger *slog.Logger) error {
	prof, err := profile.Load(c.Profile)
	if err != nil {
		return fmt.Errorf("profile invalid: %w", err)
	}

	devs := prof.VJoyDevices()
	logger.Info("profile valid",
		"name", prof.Name,
		"mappings", prof.MappingCount(),
		"axes", len(prof.AxisMappings),
		"buttons", len(prof.ButtonMappings),
		"hats", len(prof.HatMappings),
		"layers", len(prof.ShiftLayers),
		"vjoyDevices", devs,
	)
	return nil
}
