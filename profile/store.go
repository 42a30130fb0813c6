package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/hsokol/vjmap/curve"
)

// Load reads a profile from disk. The format is chosen by extension:
// .toml, .yaml/.yml or .json. Durations are clamped into their legal
// ranges; structural invariants are validated.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	switch ext(path) {
	case ".toml":
		err = toml.Unmarshal(data, &p)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &p)
	case ".json":
		err = json.Unmarshal(data, &p)
	default:
		return nil, fmt.Errorf("unsupported profile format %q", ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", filepath.Base(path), err)
	}
	p.clampDurations()
	p.normalizeCurves()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", filepath.Base(path), err)
	}
	return &p, nil
}

// Save writes the profile in the format implied by the path extension.
func Save(p *Profile, path string) error {
	var (
		data []byte
		err  error
	)
	switch ext(path) {
	case ".toml":
		data, err = toml.Marshal(p)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(p)
	case ".json":
		data, err = json.MarshalIndent(p, "", "  ")
	default:
		return fmt.Errorf("unsupported profile format %q", ext(path))
	}
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

func (p *Profile) clampDurations() {
	clampList := func(ms []ButtonMapping) {
		for i := range ms {
			ms[i].PulseDurationMs = clampInt(ms[i].PulseDurationMs, MinPulseMs, MaxPulseMs)
			ms[i].HoldDurationMs = clampInt(ms[i].HoldDurationMs, MinHoldMs, MaxHoldMs)
		}
	}
	clampList(p.ButtonMappings)
	for i := range p.ShiftLayers {
		clampList(p.ShiftLayers[i].ButtonMappings)
	}
}

// normalizeCurves fills in curve defaults a hand-written profile may
// omit: a missing type means linear, and all-zero deadzone bounds mean
// no deadzone rather than a zero-width range that saturates everything.
func (p *Profile) normalizeCurves() {
	fixList := func(ms []AxisMapping) {
		for i := range ms {
			c := &ms[i].Curve
			if c.Type == "" {
				c.Type = curve.Linear
			}
			if c.DeadzoneLow == 0 && c.DeadzoneHigh == 0 {
				c.DeadzoneLow, c.DeadzoneHigh = -1, 1
			}
		}
	}
	fixList(p.AxisMappings)
	for i := range p.ShiftLayers {
		fixList(p.ShiftLayers[i].AxisMappings)
	}
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
