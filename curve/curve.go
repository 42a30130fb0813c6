// Package curve implements per-axis response curves: deadzone rescaling,
// fixed curve shapes, and user-defined spline curves.
//
// A curve is a pure value-to-value transform over the normalized axis
// range [-1, 1]. It never touches devices and holds no runtime state, so
// one Curve value can be shared between the editor and the running
// engine.
package curve

import (
	"fmt"
	"math"
)

// Type selects the curve shape applied after deadzone rescaling. Types
// persist by name, like every other enum in the profile model.
type Type string

const (
	Linear      Type = "linear"
	SCurve      Type = "scurve"
	Exponential Type = "exponential"
	Custom      Type = "custom"
)

func (t Type) String() string { return string(t) }

// ParseType resolves a stored curve type name. The empty string means
// linear, so hand-written profiles may omit the field.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case "":
		return Linear, nil
	case Linear, SCurve, Exponential, Custom:
		return t, nil
	}
	return Linear, fmt.Errorf("unknown curve type %q", s)
}

// Kind distinguishes how an axis uses its range. Centered axes (sticks,
// rudder) rest at 0 and are shaped symmetrically about it; end-only axes
// (throttle, sliders) rest at one end and are shaped across the whole
// range. The kind is a property of the mapping, supplied by the caller.
type Kind int

const (
	Centered Kind = iota
	EndOnly
)

// Point is a control point of a Custom curve, both coordinates in [0,1].
type Point struct {
	X float64 `json:"x" toml:"x" yaml:"x"`
	Y float64 `json:"y" toml:"y" yaml:"y"`
}

// Curve is an axis response curve: a four-bound deadzone rescale followed
// by a shape function. The zero value is not usable; call New for a
// pass-through curve.
type Curve struct {
	Type        Type    `json:"type" toml:"type" yaml:"type"`
	Points      []Point `json:"points,omitempty" toml:"points,omitempty" yaml:"points,omitempty"`
	Symmetrical bool    `json:"symmetrical" toml:"symmetrical" yaml:"symmetrical"`

	// Deadzone bounds, Low <= CenterLow <= 0 <= CenterHigh <= High.
	// CenterLow == CenterHigh == 0 disables the center dead band.
	DeadzoneLow        float64 `json:"deadzoneLow" toml:"deadzone_low" yaml:"deadzoneLow"`
	DeadzoneCenterLow  float64 `json:"deadzoneCenterLow" toml:"deadzone_center_low" yaml:"deadzoneCenterLow"`
	DeadzoneCenterHigh float64 `json:"deadzoneCenterHigh" toml:"deadzone_center_high" yaml:"deadzoneCenterHigh"`
	DeadzoneHigh       float64 `json:"deadzoneHigh" toml:"deadzone_high" yaml:"deadzoneHigh"`
}

// New returns a linear pass-through curve with no deadzone.
func New() Curve {
	return Curve{
		Type:         Linear,
		DeadzoneLow:  -1,
		DeadzoneHigh: 1,
	}
}

// NewCustom returns a Custom curve through the given points. Points must
// already satisfy the control-point invariants (see Validate).
func NewCustom(points []Point) Curve {
	c := New()
	c.Type = Custom
	c.Points = points
	return c
}

// Validate checks the deadzone ordering and, for Custom curves, the
// control-point invariants: endpoints at x=0 and x=1, x strictly
// increasing, all coordinates in [0,1].
func (c *Curve) Validate() error {
	if _, err := ParseType(string(c.Type)); err != nil {
		return err
	}
	if c.DeadzoneLow < -1 || c.DeadzoneHigh > 1 {
		return fmt.Errorf("deadzone bounds outside [-1,1]")
	}
	if !(c.DeadzoneLow <= c.DeadzoneCenterLow && c.DeadzoneCenterLow <= 0 &&
		0 <= c.DeadzoneCenterHigh && c.DeadzoneCenterHigh <= c.DeadzoneHigh) {
		return fmt.Errorf("deadzone bounds out of order: low=%v centerLow=%v centerHigh=%v high=%v",
			c.DeadzoneLow, c.DeadzoneCenterLow, c.DeadzoneCenterHigh, c.DeadzoneHigh)
	}
	if c.Type != Custom {
		return nil
	}
	if len(c.Points) < 2 {
		return fmt.Errorf("custom curve needs at least 2 control points, have %d", len(c.Points))
	}
	if c.Points[0].X != 0 {
		return fmt.Errorf("first control point must be at x=0, is %v", c.Points[0].X)
	}
	if c.Points[len(c.Points)-1].X != 1 {
		return fmt.Errorf("last control point must be at x=1, is %v", c.Points[len(c.Points)-1].X)
	}
	for i, p := range c.Points {
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
			return fmt.Errorf("control point %d outside [0,1]²: (%v, %v)", i, p.X, p.Y)
		}
		if i > 0 && p.X <= c.Points[i-1].X {
			return fmt.Errorf("control point x values must be strictly increasing at index %d", i)
		}
	}
	return nil
}

// Apply transforms a normalized axis value. The input is clamped to
// [-1,1], rescaled through the deadzone bounds, shaped, and clamped
// again. Inversion is the caller's business, applied after Apply.
func (c *Curve) Apply(v float64, kind Kind) float64 {
	v = clamp(v, -1, 1)
	r := c.rescale(v)
	var out float64
	if kind == EndOnly {
		// Shape across the whole travel, resting end at -1.
		t := (r + 1) / 2
		out = 2*c.shape(t) - 1
	} else {
		out = math.Copysign(c.shape(math.Abs(r)), r)
	}
	return clamp(out, -1, 1)
}

// rescale maps v through the deadzone bounds onto [-1,1]. Values inside
// the center band go to exactly 0; values at or beyond the outer bounds
// saturate; the bands in between rescale linearly.
func (c *Curve) rescale(v float64) float64 {
	switch {
	case v >= c.DeadzoneCenterLow && v <= c.DeadzoneCenterHigh:
		return 0
	case v <= c.DeadzoneLow:
		return -1
	case v >= c.DeadzoneHigh:
		return 1
	case v < c.DeadzoneCenterLow:
		return (v - c.DeadzoneCenterLow) / (c.DeadzoneCenterLow - c.DeadzoneLow)
	default:
		return (v - c.DeadzoneCenterHigh) / (c.DeadzoneHigh - c.DeadzoneCenterHigh)
	}
}

// shape maps a magnitude t in [0,1] to an output magnitude in [0,1].
func (c *Curve) shape(t float64) float64 {
	switch c.Type {
	case SCurve:
		return t * t * (3 - 2*t)
	case Exponential:
		return t * t
	case Custom:
		return evalSpline(c.Points, t)
	default:
		return t
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
