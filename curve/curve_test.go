package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sweep(from, to, step float64) []float64 {
	var out []float64
	for v := from; v <= to+1e-9; v += step {
		out = append(out, v)
	}
	return out
}

func TestLinearNoDeadzoneIsIdentity(t *testing.T) {
	c := New()
	for _, v := range sweep(-1, 1, 0.05) {
		assert.InDelta(t, v, c.Apply(v, Centered), 1e-12, "v=%v", v)
	}
}

func TestCenterDeadzoneReturnsZero(t *testing.T) {
	c := New()
	c.DeadzoneCenterLow = -0.1
	c.DeadzoneCenterHigh = 0.15
	for _, v := range []float64{-0.1, -0.05, 0, 0.1, 0.15} {
		assert.Zero(t, c.Apply(v, Centered), "v=%v", v)
	}
}

func TestDeadzoneRescale(t *testing.T) {
	c := New()
	c.DeadzoneLow = -0.9
	c.DeadzoneCenterLow = -0.1
	c.DeadzoneCenterHigh = 0.1
	c.DeadzoneHigh = 0.9

	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"saturates low", -1, -1},
		{"at low bound", -0.9, -1},
		{"negative midband", -0.5, -0.5},
		{"at center low", -0.1, 0},
		{"center", 0, 0},
		{"at center high", 0.1, 0},
		{"positive midband", 0.5, 0.5},
		{"at high bound", 0.9, 1},
		{"saturates high", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, c.Apply(tt.in, Centered), 1e-9)
		})
	}
}

func TestShapeFunctions(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		in   float64
		want float64
	}{
		{"scurve midpoint", SCurve, 0.5, 0.5},
		{"scurve quarter", SCurve, 0.25, 0.25 * 0.25 * (3 - 0.5)},
		{"scurve full", SCurve, 1, 1},
		{"expo half", Exponential, 0.5, 0.25},
		{"expo full", Exponential, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.Type = tt.typ
			assert.InDelta(t, tt.want, c.Apply(tt.in, Centered), 1e-9)
		})
	}
}

func TestCenteredShapingIsOdd(t *testing.T) {
	for _, typ := range []Type{Linear, SCurve, Exponential} {
		c := New()
		c.Type = typ
		for _, v := range sweep(0, 1, 0.1) {
			assert.InDelta(t, -c.Apply(v, Centered), c.Apply(-v, Centered), 1e-12,
				"type=%v v=%v", typ, v)
		}
	}
}

func TestDoubleInvertIsIdentity(t *testing.T) {
	c := New()
	c.Type = SCurve
	c.DeadzoneCenterLow = -0.05
	c.DeadzoneCenterHigh = 0.05
	for _, v := range sweep(-1, 1, 0.1) {
		assert.InDelta(t, c.Apply(v, Centered), -(-c.Apply(v, Centered)), 1e-12)
	}
}

func TestEndOnlyShaping(t *testing.T) {
	c := New()
	c.Type = Exponential
	// Resting end stays at the resting end, full travel stays full.
	assert.InDelta(t, -1, c.Apply(-1, EndOnly), 1e-9)
	assert.InDelta(t, 1, c.Apply(1, EndOnly), 1e-9)
	// Center of travel shapes as t=0.5 -> 0.25 -> -0.5 in [-1,1].
	assert.InDelta(t, -0.5, c.Apply(0, EndOnly), 1e-9)
}

func TestCustomSplinePassesThroughControlPoints(t *testing.T) {
	pts := []Point{{0, 0}, {0.25, 0.1}, {0.6, 0.3}, {1, 1}}
	c := NewCustom(pts)
	require.NoError(t, c.Validate())
	for _, p := range pts {
		got := c.Apply(p.X, Centered)
		assert.InDelta(t, p.Y, got, 1e-6, "x=%v", p.X)
	}
}

func TestCustomSplineStaysInRange(t *testing.T) {
	c := NewCustom([]Point{{0, 0}, {0.3, 0.8}, {0.5, 0.1}, {1, 1}})
	for _, v := range sweep(0, 1, 0.01) {
		got := c.Apply(v, Centered)
		assert.GreaterOrEqual(t, got, 0.0, "x=%v", v)
		assert.LessOrEqual(t, got, 1.0, "x=%v", v)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Curve)
		wantErr bool
	}{
		{"default ok", func(c *Curve) {}, false},
		{"deadzone out of order", func(c *Curve) { c.DeadzoneCenterLow = 0.2 }, true},
		{"deadzone outside range", func(c *Curve) { c.DeadzoneLow = -1.5 }, true},
		{"custom too few points", func(c *Curve) {
			c.Type = Custom
			c.Points = []Point{{0, 0}}
		}, true},
		{"custom first not at zero", func(c *Curve) {
			c.Type = Custom
			c.Points = []Point{{0.1, 0}, {1, 1}}
		}, true},
		{"custom non increasing", func(c *Curve) {
			c.Type = Custom
			c.Points = []Point{{0, 0}, {0.5, 0.5}, {0.5, 0.6}, {1, 1}}
		}, true},
		{"custom ok", func(c *Curve) {
			c.Type = Custom
			c.Points = []Point{{0, 0}, {0.5, 0.4}, {1, 1}}
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAddPointKeepsSeparation(t *testing.T) {
	c := NewCustom([]Point{{0, 0}, {0.5, 0.5}, {1, 1}})
	require.NoError(t, c.AddPoint(0.25, 0.2))
	assert.Error(t, c.AddPoint(0.251, 0.3), "within MinPointGap of existing point")
	assert.Len(t, c.Points, 4)
}

func TestMovePointClampsBetweenNeighbors(t *testing.T) {
	c := NewCustom([]Point{{0, 0}, {0.3, 0.3}, {0.6, 0.6}, {1, 1}})
	require.NoError(t, c.MovePoint(1, 0.95, 0.4))
	assert.InDelta(t, 0.6-MinPointGap, c.Points[1].X, 1e-9)

	// Endpoints keep their x no matter what.
	require.NoError(t, c.MovePoint(0, 0.4, 0.1))
	assert.Zero(t, c.Points[0].X)
	assert.InDelta(t, 0.1, c.Points[0].Y, 1e-9)
}

func TestSymmetricalEditsMirror(t *testing.T) {
	c := NewCustom([]Point{{0, 0}, {1, 1}})
	c.Symmetrical = true

	require.NoError(t, c.AddPoint(0.2, 0.1))
	require.Len(t, c.Points, 4)
	assert.Equal(t, Point{0.8, 0.9}, c.Points[2])

	require.NoError(t, c.MovePoint(1, 0.3, 0.15))
	assert.Equal(t, Point{0.7, 0.85}, c.Points[2])

	require.NoError(t, c.RemovePoint(1))
	assert.Len(t, c.Points, 2)
}

func TestRemoveEndpointRejected(t *testing.T) {
	c := NewCustom([]Point{{0, 0}, {0.5, 0.5}, {1, 1}})
	assert.Error(t, c.RemovePoint(0))
	assert.Error(t, c.RemovePoint(2))
	assert.NoError(t, c.RemovePoint(1))
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"linear", Linear, false},
		{"scurve", SCurve, false},
		{"exponential", Exponential, false},
		{"custom", Custom, false},
		{"", Linear, false},
		{"squiggle", Linear, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateRejectsUnknownType(t *testing.T) {
	c := New()
	c.Type = "squiggle"
	assert.Error(t, c.Validate())
}

func TestMovePointSymmetricalMirrorNeedsRoom(t *testing.T) {
	// Asymmetric list: the mirror of 0.1 is 0.9, right on top of an
	// existing point, so the move must fail and leave nothing changed.
	c := NewCustom([]Point{{0, 0}, {0.25, 0.25}, {0.9, 0.8}, {0.95, 0.9}, {1, 1}})
	c.Symmetrical = true
	before := append([]Point(nil), c.Points...)

	require.Error(t, c.MovePoint(1, 0.1, 0.1))
	assert.Equal(t, before, c.Points)

	// With room for both writes the mirror follows.
	require.NoError(t, c.MovePoint(1, 0.05, 0.1))
	assert.InDelta(t, 0.05, c.Points[1].X, 1e-9)
	assert.InDelta(t, 0.95, c.Points[3].X, 1e-9)
	assert.InDelta(t, 0.9, c.Points[3].Y, 1e-9)
}
