package curve

import "math"

// Centripetal parameterization exponent for Catmull-Rom knots.
const catmullAlpha = 0.5

// evalSpline evaluates the centripetal Catmull-Rom spline through points
// at the given x, with flat extrapolation beyond the first and last
// control point. Points must have strictly increasing x.
func evalSpline(points []Point, x float64) float64 {
	n := len(points)
	switch {
	case n == 0:
		return x
	case n == 1:
		return points[0].Y
	case x <= points[0].X:
		return points[0].Y
	case x >= points[n-1].X:
		return points[n-1].Y
	}

	// Locate the segment containing x.
	seg := 0
	for seg < n-2 && x >= points[seg+1].X {
		seg++
	}

	p1 := points[seg]
	p2 := points[seg+1]
	p0 := p1
	if seg > 0 {
		p0 = points[seg-1]
	}
	p3 := p2
	if seg+2 < n {
		p3 = points[seg+2]
	}

	s := newSegment(p0, p1, p2, p3)

	// x(u) is monotonic across the segment for function-shaped control
	// polygons, so bisect on the parameter to hit the requested x.
	lo, hi := s.t1, s.t2
	for i := 0; i < 48 && hi-lo > 1e-12; i++ {
		mid := (lo + hi) / 2
		px, _ := s.at(mid)
		if px < x {
			lo = mid
		} else {
			hi = mid
		}
	}
	_, y := s.at((lo + hi) / 2)
	return clamp(y, 0, 1)
}

// segment is one span of a centripetal Catmull-Rom spline with
// precomputed knot values.
type segment struct {
	p0, p1, p2, p3 Point
	t0, t1, t2, t3 float64
}

func newSegment(p0, p1, p2, p3 Point) segment {
	t0 := 0.0
	t1 := t0 + knotStep(p0, p1)
	t2 := t1 + knotStep(p1, p2)
	t3 := t2 + knotStep(p2, p3)
	return segment{p0, p1, p2, p3, t0, t1, t2, t3}
}

// knotStep returns the centripetal knot interval between two points.
// Coincident points (duplicated endpoints) get a small positive step so
// the Barry-Goldman pyramid never divides by zero.
func knotStep(a, b Point) float64 {
	d := math.Hypot(b.X-a.X, b.Y-a.Y)
	if d == 0 {
		return 1e-6
	}
	return math.Pow(d, catmullAlpha)
}

// at evaluates the segment at parameter t in [t1, t2] using the
// Barry-Goldman recursive interpolation.
func (s segment) at(t float64) (x, y float64) {
	a1x, a1y := lerp2(s.p0, s.p1, s.t0, s.t1, t)
	a2x, a2y := lerp2(s.p1, s.p2, s.t1, s.t2, t)
	a3x, a3y := lerp2(s.p2, s.p3, s.t2, s.t3, t)

	b1x := lerp(a1x, a2x, s.t0, s.t2, t)
	b1y := lerp(a1y, a2y, s.t0, s.t2, t)
	b2x := lerp(a2x, a3x, s.t1, s.t3, t)
	b2y := lerp(a2y, a3y, s.t1, s.t3, t)

	x = lerp(b1x, b2x, s.t1, s.t2, t)
	y = lerp(b1y, b2y, s.t1, s.t2, t)
	return x, y
}

func lerp2(a, b Point, ta, tb, t float64) (x, y float64) {
	return lerp(a.X, b.X, ta, tb, t), lerp(a.Y, b.Y, ta, tb, t)
}

func lerp(a, b, ta, tb, t float64) float64 {
	if tb == ta {
		return a
	}
	return a + (b-a)*(t-ta)/(tb-ta)
}
