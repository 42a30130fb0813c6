package curve

import (
	"fmt"
	"sort"
)

// MinPointGap is the smallest allowed x distance between neighboring
// control points of a Custom curve.
const MinPointGap = 0.02

// AddPoint inserts a control point into a Custom curve, keeping the list
// sorted by x. When the curve is Symmetrical the mirrored point about
// (0.5, 0.5) is inserted as well.
func (c *Curve) AddPoint(x, y float64) error {
	if c.Type != Custom {
		return fmt.Errorf("cannot add control points to a %s curve", c.Type)
	}
	x = clamp(x, 0, 1)
	y = clamp(y, 0, 1)
	if err := c.insertPoint(x, y); err != nil {
		return err
	}
	if c.Symmetrical {
		mx, my := 1-x, 1-y
		if mx != x {
			// Mirror failures roll back the original insert so the curve
			// stays symmetric.
			if err := c.insertPoint(mx, my); err != nil {
				c.removeAtX(x)
				return err
			}
		}
	}
	return nil
}

// MovePoint repositions the control point at index i. Endpoint x values
// are pinned at 0 and 1; interior x values are clamped to keep at least
// MinPointGap from both neighbors. In Symmetrical mode the mirror point
// moves with it.
func (c *Curve) MovePoint(i int, x, y float64) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	y = clamp(y, 0, 1)
	if i == 0 {
		x = 0
	} else if i == len(c.Points)-1 {
		x = 1
	} else {
		lo := c.Points[i-1].X + MinPointGap
		hi := c.Points[i+1].X - MinPointGap
		if lo > hi {
			return fmt.Errorf("no room to move control point %d", i)
		}
		x = clamp(x, lo, hi)
	}
	if c.Symmetrical {
		if j := len(c.Points) - 1 - i; j != i {
			// The mirror write must respect its own neighbors too; an
			// asymmetric point list can leave it no room, in which case
			// the whole move is rolled back.
			prev := append([]Point(nil), c.Points...)
			c.Points[i] = Point{X: x, Y: y}
			c.Points[j] = Point{X: 1 - x, Y: 1 - y}
			for k := 1; k < len(c.Points); k++ {
				if c.Points[k].X-c.Points[k-1].X < MinPointGap {
					c.Points = prev
					return fmt.Errorf("no room for the mirror of control point %d", i)
				}
			}
			return nil
		}
	}
	c.Points[i] = Point{X: x, Y: y}
	return nil
}

// RemovePoint deletes an interior control point (endpoints are fixed).
// In Symmetrical mode the mirror point is removed as well.
func (c *Curve) RemovePoint(i int) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	if i == 0 || i == len(c.Points)-1 {
		return fmt.Errorf("endpoint control points cannot be removed")
	}
	if c.Symmetrical {
		if j := len(c.Points) - 1 - i; j != i {
			if j < i {
				i, j = j, i
			}
			c.Points = append(c.Points[:j], c.Points[j+1:]...)
		}
	}
	c.Points = append(c.Points[:i], c.Points[i+1:]...)
	return nil
}

func (c *Curve) checkIndex(i int) error {
	if c.Type != Custom {
		return fmt.Errorf("%s curve has no control points", c.Type)
	}
	if i < 0 || i >= len(c.Points) {
		return fmt.Errorf("control point index %d out of range [0,%d)", i, len(c.Points))
	}
	return nil
}

func (c *Curve) insertPoint(x, y float64) error {
	for _, p := range c.Points {
		if abs(p.X-x) < MinPointGap {
			return fmt.Errorf("control point too close to existing point at x=%v", p.X)
		}
	}
	c.Points = append(c.Points, Point{X: x, Y: y})
	sort.Slice(c.Points, func(a, b int) bool { return c.Points[a].X < c.Points[b].X })
	return nil
}

func (c *Curve) removeAtX(x float64) {
	for i, p := range c.Points {
		if p.X == x {
			c.Points = append(c.Points[:i], c.Points[i+1:]...)
			return
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
