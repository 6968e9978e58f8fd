// Package geom provides the narrow-phase geometry used for vehicle
// footprints: oriented rectangles, their axis-aligned bounds, exact
// intersection tests and exact clearance distances.
//
// All shapes live in the road plane (X along the road, Y across it).
// Degenerate footprints are programmer errors and panic.
package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Rect is an oriented rectangle centred on Center and rotated by Theta
// (radians, counter-clockwise from +X). HalfLength runs along the heading,
// HalfWidth across it.
type Rect struct {
	Center     r2.Vec
	Theta      float64
	HalfLength float64
	HalfWidth  float64
}

// NewRect builds a Rect from full length and width.
func NewRect(x, y, theta, length, width float64) Rect {
	return Rect{
		Center:     r2.Vec{X: x, Y: y},
		Theta:      theta,
		HalfLength: length / 2,
		HalfWidth:  width / 2,
	}
}

func (r Rect) mustBeValid() {
	if !(r.HalfLength > 0) || !(r.HalfWidth > 0) {
		panic(fmt.Sprintf("geom: degenerate rectangle half extents (%v, %v)", r.HalfLength, r.HalfWidth))
	}
}

// Axes returns the unit heading axis and the unit lateral axis.
func (r Rect) Axes() (r2.Vec, r2.Vec) {
	sin, cos := math.Sincos(r.Theta)
	return r2.Vec{X: cos, Y: sin}, r2.Vec{X: -sin, Y: cos}
}

// Corners returns the four corners in counter-clockwise order starting at
// front-left.
func (r Rect) Corners() [4]r2.Vec {
	u, v := r.Axes()
	du := r2.Scale(r.HalfLength, u)
	dv := r2.Scale(r.HalfWidth, v)
	return [4]r2.Vec{
		r2.Add(r.Center, r2.Add(du, dv)),
		r2.Sub(r2.Add(r.Center, dv), du),
		r2.Sub(r2.Sub(r.Center, du), dv),
		r2.Sub(r2.Add(r.Center, du), dv),
	}
}

// AABB returns the axis-aligned bounding box of the rotated rectangle.
func (r Rect) AABB() r2.Box {
	// Half extents of the rotated box projected onto X and Y.
	sin, cos := math.Sincos(r.Theta)
	hx := math.Abs(cos)*r.HalfLength + math.Abs(sin)*r.HalfWidth
	hy := math.Abs(sin)*r.HalfLength + math.Abs(cos)*r.HalfWidth
	return r2.Box{
		Min: r2.Vec{X: r.Center.X - hx, Y: r.Center.Y - hy},
		Max: r2.Vec{X: r.Center.X + hx, Y: r.Center.Y + hy},
	}
}

// AxisAlignedAt returns the bounding box the rectangle would have if it
// were centred at c with zero rotation.
func (r Rect) AxisAlignedAt(c r2.Vec) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: c.X - r.HalfLength, Y: c.Y - r.HalfWidth},
		Max: r2.Vec{X: c.X + r.HalfLength, Y: c.Y + r.HalfWidth},
	}
}

// RangeDist is the separation between the closed intervals [lowA, highA]
// and [lowB, highB], or 0 when they overlap.
func RangeDist(lowA, highA, lowB, highB float64) float64 {
	sep1 := math.Max(lowA-highB, 0)
	sep2 := math.Max(lowB-highA, 0)
	return math.Max(sep1, sep2)
}
