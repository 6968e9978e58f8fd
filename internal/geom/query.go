package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Intersects reports whether the two rectangles overlap, using the
// separating axis theorem over both rectangles' edge normals. Touching
// edges count as an intersection.
func Intersects(a, b Rect) bool {
	a.mustBeValid()
	b.mustBeValid()

	ca, cb := a.Corners(), b.Corners()
	au, av := a.Axes()
	bu, bv := b.Axes()
	for _, axis := range [4]r2.Vec{au, av, bu, bv} {
		minA, maxA := project(ca, axis)
		minB, maxB := project(cb, axis)
		if maxA < minB || maxB < minA {
			return false
		}
	}
	return true
}

func project(corners [4]r2.Vec, axis r2.Vec) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range corners {
		p := r2.Dot(c, axis)
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	return lo, hi
}

// Distance returns the exact clearance between the two rectangles, or 0
// when they intersect.
func Distance(a, b Rect) float64 {
	if Intersects(a, b) {
		return 0
	}
	// For disjoint convex polygons the closest pair always involves a
	// vertex of one polygon and an edge of the other.
	ca, cb := a.Corners(), b.Corners()
	return math.Min(vertexEdgeDist(ca, cb), vertexEdgeDist(cb, ca))
}

// ClosestWithinMargin returns the clearance between a and b when it is
// strictly below margin. Intersecting rectangles report 0.
func ClosestWithinMargin(a, b Rect, margin float64) (float64, bool) {
	d := Distance(a, b)
	if d == 0 {
		return 0, true
	}
	if d < margin {
		return d, true
	}
	return 0, false
}

func vertexEdgeDist(points, poly [4]r2.Vec) float64 {
	best := math.Inf(1)
	for _, p := range points {
		for i := range poly {
			q0 := poly[i]
			q1 := poly[(i+1)%len(poly)]
			best = math.Min(best, pointSegmentDist(p, q0, q1))
		}
	}
	return best
}

func pointSegmentDist(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return r2.Norm(r2.Sub(p, a))
	}
	t := r2.Dot(r2.Sub(p, a), ab) / l2
	t = math.Max(0, math.Min(1, t))
	closest := r2.Add(a, r2.Scale(t, ab))
	return r2.Norm(r2.Sub(p, closest))
}
