package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestIntersects_SamePose(t *testing.T) {
	a := NewRect(0, 0, 0, 4.5, 1.8)
	b := NewRect(0, 0, 0, 4.5, 1.8)
	assert.True(t, Intersects(a, b))
}

func TestIntersects_SeparatedAlongLength(t *testing.T) {
	a := NewRect(0, 0, 0, 4.5, 1.8)
	b := NewRect(4.6, 0, 0, 4.5, 1.8)
	assert.False(t, Intersects(a, b))
	assert.False(t, Intersects(b, a))
}

func TestIntersects_Rotated(t *testing.T) {
	// A car turned 90 degrees sitting across the nose of another.
	a := NewRect(0, 0, 0, 4.0, 2.0)
	b := NewRect(2.5, 0, math.Pi/2, 4.0, 2.0)
	assert.True(t, Intersects(a, b))

	// AABBs overlap but the rotated shapes do not.
	c := NewRect(0, 0, math.Pi/4, 4.0, 0.5)
	d := NewRect(1.6, -1.6, math.Pi/4, 4.0, 0.5)
	ab, db := c.AABB(), d.AABB()
	require.True(t, ab.Max.X > db.Min.X && ab.Min.Y < db.Max.Y, "AABBs should overlap")
	assert.False(t, Intersects(c, d))
}

func TestIntersects_Symmetric(t *testing.T) {
	rects := []Rect{
		NewRect(0, 0, 0, 4.5, 1.8),
		NewRect(3, 0.5, 0.3, 4.5, 1.8),
		NewRect(-2, 1.5, -0.8, 4.5, 1.8),
		NewRect(10, 0, math.Pi/2, 4.5, 1.8),
	}
	for i := range rects {
		for j := range rects {
			assert.Equal(t, Intersects(rects[i], rects[j]), Intersects(rects[j], rects[i]), "pair %d,%d", i, j)
		}
	}
}

func TestIntersects_DegeneratePanics(t *testing.T) {
	assert.Panics(t, func() {
		Intersects(NewRect(0, 0, 0, 0, 1), NewRect(0, 0, 0, 1, 1))
	})
}

func TestDistance(t *testing.T) {
	a := NewRect(0, 0, 0, 4, 2)
	b := NewRect(5, 0, 0, 4, 2)
	assert.InDelta(t, 1.0, Distance(a, b), 1e-9)

	c := NewRect(0, 3, 0, 4, 2)
	assert.InDelta(t, 1.0, Distance(a, c), 1e-9)

	assert.Equal(t, 0.0, Distance(a, NewRect(1, 0, 0.2, 4, 2)))

	// Diagonal offset: corner to corner.
	e := NewRect(5, 3, 0, 4, 2)
	assert.InDelta(t, math.Sqrt2, Distance(a, e), 1e-9)
}

func TestClosestWithinMargin(t *testing.T) {
	a := NewRect(0, 0, 0, 4, 2)

	d, ok := ClosestWithinMargin(a, NewRect(4.5, 0, 0, 4, 2), 1)
	require.True(t, ok)
	assert.InDelta(t, 0.5, d, 1e-9)

	_, ok = ClosestWithinMargin(a, NewRect(6, 0, 0, 4, 2), 1)
	assert.False(t, ok)

	d, ok = ClosestWithinMargin(a, a, 1)
	require.True(t, ok)
	assert.Equal(t, 0.0, d)
}

func TestAABB(t *testing.T) {
	r := NewRect(1, 2, math.Pi/2, 4, 2)
	box := r.AABB()
	assert.InDelta(t, 0.0, box.Min.X, 1e-9)
	assert.InDelta(t, 2.0, box.Max.X, 1e-9)
	assert.InDelta(t, 0.0, box.Min.Y, 1e-9)
	assert.InDelta(t, 4.0, box.Max.Y, 1e-9)

	flat := r.AxisAlignedAt(r2.Vec{X: 1, Y: 2})
	assert.InDelta(t, -1.0, flat.Min.X, 1e-9)
	assert.InDelta(t, 3.0, flat.Max.X, 1e-9)
	assert.InDelta(t, 1.0, flat.Min.Y, 1e-9)
	assert.InDelta(t, 3.0, flat.Max.Y, 1e-9)
}

func TestRangeDist(t *testing.T) {
	if got := RangeDist(0, 1, 2, 3); got != 1 {
		t.Errorf("RangeDist disjoint = %v, want 1", got)
	}
	if got := RangeDist(2, 3, 0, 1); got != 1 {
		t.Errorf("RangeDist reversed = %v, want 1", got)
	}
	if got := RangeDist(0, 2, 1, 3); got != 0 {
		t.Errorf("RangeDist overlapping = %v, want 0", got)
	}
}
