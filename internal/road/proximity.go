package road

import (
	"fmt"
	"math"

	"github.com/banshee-data/eudm/internal/geom"
	"github.com/banshee-data/eudm/internal/monitoring"
	"gonum.org/v1/gonum/spatial/r2"
)

// Broad-phase thresholds.
const (
	// clearDistVelScale scales velocity into the longitudinal window searched
	// by DistClear* queries.
	clearDistVelScale = 100.0
	// smallTheta is the heading below which a car is treated as aligned
	// with its lane.
	smallTheta = 5.0 / 180.0 * math.Pi
)

// CollidesBetween is the exact footprint intersection test between two
// distinct cars.
func (r *Road) CollidesBetween(i, j int) bool {
	if i == j {
		panic(fmt.Sprintf("road: CollidesBetween called with identical indices %d", i))
	}
	a, b := &r.Cars[i], &r.Cars[j]
	if math.Abs(a.X-b.X) > (a.Length+b.Length)/2 {
		return false
	}
	return geom.Intersects(a.Footprint(), b.Footprint())
}

// CollidesAny reports whether car carI overlaps any other car.
func (r *Road) CollidesAny(carI int) bool {
	for i := range r.Cars {
		if i != carI && r.CollidesBetween(carI, i) {
			return true
		}
	}
	return false
}

// CollidesAnyCar reports whether car, which need not be on the road yet,
// overlaps any car on it.
func (r *Road) CollidesAnyCar(car *Car) bool {
	fp := car.Footprint()
	for i := range r.Cars {
		if geom.Intersects(fp, r.Cars[i].Footprint()) {
			return true
		}
	}
	return false
}

// LaneDefinitelyClearBetween reports whether no car other than skipCarI
// occupies lane laneI anywhere in [lowX, highX].
func (r *Road) LaneDefinitelyClearBetween(skipCarI, laneI int, lowX, highX float64) bool {
	if !(lowX < highX) {
		panic(fmt.Sprintf("road: empty lane interval [%v, %v]", lowX, highX))
	}
	region := geom.Rect{
		Center:     r2.Vec{X: (lowX + highX) / 2, Y: LaneY(laneI)},
		HalfLength: (highX - lowX) / 2,
		HalfWidth:  LaneWidth / 2,
	}
	for i := range r.Cars {
		c := &r.Cars[i]
		if c.CarI == skipCarI {
			continue
		}
		if c.X+c.Length/2 < lowX || c.X-c.Length/2 > highX {
			continue
		}
		aligned := math.Abs(c.Theta) < smallTheta
		if aligned {
			if c.CurrentLane() == laneI {
				return false
			}
			continue
		}
		if geom.Intersects(region, c.Footprint()) {
			return false
		}
	}
	return true
}

// DistClearAhead is DistClearInLane ahead of carI in any lane.
func (r *Road) DistClearAhead(carI int) (float64, int, bool) {
	return r.DistClearInLane(carI, nil, true)
}

// DistClearAheadInLane is DistClearInLane ahead of carI in laneI.
func (r *Road) DistClearAheadInLane(carI, laneI int) (float64, int, bool) {
	return r.DistClearInLane(carI, &laneI, true)
}

// DistClearBehindInLane is DistClearInLane behind carI in laneI.
func (r *Road) DistClearBehindInLane(carI, laneI int) (float64, int, bool) {
	return r.DistClearInLane(carI, &laneI, false)
}

// DistClearInLane finds the nearest car ahead of (or behind) carI whose
// bounding box laterally overlaps carI's box placed unrotated on the
// centre of laneI (or at carI's own y when laneI is nil). It returns the
// longitudinal gap between the boxes and that car's index.
//
// Dropping the rotation keeps a turning car's rear corners from sweeping
// into the neighbouring lane and reporting phantom leaders there.
func (r *Road) DistClearInLane(carI int, laneI *int, ahead bool) (float64, int, bool) {
	car := &r.Cars[carI]
	distThresh := car.Vel*clearDistVelScale + car.Length

	centre := r2.Vec{X: car.X, Y: car.Y}
	if laneI != nil {
		centre.Y = LaneY(*laneI)
	}
	box := car.Footprint().AxisAlignedAt(centre)

	minDist := math.MaxFloat64
	minCarI := -1
	for i := range r.Cars {
		c := &r.Cars[i]
		if math.Abs(c.X-car.X) >= distThresh {
			continue
		}
		if ahead && c.X < car.X || !ahead && c.X > car.X {
			continue
		}
		if i == carI {
			continue
		}
		if r.Params.ObstaclesOnlyForEgo && c.Crashed && !car.IsEgo() {
			continue
		}

		other := c.Footprint().AABB()
		sideSep := geom.RangeDist(box.Min.Y, box.Max.Y, other.Min.Y, other.Max.Y)
		if sideSep > SideMargin {
			continue
		}
		var dist float64
		if ahead {
			dist = other.Min.X - box.Max.X
		} else {
			dist = box.Min.X - other.Max.X
		}
		if dist < minDist {
			minDist = dist
			minCarI = i
		}

		if r.Params.SeparationDebug && r.SuperDebug() {
			if car.IsEgo() {
				monitoring.Logf("ego from %d side_sep=%.2f, dist=%.2f", i, sideSep, dist)
			} else if c.IsEgo() && r.Params.DebugCarI == car.CarI {
				monitoring.Logf("%d from ego side_sep=%.2f, dist=%.2f", car.CarI, sideSep, dist)
			}
		}
	}
	if minCarI < 0 {
		return 0, -1, false
	}
	return minDist, minCarI, true
}

// MinUnsafeDist is the smallest clearance between carI and any other car
// when that clearance is inside the safety margin. Overlapping cars report
// 0.
func (r *Road) MinUnsafeDist(carI int) (float64, bool) {
	margin := r.Params.Cost.SafetyMargin
	car := &r.Cars[carI]
	distThresh := 2*car.Length + margin

	fp := car.Footprint()
	box := fp.AABB()

	minDist := margin
	found := false
	for i := range r.Cars {
		if i == carI {
			continue
		}
		c := &r.Cars[i]
		if math.Abs(c.X-car.X) >= distThresh {
			continue
		}

		other := c.Footprint().AABB()
		sideSep := geom.RangeDist(box.Min.Y, box.Max.Y, other.Min.Y, other.Max.Y)
		if sideSep > margin {
			continue
		}
		longSep := geom.RangeDist(box.Min.X, box.Max.X, other.Min.X, other.Max.X)
		if math.Max(sideSep, longSep) >= minDist {
			continue
		}

		// Boxes are close enough; pay for the exact distance.
		if d, ok := geom.ClosestWithinMargin(fp, c.Footprint(), margin); ok && d < minDist {
			minDist = d
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return minDist, true
}
