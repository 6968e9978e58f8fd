package road

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ForwardControl turns a car's targets into a longitudinal acceleration.
// The only implementation is *IDMControl.
type ForwardControl interface {
	ChooseAccel(r *Road, carI int) float64
	forwardControl()
}

// SideControl turns a trajectory into a target steering angle. The only
// implementation is *PurePursuitControl.
type SideControl interface {
	ChooseSteer(r *Road, carI int, traj []r2.Vec) float64
	sideControl()
}

// IDMControl is the intelligent driver model, following the closest car
// in either the current or the target lane.
type IDMControl struct {
	MaxAccel     float64 // m/s²
	ComfortDecel float64 // m/s²
	MinGap       float64 // m
	Delta        float64
}

// NewIDMControl returns IDM with the usual highway constants.
func NewIDMControl() *IDMControl {
	return &IDMControl{MaxAccel: 2.0, ComfortDecel: 3.0, MinGap: 2.0, Delta: 4}
}

func (c *IDMControl) forwardControl() {}

func (c *IDMControl) ChooseAccel(r *Road, carI int) float64 {
	car := &r.Cars[carI]
	targetVel := math.Max(car.TargetVel, 0.1)
	accel := c.MaxAccel * (1 - math.Pow(car.Vel/targetVel, c.Delta))

	gap, leadI, ok := r.DistClearAheadInLane(carI, car.CurrentLane())
	if car.TargetLaneI != car.CurrentLane() {
		if g, i, tok := r.DistClearAheadInLane(carI, car.TargetLaneI); tok && (!ok || g < gap) {
			gap, leadI, ok = g, i, true
		}
	}
	if !ok {
		return accel
	}

	gap = math.Max(gap, 0.1)
	dv := car.Vel - r.Cars[leadI].Vel
	desired := c.MinGap + car.Vel*car.TargetFollowTime +
		car.Vel*dv/(2*math.Sqrt(c.MaxAccel*c.ComfortDecel))
	desired = math.Max(desired, 0)
	return accel - c.MaxAccel*(desired/gap)*(desired/gap)
}

// PurePursuitControl steers toward the first trajectory point at least
// one lookahead distance away.
type PurePursuitControl struct {
	LookaheadTime float64 // s
	MinLookahead  float64 // m
}

// NewPurePursuitControl returns pure pursuit with a one-second lookahead.
func NewPurePursuitControl() *PurePursuitControl {
	return &PurePursuitControl{LookaheadTime: 1.0, MinLookahead: 5.0}
}

func (c *PurePursuitControl) sideControl() {}

func (c *PurePursuitControl) ChooseSteer(r *Road, carI int, traj []r2.Vec) float64 {
	if len(traj) == 0 {
		return 0
	}
	car := &r.Cars[carI]
	pos := r2.Vec{X: car.X, Y: car.Y}
	lookahead := math.Max(car.Vel*c.LookaheadTime, c.MinLookahead)

	target := traj[len(traj)-1]
	for _, p := range traj {
		if r2.Norm(r2.Sub(p, pos)) >= lookahead {
			target = p
			break
		}
	}

	d := r2.Sub(target, pos)
	ld := r2.Norm(d)
	if ld < 1e-6 {
		return 0
	}
	alpha := math.Atan2(d.Y, d.X) - car.Theta
	return math.Atan(2 * PriusWheelbase * math.Sin(alpha) / ld)
}
