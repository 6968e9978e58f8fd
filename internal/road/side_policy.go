package road

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DelayedPolicyIDBase separates plain policy ids (below) from delayed
// transition ids (at or above).
const DelayedPolicyIDBase = 100

const (
	laneChangeTime     = 3.0  // s to reach the target lane
	minLaneChangeDist  = 10.0 // m
	trajectoryTailDist = 30.0 // m of straight line past the lane change
	trajectoryStep     = 2.0  // m between trajectory points
	switchEpsilon      = 1e-9
)

// SidePolicy is the closed set of driving intents a car can follow:
// *LaneChangePolicy, *MaintainPolicy and *DelayedPolicy. The unexported
// marker method keeps the set closed to this package.
type SidePolicy interface {
	PolicyID() uint32
	// OperatingPolicy is the policy the car is committed to: the target
	// of an in-progress delayed transition, or the policy itself.
	OperatingPolicy() SidePolicy
	// ActivePolicy is the plain policy producing behaviour right now.
	ActivePolicy() SidePolicy

	ChooseTargetLane(r *Road, carI int) int
	ChooseFollowTime(r *Road, carI int) float64
	ChooseVel(r *Road, carI int) float64
	// ChooseTrajectory appends the desired path to traj and returns it.
	ChooseTrajectory(r *Road, carI int, traj []r2.Vec) []r2.Vec

	Clone() SidePolicy
	String() string

	sidePolicy()
}

// IsDelayed reports whether p is a delayed transition.
func IsDelayed(p SidePolicy) bool {
	_, ok := p.(*DelayedPolicy)
	return ok
}

// PolicyChoices is the candidate set considered for the ego vehicle.
func PolicyChoices() []SidePolicy {
	return []SidePolicy{
		NewLaneChangePolicy(1, 0, nil),
		NewLaneChangePolicy(2, 1, nil),
		NewMaintainPolicy(3),
	}
}

// ObstaclePolicyChoices is the set of hypotheses for other vehicles; the
// belief ranges over these indices.
func ObstaclePolicyChoices() []SidePolicy {
	return []SidePolicy{
		NewLaneChangePolicy(1, 0, nil),
		NewLaneChangePolicy(2, 1, nil),
	}
}

// LaneChangePolicy drives to the centre of a target lane, at the car's
// preferred velocity unless a velocity override is set.
type LaneChangePolicy struct {
	ID         uint32
	TargetLane int
	FollowTime float64
	Vel        *float64
}

// NewLaneChangePolicy builds a lane change to targetLane. vel may be nil.
func NewLaneChangePolicy(id uint32, targetLane int, vel *float64) *LaneChangePolicy {
	if id >= DelayedPolicyIDBase {
		panic(fmt.Sprintf("road: plain policy id %d collides with delayed id range", id))
	}
	return &LaneChangePolicy{ID: id, TargetLane: targetLane, FollowTime: FollowTime, Vel: vel}
}

func (p *LaneChangePolicy) sidePolicy()                     {}
func (p *LaneChangePolicy) PolicyID() uint32                { return p.ID }
func (p *LaneChangePolicy) OperatingPolicy() SidePolicy     { return p }
func (p *LaneChangePolicy) ActivePolicy() SidePolicy        { return p }
func (p *LaneChangePolicy) ChooseTargetLane(*Road, int) int { return p.TargetLane }
func (p *LaneChangePolicy) ChooseFollowTime(*Road, int) float64 {
	return p.FollowTime
}

func (p *LaneChangePolicy) ChooseVel(r *Road, carI int) float64 {
	if p.Vel != nil {
		return *p.Vel
	}
	return r.Cars[carI].PreferredVel
}

func (p *LaneChangePolicy) ChooseTrajectory(r *Road, carI int, traj []r2.Vec) []r2.Vec {
	return laneTrajectory(&r.Cars[carI], p.TargetLane, traj)
}

func (p *LaneChangePolicy) Clone() SidePolicy {
	out := *p
	if p.Vel != nil {
		v := *p.Vel
		out.Vel = &v
	}
	return &out
}

func (p *LaneChangePolicy) String() string {
	if p.Vel != nil {
		return fmt.Sprintf("LaneChange(%d: lane %d, vel %.1f)", p.ID, p.TargetLane, *p.Vel)
	}
	return fmt.Sprintf("LaneChange(%d: lane %d)", p.ID, p.TargetLane)
}

// MaintainPolicy holds whatever lane and velocity the car had the first
// time the policy was consulted.
type MaintainPolicy struct {
	ID uint32

	latched bool
	lane    int
	vel     float64
}

// NewMaintainPolicy returns an unlatched maintain policy.
func NewMaintainPolicy(id uint32) *MaintainPolicy {
	return &MaintainPolicy{ID: id}
}

func (p *MaintainPolicy) latch(r *Road, carI int) {
	if p.latched {
		return
	}
	car := &r.Cars[carI]
	p.lane = car.CurrentLane()
	p.vel = car.Vel
	p.latched = true
}

func (p *MaintainPolicy) sidePolicy()                 {}
func (p *MaintainPolicy) PolicyID() uint32            { return p.ID }
func (p *MaintainPolicy) OperatingPolicy() SidePolicy { return p }
func (p *MaintainPolicy) ActivePolicy() SidePolicy    { return p }

func (p *MaintainPolicy) ChooseTargetLane(r *Road, carI int) int {
	p.latch(r, carI)
	return p.lane
}

func (p *MaintainPolicy) ChooseFollowTime(*Road, int) float64 { return FollowTime }

func (p *MaintainPolicy) ChooseVel(r *Road, carI int) float64 {
	p.latch(r, carI)
	return p.vel
}

func (p *MaintainPolicy) ChooseTrajectory(r *Road, carI int, traj []r2.Vec) []r2.Vec {
	p.latch(r, carI)
	return laneTrajectory(&r.Cars[carI], p.lane, traj)
}

// Latched reports the held lane and velocity, if any.
func (p *MaintainPolicy) Latched() (lane int, vel float64, ok bool) {
	return p.lane, p.vel, p.latched
}

func (p *MaintainPolicy) Clone() SidePolicy {
	out := *p
	return &out
}

func (p *MaintainPolicy) String() string {
	if p.latched {
		return fmt.Sprintf("Maintain(%d: lane %d, vel %.1f)", p.ID, p.lane, p.vel)
	}
	return fmt.Sprintf("Maintain(%d)", p.ID)
}

// laneTrajectory appends a path from the car's position to the centre of
// laneI, followed by a straight tail.
func laneTrajectory(car *Car, laneI int, traj []r2.Vec) []r2.Vec {
	targetY := LaneY(laneI)
	changeDist := math.Max(car.Vel*laneChangeTime, minLaneChangeDist)
	total := changeDist + trajectoryTailDist
	for s := 0.0; s <= total; s += trajectoryStep {
		y := targetY
		if s < changeDist {
			y = car.Y + (targetY-car.Y)*smoothstep(s/changeDist)
		}
		traj = append(traj, r2.Vec{X: car.X + s, Y: y})
	}
	return traj
}

func smoothstep(u float64) float64 {
	return u * u * (3 - 2*u)
}
