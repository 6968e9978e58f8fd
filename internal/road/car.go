package road

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/eudm/internal/geom"
)

// Vehicle constants, roughly a Toyota Prius.
const (
	PriusLength    = 4.6
	PriusWidth     = 1.8
	PriusWheelbase = 2.7
	PriusMaxSteer  = 0.5 // rad
	BrakingAccel   = 6.0 // m/s²
	SpeedDefault   = 15.0
	SpeedLow       = 10.0
	SpeedHigh      = 20.0
	SteerAccel     = 0.5 // rad/s
	FollowTime     = 1.5 // s
)

// Car is one agent on the road. Index 0 is always the ego vehicle.
type Car struct {
	CarI int

	X, Y  float64 // footprint centre
	Theta float64 // heading, rad
	Vel   float64 // m/s
	Steer float64 // front wheel angle, rad

	Length, Width float64

	PreferredVel        float64
	PreferredSteerAccel float64

	TargetLaneI      int
	TargetFollowTime float64
	TargetVel        float64

	Crashed bool

	SidePolicy     SidePolicy
	ForwardControl ForwardControl
	SideControl    SideControl
}

// NewCar builds a car at the lane centre of laneI with the default
// controllers and a lane-keeping policy.
func NewCar(carI, laneI int) Car {
	return Car{
		CarI:                carI,
		Y:                   LaneY(laneI),
		Vel:                 SpeedDefault,
		Length:              PriusLength,
		Width:               PriusWidth,
		PreferredVel:        SpeedDefault,
		PreferredSteerAccel: SteerAccel,
		TargetLaneI:         laneI,
		TargetFollowTime:    FollowTime,
		TargetVel:           SpeedDefault,
		SidePolicy:          NewLaneChangePolicy(uint32(laneI+1), laneI, nil),
		ForwardControl:      NewIDMControl(),
		SideControl:         NewPurePursuitControl(),
	}
}

// RandomCar places a car at a random position and speed in a random lane
// ahead of or around the ego, driving a random obstacle policy.
func RandomCar(carI int, rng *rand.Rand) Car {
	laneI := rng.Intn(2)
	car := NewCar(carI, laneI)
	car.X = rng.Float64()*200 - 50
	car.PreferredVel = SpeedLow + rng.Float64()*(SpeedHigh-SpeedLow)
	car.Vel = car.PreferredVel
	car.TargetVel = car.PreferredVel
	choices := ObstaclePolicyChoices()
	car.SidePolicy = choices[rng.Intn(len(choices))].Clone()
	return car
}

// Pose is the footprint centre and heading.
func (c *Car) Pose() (r2.Vec, float64) {
	return r2.Vec{X: c.X, Y: c.Y}, c.Theta
}

// Footprint is the car's oriented rectangle at its current pose.
func (c *Car) Footprint() geom.Rect {
	return geom.NewRect(c.X, c.Y, c.Theta, c.Length, c.Width)
}

// IsEgo reports whether this is the controlled vehicle.
func (c *Car) IsEgo() bool {
	return c.CarI == 0
}

// CurrentLane is the lane containing the car's centre.
func (c *Car) CurrentLane() int {
	return LaneIndex(c.Y)
}

// ActivePolicyID is the id of the policy currently steering the car. For a
// delayed transition this is the from-policy until the switch happens.
func (c *Car) ActivePolicyID() uint32 {
	if c.SidePolicy == nil {
		return 0
	}
	return c.SidePolicy.ActivePolicy().PolicyID()
}

// Update advances the pose by dt with a kinematic bicycle model.
func (c *Car) Update(dt float64) {
	sin, cos := math.Sincos(c.Theta)
	c.X += c.Vel * cos * dt
	c.Y += c.Vel * sin * dt
	c.Theta += c.Vel / PriusWheelbase * math.Tan(c.Steer) * dt
}

// Clone deeply copies the car, including stateful policies.
func (c *Car) Clone() Car {
	out := *c
	if c.SidePolicy != nil {
		out.SidePolicy = c.SidePolicy.Clone()
	}
	return out
}

// SimEstimate is the car as seen by the planner: identical state, with
// the policy left to be resampled from the belief.
func (c *Car) SimEstimate() Car {
	return c.Clone()
}

func (c Car) String() string {
	return fmt.Sprintf("car %d: x %.2f y %.2f theta %.3f vel %.2f steer %.3f crashed %v policy %d",
		c.CarI, c.X, c.Y, c.Theta, c.Vel, c.Steer, c.Crashed, c.ActivePolicyID())
}
