package road

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/banshee-data/eudm/internal/cost"
	"gonum.org/v1/gonum/spatial/r2"
)

// Road geometry.
const (
	LaneWidth  = 3.7
	RoadLength = 500.0
	SideMargin = 0.0

	randomCarAttempts = 100
)

// egoSnapshot is the part of the previous ego state the cost needs.
type egoSnapshot struct {
	Vel      float64
	Theta    float64
	PolicyID uint32
}

// Road is one consistent simulated world: the ego at index 0 plus every
// other car, a clock and the ego's accumulated cost.
//
// The clock and cost only move through Update.
type Road struct {
	Params *Params

	T         float64 // seconds
	Timesteps int

	Cars   []Car
	Belief *Belief

	Cost      cost.Cost
	EgoIsSafe bool
	Debug     bool

	lastEgo   egoSnapshot
	carTraces [][]TracePoint
	trajBuf   []r2.Vec
}

// NewRoad returns a road holding only the ego, in lane 0 at the default
// speed.
func NewRoad(params *Params) *Road {
	ego := NewCar(0, 0)
	ego.PreferredVel = SpeedDefault

	r := &Road{
		Params:    params,
		Cars:      []Car{ego},
		Cost:      cost.New(1.0),
		EgoIsSafe: true,
		Debug:     !params.RunFast,
	}
	r.ResyncEgo()
	r.ResetCarTraces()
	return r
}

// LaneY is the lateral centre of lane laneI.
func LaneY(laneI int) float64 {
	return (float64(laneI) - 0.5) * LaneWidth
}

// LaneIndex is the lane whose centre is nearest to y.
func LaneIndex(y float64) int {
	return int(math.Round(y/LaneWidth + 0.5))
}

func (r *Road) snapshotEgo() egoSnapshot {
	ego := &r.Cars[0]
	return egoSnapshot{Vel: ego.Vel, Theta: ego.Theta, PolicyID: ego.ActivePolicyID()}
}

// ResyncEgo refreshes the previous-step ego snapshot used by the cost.
// Call it after editing the ego's state outside Update, so the edit is not
// charged as an acceleration, turn or policy change.
func (r *Road) ResyncEgo() {
	r.lastEgo = r.snapshotEgo()
}

// AddObstacle places a crashed, stationary car across lane laneI at x.
func (r *Road) AddObstacle(x float64, laneI int) {
	car := NewCar(len(r.Cars), laneI)
	car.X = x
	car.Y += LaneWidth / 4
	car.Theta = math.Pi / 2
	car.Vel = 0
	car.PreferredVel = 0
	car.TargetVel = 0
	car.Crashed = true
	r.Cars = append(r.Cars, car)
}

// AddRandomCar inserts a randomly placed car that does not overlap any
// existing one. It panics if no free spot is found.
func (r *Road) AddRandomCar(rng *rand.Rand) {
	if !r.TryAddRandomCar(rng) {
		panic(fmt.Sprintf("road: could not place car %d after %d attempts", len(r.Cars), randomCarAttempts))
	}
}

// TryAddRandomCar is AddRandomCar reporting failure instead of panicking.
func (r *Road) TryAddRandomCar(rng *rand.Rand) bool {
	for attempt := 0; attempt < randomCarAttempts; attempt++ {
		car := RandomCar(len(r.Cars), rng)
		if r.CollidesAnyCar(&car) {
			continue
		}
		r.Cars = append(r.Cars, car)
		return true
	}
	return false
}

// InitBelief starts a uniform belief over the obstacle policy choices.
func (r *Road) InitBelief() {
	r.Belief = UniformBelief(len(r.Cars), len(ObstaclePolicyChoices()))
}

// UpdateBelief folds the current observation into the belief. The belief
// is replaced rather than mutated so sampled roads sharing the old one are
// unaffected.
func (r *Road) UpdateBelief() {
	if r.Belief == nil {
		panic("road: UpdateBelief before InitBelief")
	}
	next := r.Belief.Clone()
	next.Update(r, r.Params.BeliefUpdateRate)
	r.Belief = next
}

// cloneWithoutCars copies everything but the cars. Traces are dropped.
func (r *Road) cloneWithoutCars() *Road {
	return &Road{
		Params:    r.Params,
		T:         r.T,
		Timesteps: r.Timesteps,
		Belief:    r.Belief,
		Cost:      r.Cost,
		EgoIsSafe: r.EgoIsSafe,
		Debug:     r.Debug,
		lastEgo:   r.lastEgo,
	}
}

// Clone deep-copies the road state. Params and Belief are shared.
func (r *Road) Clone() *Road {
	out := r.cloneWithoutCars()
	out.Cars = make([]Car, len(r.Cars))
	for i := range r.Cars {
		out.Cars[i] = r.Cars[i].Clone()
	}
	if r.carTraces != nil {
		out.carTraces = make([][]TracePoint, len(r.carTraces))
		for i, tr := range r.carTraces {
			out.carTraces[i] = append([]TracePoint(nil), tr...)
		}
	}
	return out
}

// SimEstimate is the planner's copy of the road: no debug output and the
// search discount factor.
func (r *Road) SimEstimate() *Road {
	out := r.cloneWithoutCars()
	out.Cars = make([]Car, len(r.Cars))
	for i := range r.Cars {
		out.Cars[i] = r.Cars[i].SimEstimate()
	}
	out.Cars[0] = r.Cars[0].Clone()
	out.Debug = false
	out.Cost.DiscountFactor = r.Params.Cost.DiscountFactor
	return out
}

// SampleBelief draws one hypothesis of the other cars' policies from the
// belief and returns a planner road using it.
func (r *Road) SampleBelief(rng *rand.Rand) *Road {
	if r.Belief == nil {
		panic("road: SampleBelief without a belief")
	}
	policies := ObstaclePolicyChoices()
	out := r.SimEstimate()
	sample := r.Belief.Sample(rng)
	if len(sample) != len(out.Cars) {
		panic(fmt.Sprintf("road: belief covers %d cars, road has %d", len(sample), len(out.Cars)))
	}
	for carI := 1; carI < len(out.Cars); carI++ {
		out.Cars[carI].SidePolicy = policies[sample[carI]].Clone()
	}
	return out
}

// EgoPolicy is the ego's current policy.
func (r *Road) EgoPolicy() SidePolicy {
	return r.Cars[0].SidePolicy
}

// SetEgoPolicy replaces the ego policy. Reselecting the plain policy that
// is already running is a no-op so its internal state survives; delayed
// policies are always replaced.
func (r *Road) SetEgoPolicy(p SidePolicy) {
	old := r.EgoPolicy()
	if old != nil && !IsDelayed(p) && !IsDelayed(old) && p.PolicyID() == old.PolicyID() {
		return
	}
	r.Cars[0].SidePolicy = p.Clone()
}

// TakeUpdateSteps advances by t seconds: one short remainder step first,
// then whole dt steps. t = 1.0, dt = 0.4 gives [0.2, 0.4, 0.4].
func (r *Road) TakeUpdateSteps(t, dt float64) {
	for _, step := range StepSizes(t, dt) {
		r.Update(step)
	}
}

// StepSizes is the step decomposition used by TakeUpdateSteps.
func StepSizes(t, dt float64) []float64 {
	nFull := int(math.Floor(t/dt + 1e-9))
	remaining := t - dt*float64(nFull)
	steps := make([]float64, 0, nFull+1)
	if remaining > 1e-6 {
		steps = append(steps, remaining)
	}
	for i := 0; i < nFull; i++ {
		steps = append(steps, dt)
	}
	return steps
}

// SuperDebug reports whether verbose per-step output is wanted: debug is
// on and the run is within DebugStepsBefore steps of MaxSteps.
func (r *Road) SuperDebug() bool {
	return r.Debug && r.Params.SuperDebug &&
		r.Timesteps+r.Params.DebugStepsBefore >= r.Params.MaxSteps
}
