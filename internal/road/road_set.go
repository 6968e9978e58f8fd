package road

import (
	"math/rand"

	"github.com/banshee-data/eudm/internal/cost"
)

// RoadSet is an ensemble of roads sampled from the belief. Every member
// shares Params and the ego policy; only the other cars' hypotheses
// differ. Mutations are always applied to every member.
type RoadSet struct {
	roads []*Road
}

// NewRoadSet wraps roads, which must be non-empty.
func NewRoadSet(roads []*Road) *RoadSet {
	if len(roads) == 0 {
		panic("road: empty RoadSet")
	}
	return &RoadSet{roads: roads}
}

// NewSamples draws n roads from trueRoad's belief.
func NewSamples(trueRoad *Road, rng *rand.Rand, n int) *RoadSet {
	roads := make([]*Road, n)
	for i := range roads {
		roads[i] = trueRoad.SampleBelief(rng)
	}
	return NewRoadSet(roads)
}

// Clone deep-copies every member.
func (s *RoadSet) Clone() *RoadSet {
	roads := make([]*Road, len(s.roads))
	for i, r := range s.roads {
		roads[i] = r.Clone()
	}
	return &RoadSet{roads: roads}
}

// Len is the number of samples.
func (s *RoadSet) Len() int { return len(s.roads) }

// Roads exposes the members.
func (s *RoadSet) Roads() []*Road { return s.roads }

// EgoPolicy is the shared ego policy.
func (s *RoadSet) EgoPolicy() SidePolicy {
	return s.roads[0].EgoPolicy()
}

// SetEgoPolicy applies Road.SetEgoPolicy to every member.
func (s *RoadSet) SetEgoPolicy(p SidePolicy) {
	for _, r := range s.roads {
		r.SetEgoPolicy(p)
	}
}

// ResetCarTraces resets every member's traces.
func (s *RoadSet) ResetCarTraces() {
	for _, r := range s.roads {
		r.ResetCarTraces()
	}
}

// TakeUpdateSteps advances every member by t seconds of dt steps.
func (s *RoadSet) TakeUpdateSteps(t, dt float64) {
	for _, r := range s.roads {
		r.TakeUpdateSteps(t, dt)
	}
}

// Cost is the componentwise mean of the members' costs, an estimate of
// the expected cost under the belief.
func (s *RoadSet) Cost() cost.Cost {
	costs := make([]cost.Cost, len(s.roads))
	for i, r := range s.roads {
		costs[i] = r.Cost
	}
	return cost.Mean(costs)
}

// Timesteps is the shared step counter.
func (s *RoadSet) Timesteps() int {
	return s.roads[0].Timesteps
}

// MakeTraces concatenates every member's trace shapes.
func (s *RoadSet) MakeTraces(depth int, includeObstacles bool) []TraceShape {
	var shapes []TraceShape
	for _, r := range s.roads {
		shapes = append(shapes, r.MakeTraces(depth, includeObstacles)...)
	}
	return shapes
}
