package road

import (
	"math"
	"math/rand"
	"testing"

	"github.com/banshee-data/eudm/internal/cost"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBeliefRoad(t *testing.T, nCars int, seed int64) *Road {
	t.Helper()
	r := NewRoad(testParams())
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < nCars; i++ {
		r.AddRandomCar(rng)
	}
	r.InitBelief()
	return r
}

func TestUniformBelief(t *testing.T) {
	b := UniformBelief(3, 4)
	for carI := 0; carI < 3; carI++ {
		probs := b.Probabilities(carI)
		require.Len(t, probs, 4)
		for _, p := range probs {
			assert.InDelta(t, 0.25, p, 1e-12)
		}
	}
	assert.Panics(t, func() { UniformBelief(0, 2) })
}

func TestBeliefUpdate_FavoursObservedLane(t *testing.T) {
	r := NewRoad(testParams())
	placeCar(r, 30, 1, 12)
	r.InitBelief()
	for i := 0; i < 10; i++ {
		r.UpdateBelief()
	}
	probs := r.Belief.Probabilities(1)
	// Hypothesis 1 targets lane 1, where the car is driving.
	assert.Greater(t, probs[1], 0.8)
	assert.Less(t, probs[0], 0.2)
	assert.InDelta(t, 1.0, probs[0]+probs[1], 1e-9)
}

func TestUpdateBelief_DoesNotMutateShared(t *testing.T) {
	r := NewRoad(testParams())
	placeCar(r, 30, 1, 12)
	r.InitBelief()
	shared := r.Belief
	sampled := r.SampleBelief(rand.New(rand.NewSource(1)))

	r.UpdateBelief()
	assert.Same(t, shared, sampled.Belief)
	assert.InDelta(t, 0.5, shared.Probabilities(1)[0], 1e-12)
}

func TestBeliefSample_Deterministic(t *testing.T) {
	b := UniformBelief(6, 2)
	a := b.Sample(rand.New(rand.NewSource(9)))
	c := b.Sample(rand.New(rand.NewSource(9)))
	assert.Equal(t, a, c)
	assert.Equal(t, 0, a[0])
	for _, k := range a {
		assert.True(t, k == 0 || k == 1)
	}
}

func TestBeliefSample_FollowsDistribution(t *testing.T) {
	b := &Belief{probs: [][]float64{{0.5, 0.5}, {0, 1}, {1, 0}, {0.25, 0.75}}}
	rng := rand.New(rand.NewSource(4))

	const n = 4000
	ones := 0
	for i := 0; i < n; i++ {
		got := b.Sample(rng)
		require.Len(t, got, 4)
		assert.Equal(t, 0, got[0])
		assert.Equal(t, 1, got[1], "zero-weight hypothesis drawn")
		assert.Equal(t, 0, got[2], "zero-weight hypothesis drawn")
		ones += got[3]
	}
	assert.InDelta(t, 0.75, float64(ones)/n, 0.03)
}

func TestSampleBelief(t *testing.T) {
	r := newBeliefRoad(t, 5, 11)
	r.Cost = cost.New(1)
	s := r.SampleBelief(rand.New(rand.NewSource(2)))

	assert.False(t, s.Debug)
	assert.Equal(t, r.Params.Cost.DiscountFactor, s.Cost.DiscountFactor)
	assert.False(t, s.TracesEnabled())
	require.Len(t, s.Cars, len(r.Cars))
	assert.Equal(t, r.EgoPolicy().PolicyID(), s.EgoPolicy().PolicyID())
	for i := 1; i < len(s.Cars); i++ {
		assert.Less(t, s.Cars[i].SidePolicy.PolicyID(), uint32(3))
		assert.Equal(t, r.Cars[i].X, s.Cars[i].X)
	}

	// Sampling must not touch the true road.
	s.Update(0.1)
	assert.Equal(t, 0, r.Timesteps)
}

func TestRoadSet_UniformMutations(t *testing.T) {
	r := newBeliefRoad(t, 4, 5)
	set := NewSamples(r, rand.New(rand.NewSource(3)), 6)
	require.Equal(t, 6, set.Len())

	set.SetEgoPolicy(NewLaneChangePolicy(2, 1, nil))
	set.TakeUpdateSteps(1.0, 0.4)
	for _, member := range set.Roads() {
		assert.Equal(t, uint32(2), member.EgoPolicy().PolicyID())
		assert.Equal(t, set.Timesteps(), member.Timesteps)
	}
	assert.Equal(t, 3, set.Timesteps())

	// Members hold their own copies of the policy.
	m0 := set.Roads()[0].EgoPolicy()
	m1 := set.Roads()[1].EgoPolicy()
	assert.NotSame(t, m0, m1)
}

func TestRoadSet_CostIsMean(t *testing.T) {
	params := testParams()
	a, b := NewRoad(params), NewRoad(params)
	a.Cost = cost.Cost{Efficiency: 2, Safety: 10, Discount: 0.5, DiscountFactor: 0.8}
	b.Cost = cost.Cost{Efficiency: 4, Smoothness: 6, Discount: 0.5, DiscountFactor: 0.8}
	set := NewRoadSet([]*Road{a, b})

	want := cost.Cost{Efficiency: 3, Safety: 5, Smoothness: 3, Discount: 0.5, DiscountFactor: 0.8}
	if diff := cmp.Diff(want, set.Cost()); diff != "" {
		t.Errorf("ensemble cost mismatch (-want +got):\n%s", diff)
	}
}

func TestRoadSet_CloneIsolated(t *testing.T) {
	r := newBeliefRoad(t, 3, 8)
	set := NewSamples(r, rand.New(rand.NewSource(4)), 3)
	clone := set.Clone()

	clone.TakeUpdateSteps(2.0, 0.4)
	assert.Equal(t, 0, set.Timesteps())
	assert.Equal(t, 5, clone.Timesteps())
	assert.Equal(t, 0.0, set.Cost().Total())
	assert.False(t, math.IsNaN(clone.Cost().Total()))
}

func TestRoadSet_Traces(t *testing.T) {
	params := DefaultParams()
	params.RunFast = false
	r := NewRoad(params)
	placeCar(r, 40, 1, 12)
	params.DebugCarI = 1
	r.InitBelief()

	set := NewSamples(r, rand.New(rand.NewSource(1)), 2)
	set.ResetCarTraces()
	set.TakeUpdateSteps(1.0, 0.1)
	shapes := set.MakeTraces(0, false)

	// Per member: ego polyline, ego points, debug car polyline.
	require.Len(t, shapes, 6)
	assert.Equal(t, ShapePolyline, shapes[0].Kind)
	assert.Equal(t, ShapePoints, shapes[1].Kind)
	assert.Equal(t, 1, shapes[2].CarI)
	assert.Equal(t, 12.0, shapes[0].Width)
	assert.Len(t, shapes[0].Points, 10)

	assert.Empty(t, NewRoad(testParams()).MakeTraces(0, true))
	assert.Panics(t, func() { NewRoadSet(nil) })
}
