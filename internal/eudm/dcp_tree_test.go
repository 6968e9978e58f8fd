package eudm

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/banshee-data/eudm/internal/cost"
	"github.com/banshee-data/eudm/internal/monitoring"
	"github.com/banshee-data/eudm/internal/road"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietParams() *road.Params {
	p := road.DefaultParams()
	p.RunFast = true
	return p
}

// stalledCar puts a frozen car on the centre of laneI at x.
func stalledCar(r *road.Road, x float64, laneI int) {
	car := road.NewCar(len(r.Cars), laneI)
	car.X = x
	car.Vel = 0
	car.PreferredVel = 0
	car.TargetVel = 0
	car.Crashed = true
	r.Cars = append(r.Cars, car)
}

func samples(r *road.Road, seed int64, n int) *road.RoadSet {
	if r.Belief == nil {
		r.InitBelief()
	}
	return road.NewSamples(r, rand.New(rand.NewSource(seed)), n)
}

func TestSearch_EndToEndSingleStep(t *testing.T) {
	params := quietParams()
	params.EUDM = road.EUDMParams{SearchDepth: 1, LayerT: 0.5, DT: 0.5, SamplesN: 1}
	params.Cost = road.CostParams{
		EfficiencyWeight: 1,
		SafetyWeight:     600,
		SafetyMargin:     0.3,
		SmoothnessWeight: 5,
		// Thresholds out of reach so only efficiency is charged.
		UncomfortableDecWeight: 10,
		UncomfortableDec:       100,
		CurvatureChangeWeight:  10,
		LargeCurvatureChange:   100,
		DiscountFactor:         1,
	}

	r := road.NewRoad(params)
	r.Cars[0].Vel = 0
	r.Cars[0].PreferredVel = 10
	r.Cars[0].TargetVel = 10
	r.ResyncEgo()
	set := samples(r, 1, 1)
	unchanged := set.EgoPolicy()

	d := SearchWithReport(params, road.PolicyChoices(), set, false)

	assert.Same(t, unchanged, d.Policy)
	assert.False(t, d.Switched)
	assert.Equal(t, uint32(1), d.PolicyID)

	// One 0.5 s step from standstill at IDM's MaxAccel.
	v1 := road.NewIDMControl().MaxAccel * 0.5
	want := cost.Cost{
		Efficiency:     (10 - v1) * 0.5,
		Discount:       1,
		DiscountFactor: 1,
	}
	if diff := cmp.Diff(want, d.Cost); diff != "" {
		t.Errorf("cost mismatch (-want +got):\n%s", diff)
	}
	assert.Greater(t, d.Cost.Efficiency, 0.0)
	assert.Nil(t, d.Traces)

	// The baseline and the stay-committed branch tie; the baseline wins.
	require.Len(t, d.Branches, 2)
	assert.Equal(t, d.Branches[0].Cost, d.Branches[1].Cost)
}

func TestSearch_TieKeepsUnchangedPolicy(t *testing.T) {
	params := quietParams()
	params.EUDM.SearchDepth = 2
	params.Cost.SmoothnessWeight = 0

	r := road.NewRoad(params)
	// Same behaviour as the ego's policy 1 under a different id.
	twin := road.NewLaneChangePolicy(7, 0, nil)

	d := SearchWithReport(params, []road.SidePolicy{twin}, samples(r, 2, 2), false)

	assert.False(t, d.Switched)
	assert.Equal(t, uint32(1), d.PolicyID)
	require.Len(t, d.Branches, 3)
	for _, b := range d.Branches[1:] {
		assert.Equal(t, d.Branches[0].Cost.Total(), b.Cost.Total())
	}
	assert.Equal(t, 7, int(d.Branches[1].PolicyID))
}

func TestSearch_SwitchesAroundStalledCar(t *testing.T) {
	params := quietParams()
	r := road.NewRoad(params)
	stalledCar(r, 100, 0)

	d := SearchWithReport(params, road.PolicyChoices(), samples(r, 3, 4), false)

	require.True(t, d.Switched)
	delayed, ok := d.Policy.(*road.DelayedPolicy)
	require.True(t, ok)
	assert.Equal(t, uint32(1), delayed.From.PolicyID())
	assert.Equal(t, uint32(2), delayed.To.PolicyID())
	assert.Equal(t, params.EUDM.LayerT, delayed.Duration)
	assert.Equal(t, uint32(202), d.PolicyID)

	assert.True(t, d.Cost.Less(d.Branches[0].Cost), "switch must beat the baseline")
}

func TestSearch_BranchOrder(t *testing.T) {
	params := quietParams()
	params.EUDM.SearchDepth = 3
	r := road.NewRoad(params)

	d := SearchWithReport(params, road.PolicyChoices(), samples(r, 4, 2), false)

	// Baseline, two candidates at depths 1 and 2, then stay committed.
	type key struct {
		depth int
		id    uint32
	}
	var got []key
	for _, b := range d.Branches {
		got = append(got, key{b.SwitchDepth, b.PolicyID})
	}
	want := []key{{0, 1}, {1, 2}, {1, 3}, {2, 2}, {2, 3}, {3, 1}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(key{})); diff != "" {
		t.Errorf("branch order mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch_Deterministic(t *testing.T) {
	params := quietParams()
	params.EUDM.SearchDepth = 3
	params.EUDM.SamplesN = 3

	r := road.NewRoad(params)
	rng := rand.New(rand.NewSource(21))
	for i := 0; i < 6; i++ {
		r.AddRandomCar(rng)
	}
	r.InitBelief()

	set := samples(r, 5, 3)
	a := SearchWithReport(params, road.PolicyChoices(), set.Clone(), false)
	b := SearchWithReport(params, road.PolicyChoices(), set.Clone(), false)

	assert.Equal(t, a.PolicyID, b.PolicyID)
	if diff := cmp.Diff(a.Cost, b.Cost); diff != "" {
		t.Errorf("cost differs between identical searches:\n%s", diff)
	}
	if diff := cmp.Diff(a.Branches, b.Branches); diff != "" {
		t.Errorf("branches differ between identical searches:\n%s", diff)
	}

	// The input ensemble is not advanced by the search.
	assert.Equal(t, 0, set.Timesteps())
	c := SearchWithReport(params, road.PolicyChoices(), set, false)
	assert.Equal(t, 0, set.Timesteps())
	assert.Equal(t, a.PolicyID, c.PolicyID)
}

func TestSearch_PreservesInProgressTransition(t *testing.T) {
	params := quietParams()
	params.EUDM.SearchDepth = 2
	params.Cost.SmoothnessWeight = 0

	r := road.NewRoad(params)
	r.SetEgoPolicy(road.NewDelayedPolicy(road.NewLaneChangePolicy(1, 0, nil), road.NewLaneChangePolicy(7, 0, nil), 1))
	r.Update(0.1)
	set := samples(r, 6, 1)
	unchanged := set.EgoPolicy()

	// Only the twin of the operating policy is offered, so nothing beats
	// letting the transition run.
	d := SearchWithReport(params, []road.SidePolicy{road.NewLaneChangePolicy(7, 0, nil)}, set, false)
	assert.False(t, d.Switched)
	assert.Same(t, unchanged, d.Policy)
	assert.Equal(t, uint32(207), d.PolicyID)
}

func TestSearch_InvalidInputsPanic(t *testing.T) {
	params := quietParams()
	r := road.NewRoad(params)
	set := samples(r, 1, 1)

	assert.Panics(t, func() { SearchWithReport(params, nil, set, false) })
	params.EUDM.SearchDepth = 0
	assert.Panics(t, func() { SearchWithReport(params, road.PolicyChoices(), set, false) })
}

func TestSearch_DebugTracesAndLogs(t *testing.T) {
	rec, restore := monitoring.Capture()
	defer restore()

	params := road.DefaultParams()
	params.RunFast = false
	params.EUDM.SearchDepth = 2
	r := road.NewRoad(params)

	policy, traces := DCPTreeSearch(params, road.PolicyChoices(), samples(r, 7, 2), true)
	require.NotNil(t, policy)
	assert.NotEmpty(t, traces)
	for _, s := range traces {
		assert.Less(t, s.Depth, params.EUDM.SearchDepth)
	}

	joined := strings.Join(rec.Lines(), "\n")
	assert.Contains(t, joined, "DCP-Tree search")
	assert.Contains(t, joined, "Unchanged: 1")

	_, quiet := DCPTreeSearch(params, road.PolicyChoices(), samples(r, 7, 2), false)
	assert.Empty(t, quiet)
}

func TestChoosePolicy(t *testing.T) {
	params := quietParams()
	params.EUDM.SearchDepth = 2
	params.EUDM.SamplesN = 2
	r := road.NewRoad(params)
	stalledCar(r, 60, 0)
	r.InitBelief()

	a := ChoosePolicy(params, r, rand.New(rand.NewSource(8)))
	b := ChoosePolicy(params, r, rand.New(rand.NewSource(8)))
	assert.Equal(t, a.PolicyID, b.PolicyID)
	assert.Equal(t, a.Cost, b.Cost)
	assert.Equal(t, 0, r.Timesteps)
	assert.Equal(t, uint32(1), r.EgoPolicy().PolicyID())
}
