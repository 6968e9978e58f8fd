package eudm

import (
	"math/rand"

	"github.com/banshee-data/eudm/internal/cost"
	"github.com/banshee-data/eudm/internal/monitoring"
	"github.com/banshee-data/eudm/internal/road"
)

// Branch is one evaluated rollout of the search.
type Branch struct {
	// SwitchDepth is the layer after which the ego switched to PolicyID.
	// 0 is the unchanged-policy baseline; SearchDepth with the operating
	// policy's id is the stay-committed branch.
	SwitchDepth int       `json:"switch_depth"`
	PolicyID    uint32    `json:"policy_id"`
	Cost        cost.Cost `json:"cost"`
}

// Decision is the outcome of one search.
type Decision struct {
	// Policy is either the ego's unchanged policy or a new DelayedPolicy
	// from the operating policy to the winner.
	Policy   road.SidePolicy `json:"-"`
	PolicyID uint32          `json:"policy_id"`
	Switched bool            `json:"switched"`

	Cost     cost.Cost `json:"cost"`
	Branches []Branch  `json:"branches,omitempty"`

	// Traces holds every branch's shapes when the search ran in debug mode.
	Traces []road.TraceShape `json:"-"`
}

// searcher carries the running best across the fixed evaluation order.
type searcher struct {
	params *road.Params
	debug  bool

	best     cost.Cost
	bestPick road.SidePolicy // nil means keep the unchanged policy

	branches []Branch
	traces   []road.TraceShape
}

// consider records a branch and adopts it only when strictly cheaper than
// the best so far, so earlier branches win ties.
func (s *searcher) consider(b Branch, pick road.SidePolicy) {
	s.branches = append(s.branches, b)
	if b.Cost.Less(s.best) {
		s.best = b.Cost
		s.bestPick = pick
	}
}

// layer advances roads by one layer, collecting its traces at depth.
func (s *searcher) layer(roads *road.RoadSet, depth int) {
	eudm := &s.params.EUDM
	if s.debug {
		roads.ResetCarTraces()
	}
	roads.TakeUpdateSteps(eudm.LayerT, eudm.DT)
	if s.debug {
		s.traces = append(s.traces, roads.MakeTraces(depth, false)...)
	}
}

// DCPTreeSearch decides the ego policy for roads among choices. Traces are
// only returned when debug is set.
func DCPTreeSearch(params *road.Params, choices []road.SidePolicy, roads *road.RoadSet, debug bool) (road.SidePolicy, []road.TraceShape) {
	d := SearchWithReport(params, choices, roads, debug)
	return d.Policy, d.Traces
}

// SearchWithReport runs the search and reports every evaluated branch.
//
// Evaluation order is the baseline, then increasing switch depth, then
// candidate order. Only a strictly cheaper branch displaces the best, so
// an exact tie keeps the earlier branch and ultimately the unchanged policy.
func SearchWithReport(params *road.Params, choices []road.SidePolicy, roads *road.RoadSet, debug bool) Decision {
	eudm := &params.EUDM
	if eudm.SearchDepth < 1 {
		panic("eudm: search depth must be at least 1")
	}
	if len(choices) == 0 {
		panic("eudm: no policy choices")
	}

	unchanged := roads.EgoPolicy()
	operating := unchanged.OperatingPolicy()

	s := &searcher{
		params: params,
		debug:  debug,
		best:   cost.Max(),
	}

	if debug {
		base := roads.Cost()
		monitoring.Logf("%d: EUDM DCP-Tree search policies and costs, starting with policy %d",
			roads.Timesteps(), unchanged.PolicyID())
		monitoring.Logf("Starting from base costs: %v", base)
	}

	// The unchanged policy may be mid-transition; nothing else switches
	// before the end of the first layer.
	baseline := roads.Clone()
	for depth := 0; depth < eudm.SearchDepth; depth++ {
		s.layer(baseline, depth)
	}
	s.consider(Branch{SwitchDepth: 0, PolicyID: unchanged.PolicyID(), Cost: baseline.Cost()}, nil)
	if debug {
		monitoring.Logf("Unchanged: %d: %v", unchanged.PolicyID(), baseline.Cost())
	}

	committed := roads.Clone()
	committed.SetEgoPolicy(operating)

	for switchDepth := 1; switchDepth <= eudm.SearchDepth; switchDepth++ {
		s.layer(committed, switchDepth-1)

		if switchDepth == eudm.SearchDepth {
			b := Branch{SwitchDepth: switchDepth, PolicyID: operating.PolicyID(), Cost: committed.Cost()}
			if debug {
				monitoring.Logf("switch_depth=%d: %v: %v", switchDepth, operating, b.Cost)
			}
			s.consider(b, operating)
			continue
		}

		for i, candidate := range choices {
			if candidate.PolicyID() == operating.PolicyID() {
				continue
			}
			branch := committed.Clone()
			branch.SetEgoPolicy(candidate)
			for depth := switchDepth; depth < eudm.SearchDepth; depth++ {
				s.layer(branch, depth)
			}

			b := Branch{SwitchDepth: switchDepth, PolicyID: candidate.PolicyID(), Cost: branch.Cost()}
			if debug {
				monitoring.Logf("switch_depth=%d to %d: %v: %v", switchDepth, i, candidate, b.Cost)
			}
			// Deeper switches only confirm the transition already under way.
			pick := operating
			if switchDepth == 1 {
				pick = candidate
			}
			s.consider(b, pick)
		}
	}

	d := Decision{
		Cost:     s.best,
		Branches: s.branches,
		Traces:   s.traces,
	}
	if s.bestPick == nil {
		d.Policy = unchanged
	} else {
		d.Policy = road.NewDelayedPolicy(operating.Clone(), s.bestPick.Clone(), eudm.LayerT)
		d.Switched = true
	}
	d.PolicyID = d.Policy.PolicyID()
	if debug {
		monitoring.Logf("%d: chose policy %d at cost %v", roads.Timesteps(), d.PolicyID, d.Cost)
	}
	return d
}

// ChoosePolicy samples the belief of trueRoad and searches over the ego
// policy choices. trueRoad is not modified.
func ChoosePolicy(params *road.Params, trueRoad *road.Road, rng *rand.Rand) Decision {
	roads := road.NewSamples(trueRoad, rng, params.EUDM.SamplesN)
	debug := trueRoad.Debug && trueRoad.Timesteps+params.DebugStepsBefore >= params.MaxSteps
	return SearchWithReport(params, road.PolicyChoices(), roads, debug)
}
