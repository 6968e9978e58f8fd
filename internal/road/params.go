package road

// CostParams weights and thresholds the per-step cost terms.
type CostParams struct {
	EfficiencyWeight             float64
	EfficiencyLowSpeedCost       float64
	EfficiencyHighSpeedCost      float64
	EfficiencyHighSpeedTolerance float64

	SafetyWeight float64
	SafetyMargin float64 // metres

	SmoothnessWeight float64

	UncomfortableDecWeight float64
	UncomfortableDec       float64 // m/s², magnitude of the deceleration threshold

	CurvatureChangeWeight float64
	LargeCurvatureChange  float64 // rad/s

	DiscountFactor float64
}

// EUDMParams configures the DCP-tree search.
type EUDMParams struct {
	SearchDepth int
	LayerT      float64 // seconds per layer
	DT          float64 // integration step inside the search
	SamplesN    int     // roads sampled from the belief per search
}

// Params is the immutable configuration shared by every Road, RoadSet and
// search branch. It is passed by pointer and never mutated after
// construction.
type Params struct {
	EUDM EUDMParams
	Cost CostParams

	PhysicsDT   float64 // step of the true road
	ReplanSteps int     // true-road steps between searches
	MaxSteps    int
	NCars       int
	RNGSeed     int64

	BeliefUpdateRate float64 // blend factor of new evidence into the belief

	RunFast             bool // disables traces and debug output
	SuperDebug          bool
	DebugStepsBefore    int
	SeparationDebug     bool
	DebugCarI           int // -1 when unset
	ObstaclesOnlyForEgo bool
	OnlyCrashesWithEgo  bool
}

// DefaultParams returns the parameter set used when no config file is
// given. It matches config/eudm.defaults.json.
func DefaultParams() *Params {
	return &Params{
		EUDM: EUDMParams{
			SearchDepth: 4,
			LayerT:      2.0,
			DT:          0.4,
			SamplesN:    8,
		},
		Cost: CostParams{
			EfficiencyWeight:             1.0,
			EfficiencyLowSpeedCost:       1.0,
			EfficiencyHighSpeedCost:      0.2,
			EfficiencyHighSpeedTolerance: 1.0,
			SafetyWeight:                 600.0,
			SafetyMargin:                 0.3,
			SmoothnessWeight:             5.0,
			UncomfortableDecWeight:       10.0,
			UncomfortableDec:             3.0,
			CurvatureChangeWeight:        10.0,
			LargeCurvatureChange:         0.5,
			DiscountFactor:               0.8,
		},
		PhysicsDT:        0.1,
		ReplanSteps:      5,
		MaxSteps:         1000,
		NCars:            8,
		RNGSeed:          0,
		BeliefUpdateRate: 0.3,
		RunFast:          true,
		DebugStepsBefore: 50,
		DebugCarI:        -1,
	}
}
