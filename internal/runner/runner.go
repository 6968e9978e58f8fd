// Package runner drives one closed-loop scenario: a true road whose ego is
// replanned by the DCP-tree search every few physics steps.
package runner

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/eudm/internal/cost"
	"github.com/banshee-data/eudm/internal/eudm"
	"github.com/banshee-data/eudm/internal/monitoring"
	"github.com/banshee-data/eudm/internal/road"
)

// ErrInvalidParams is returned when the parameters cannot drive an episode.
var ErrInvalidParams = errors.New("invalid run parameters")

// Options shape the scenario around the configured parameters.
type Options struct {
	// Seed overrides Params.RNGSeed when set.
	Seed *int64

	// NoObstacle leaves the road without the static obstacle.
	NoObstacle   bool
	ObstacleX    float64
	ObstacleLane int
}

// DefaultOptions places the obstacle in the ego's lane 150 m ahead.
func DefaultOptions() Options {
	return Options{ObstacleX: 150, ObstacleLane: 0}
}

// DecisionRecord is one replanning event of the episode.
type DecisionRecord struct {
	Step     int       `json:"step"`
	PolicyID uint32    `json:"policy_id"`
	Switched bool      `json:"switched"`
	Cost     cost.Cost `json:"cost"`
}

// Result summarises an episode.
type Result struct {
	RunID       string           `json:"run_id"`
	Seed        int64            `json:"seed"`
	Steps       int              `json:"steps"`
	Cost        cost.Cost        `json:"cost"`
	TotalCost   float64          `json:"total_cost"`
	EgoCrashed  bool             `json:"ego_crashed"`
	UnsafeSteps int              `json:"unsafe_steps"`
	MeanEgoVel  float64          `json:"mean_ego_vel"`
	Decisions   []DecisionRecord `json:"decisions"`
}

func checkParams(params *road.Params) error {
	if params == nil {
		return fmt.Errorf("%w: nil params", ErrInvalidParams)
	}
	if params.PhysicsDT <= 0 {
		return fmt.Errorf("%w: physics_dt must be positive, got %f", ErrInvalidParams, params.PhysicsDT)
	}
	if params.ReplanSteps < 1 {
		return fmt.Errorf("%w: replan_steps must be at least 1, got %d", ErrInvalidParams, params.ReplanSteps)
	}
	if params.EUDM.SearchDepth < 1 || params.EUDM.SamplesN < 1 {
		return fmt.Errorf("%w: search_depth and samples_n must be at least 1", ErrInvalidParams)
	}
	return nil
}

// NewScenario builds the true road: the ego, the optional obstacle and
// params.NCars random cars drawn from rng, with a uniform belief.
func NewScenario(params *road.Params, opts Options, rng *rand.Rand) (*road.Road, error) {
	r := road.NewRoad(params)
	if !opts.NoObstacle {
		r.AddObstacle(opts.ObstacleX, opts.ObstacleLane)
	}
	for i := 0; i < params.NCars; i++ {
		if !r.TryAddRandomCar(rng) {
			return nil, fmt.Errorf("failed to place random car %d of %d: road is full", i+1, params.NCars)
		}
	}
	r.InitBelief()
	return r, nil
}

// Run plays one episode of at most params.MaxSteps physics steps. The
// episode ends early when the ego crashes.
func Run(params *road.Params, opts Options) (Result, error) {
	if err := checkParams(params); err != nil {
		return Result{}, err
	}

	seed := params.RNGSeed
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	res := Result{RunID: uuid.New().String(), Seed: seed}
	rng := rand.New(rand.NewSource(seed))

	r, err := NewScenario(params, opts, rng)
	if err != nil {
		return Result{}, fmt.Errorf("run %s: %w", res.RunID, err)
	}
	monitoring.Logf("[runner] %s: starting with %d cars, seed %d", res.RunID, len(r.Cars), seed)

	vels := make([]float64, 0, params.MaxSteps)
	for step := 0; step < params.MaxSteps; step++ {
		if step%params.ReplanSteps == 0 {
			r.UpdateBelief()
			d := eudm.ChoosePolicy(params, r, rng)
			r.SetEgoPolicy(d.Policy)
			res.Decisions = append(res.Decisions, DecisionRecord{
				Step:     step,
				PolicyID: d.PolicyID,
				Switched: d.Switched,
				Cost:     d.Cost,
			})
			if r.Debug && d.Switched {
				monitoring.Logf("[runner] %s: step %d switching to %v", res.RunID, step, d.Policy)
			}
		}

		r.Update(params.PhysicsDT)
		res.Steps++
		vels = append(vels, r.Cars[0].Vel)
		if !r.EgoIsSafe {
			res.UnsafeSteps++
		}
		if r.Cars[0].Crashed {
			res.EgoCrashed = true
			monitoring.Logf("[runner] %s: ego crashed at step %d", res.RunID, step)
			break
		}
	}

	res.Cost = r.Cost
	res.TotalCost = r.Cost.Total()
	if len(vels) > 0 {
		res.MeanEgoVel = stat.Mean(vels, nil)
	}
	monitoring.Logf("[runner] %s: finished after %d steps, cost %v", res.RunID, res.Steps, res.Cost)
	return res, nil
}
