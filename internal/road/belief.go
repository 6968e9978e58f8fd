package road

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	beliefHorizon = 1.0           // s of lateral motion extrapolated per update
	beliefSigma   = LaneWidth / 2 // m
	beliefFloor   = 1e-3          // keeps every hypothesis reachable
)

// Belief is a per-car probability distribution over ObstaclePolicyChoices.
// Row 0 (the ego) is carried but never sampled.
type Belief struct {
	probs [][]float64
}

// UniformBelief spreads probability evenly over nPolicies for nCars cars.
func UniformBelief(nCars, nPolicies int) *Belief {
	if nCars <= 0 || nPolicies <= 0 {
		panic(fmt.Sprintf("road: invalid belief shape %dx%d", nCars, nPolicies))
	}
	b := &Belief{probs: make([][]float64, nCars)}
	for i := range b.probs {
		row := make([]float64, nPolicies)
		for k := range row {
			row[k] = 1 / float64(nPolicies)
		}
		b.probs[i] = row
	}
	return b
}

// Clone copies the distribution.
func (b *Belief) Clone() *Belief {
	out := &Belief{probs: make([][]float64, len(b.probs))}
	for i, row := range b.probs {
		out.probs[i] = append([]float64(nil), row...)
	}
	return out
}

// Probabilities returns car carI's distribution.
func (b *Belief) Probabilities(carI int) []float64 {
	return append([]float64(nil), b.probs[carI]...)
}

// Update blends a likelihood of each lane hypothesis, based on where each
// car's current heading takes it laterally, into the prior with weight
// rate.
func (b *Belief) Update(r *Road, rate float64) {
	policies := ObstaclePolicyChoices()
	like := make([]float64, len(policies))
	for carI := 1; carI < len(r.Cars) && carI < len(b.probs); carI++ {
		car := &r.Cars[carI]
		if car.Crashed {
			continue
		}
		predY := car.Y + car.Vel*math.Sin(car.Theta)*beliefHorizon
		for k, p := range policies {
			lc, ok := p.(*LaneChangePolicy)
			if !ok {
				like[k] = 1
				continue
			}
			e := predY - LaneY(lc.TargetLane)
			like[k] = math.Exp(-e*e/(2*beliefSigma*beliefSigma)) + beliefFloor
		}
		floats.Scale(1/floats.Sum(like), like)

		row := b.probs[carI]
		for k := range row {
			row[k] = (1-rate)*row[k] + rate*like[k]
		}
		floats.Scale(1/floats.Sum(row), row)
	}
}

// Sample draws one policy index per car. Index 0 is always 0.
func (b *Belief) Sample(rng *rand.Rand) []int {
	src := randSource{rng}
	out := make([]int, len(b.probs))
	for carI := 1; carI < len(b.probs); carI++ {
		out[carI] = int(distuv.NewCategorical(b.probs[carI], src).Rand())
	}
	return out
}

// randSource feeds a seeded math/rand generator to gonum's distributions.
type randSource struct {
	rng *rand.Rand
}

func (s randSource) Uint64() uint64 { return s.rng.Uint64() }
