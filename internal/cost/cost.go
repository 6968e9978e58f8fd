// Package cost holds the discounted multi-component cost accumulated by a
// simulated road.
//
// Components are stored already weighted, so Total is a plain sum and
// two costs compare by Total alone.
package cost

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Cost is the accumulated, discounted cost of a rollout.
type Cost struct {
	Efficiency       float64 `json:"efficiency"`
	Safety           float64 `json:"safety"`
	Smoothness       float64 `json:"smoothness"`
	UncomfortableDec float64 `json:"uncomfortable_dec"`
	CurvatureChange  float64 `json:"curvature_change"`

	// Discount multiplies every contribution made at the current step.
	Discount       float64 `json:"discount"`
	DiscountFactor float64 `json:"discount_factor"`
}

// New returns a zero cost with discount 1.
func New(discountFactor float64) Cost {
	return Cost{Discount: 1, DiscountFactor: discountFactor}
}

// Max returns a sentinel that compares greater than any finite cost.
func Max() Cost {
	return Cost{Efficiency: math.Inf(1), Discount: 1, DiscountFactor: 1}
}

// Total is the scalar used to order costs.
func (c Cost) Total() float64 {
	return c.Efficiency + c.Safety + c.Smoothness + c.UncomfortableDec + c.CurvatureChange
}

// Less reports whether c is strictly cheaper than o.
func (c Cost) Less(o Cost) bool {
	return c.Total() < o.Total()
}

// UpdateDiscount decays the discount by DiscountFactor^dt. For factors in
// (0, 1] the discount never increases.
func (c *Cost) UpdateDiscount(dt float64) {
	c.Discount *= math.Pow(c.DiscountFactor, dt)
}

func (c Cost) String() string {
	return fmt.Sprintf("[eff %7.2f, safe %7.2f, smooth %7.2f, dec %7.2f, curv %7.2f] = %7.2f",
		c.Efficiency, c.Safety, c.Smoothness, c.UncomfortableDec, c.CurvatureChange, c.Total())
}

// Mean aggregates per-sample costs into one by taking the componentwise
// arithmetic mean. It panics on an empty slice.
func Mean(costs []Cost) Cost {
	if len(costs) == 0 {
		panic("cost: Mean of empty cost set")
	}
	n := len(costs)
	cols := [7][]float64{}
	for i := range cols {
		cols[i] = make([]float64, n)
	}
	for i, c := range costs {
		cols[0][i] = c.Efficiency
		cols[1][i] = c.Safety
		cols[2][i] = c.Smoothness
		cols[3][i] = c.UncomfortableDec
		cols[4][i] = c.CurvatureChange
		cols[5][i] = c.Discount
		cols[6][i] = c.DiscountFactor
	}
	return Cost{
		Efficiency:       stat.Mean(cols[0], nil),
		Safety:           stat.Mean(cols[1], nil),
		Smoothness:       stat.Mean(cols[2], nil),
		UncomfortableDec: stat.Mean(cols[3], nil),
		CurvatureChange:  stat.Mean(cols[4], nil),
		Discount:         stat.Mean(cols[5], nil),
		DiscountFactor:   stat.Mean(cols[6], nil),
	}
}
