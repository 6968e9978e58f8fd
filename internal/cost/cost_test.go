package cost

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestUpdateDiscount_Monotonic(t *testing.T) {
	for _, factor := range []float64{0.1, 0.5, 0.9, 0.999, 1.0} {
		c := New(factor)
		prev := c.Discount
		for i := 0; i < 50; i++ {
			c.UpdateDiscount(0.25)
			if c.Discount > prev {
				t.Fatalf("factor %v: discount increased from %v to %v at step %d", factor, prev, c.Discount, i)
			}
			prev = c.Discount
		}
	}
}

func TestUpdateDiscount_FactorOneIsConstant(t *testing.T) {
	c := New(1.0)
	for i := 0; i < 20; i++ {
		c.UpdateDiscount(0.1)
	}
	assert.Equal(t, 1.0, c.Discount)
}

func TestUpdateDiscount_DtComposes(t *testing.T) {
	a := New(0.8)
	a.UpdateDiscount(1.0)
	b := New(0.8)
	b.UpdateDiscount(0.5)
	b.UpdateDiscount(0.5)
	assert.InDelta(t, a.Discount, b.Discount, 1e-12)
	assert.InDelta(t, 0.8, a.Discount, 1e-12)
}

func TestMaxIsGreaterThanAnything(t *testing.T) {
	big := Cost{Efficiency: 1e300, Safety: 1e300}
	assert.True(t, big.Less(Max()))
	assert.False(t, Max().Less(Max()))
	assert.True(t, math.IsInf(Max().Total(), 1))
}

func TestLessIsStrict(t *testing.T) {
	a := Cost{Efficiency: 1, Safety: 2}
	b := Cost{Smoothness: 3}
	assert.False(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.True(t, a.Less(Cost{Efficiency: 3.5}))
}

func TestMean(t *testing.T) {
	got := Mean([]Cost{
		{Efficiency: 1, Safety: 0, Smoothness: 2, UncomfortableDec: 0, CurvatureChange: 4, Discount: 0.5, DiscountFactor: 0.9},
		{Efficiency: 3, Safety: 2, Smoothness: 0, UncomfortableDec: 1, CurvatureChange: 0, Discount: 0.5, DiscountFactor: 0.9},
	})
	want := Cost{Efficiency: 2, Safety: 1, Smoothness: 1, UncomfortableDec: 0.5, CurvatureChange: 2, Discount: 0.5, DiscountFactor: 0.9}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Mean mismatch (-want +got):\n%s", diff)
	}
}

func TestMean_EmptyPanics(t *testing.T) {
	assert.Panics(t, func() { Mean(nil) })
}
