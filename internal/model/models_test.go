package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSplitRoute() ShippingRoute {
	return ShippingRoute{
		ID:             "route-1",
		ShipperID:      "ship-1",
		Name:           "GZ to HK Air",
		EvaluationType: EvaluationActual,
		FeeSplit: FeeSplit{
			PaidCurrency:          "cny",
			FirstWeightKg:         1,
			FirstWeightAmount:     5,
			ContinuedWeightAmount: 2,
			MiscAmount:            1,
		},
	}
}

func TestShippingRoute_Validate(t *testing.T) {
	t.Run("valid split route", func(t *testing.T) {
		r := validSplitRoute()
		assert.NoError(t, r.Validate())
	})

	t.Run("name too short", func(t *testing.T) {
		r := validSplitRoute()
		r.Name = "X"
		assert.Error(t, r.Validate())
	})

	t.Run("name too long", func(t *testing.T) {
		r := validSplitRoute()
		for len(r.Name) <= 50 {
			r.Name += "x"
		}
		assert.Error(t, r.Validate())
	})

	t.Run("actual route must not carry a divisor", func(t *testing.T) {
		r := validSplitRoute()
		r.VolumetricDivisor = 5000
		assert.Error(t, r.Validate())
	})

	t.Run("volumetric route requires a divisor", func(t *testing.T) {
		r := validSplitRoute()
		r.EvaluationType = EvaluationVolumetric
		assert.Error(t, r.Validate())

		r.VolumetricDivisor = 5000
		assert.NoError(t, r.Validate())
	})

	t.Run("divisor must be a multiple of 100", func(t *testing.T) {
		r := validSplitRoute()
		r.EvaluationType = EvaluationVolumetric

		r.VolumetricDivisor = 5050
		assert.Error(t, r.Validate())

		r.VolumetricDivisor = 5000.5
		assert.Error(t, r.Validate())

		r.VolumetricDivisor = 8000
		assert.NoError(t, r.Validate())
	})

	t.Run("unknown evaluation type", func(t *testing.T) {
		r := validSplitRoute()
		r.EvaluationType = "Dimensional"
		assert.Error(t, r.Validate())
	})

	t.Run("override requires a flat price", func(t *testing.T) {
		r := validSplitRoute()
		r.FeeOverride = true
		assert.Error(t, r.Validate())

		r.Price = &LocalPrice{PaidCurrency: "cny", PaidAmount: 100}
		assert.NoError(t, r.Validate())
	})

	t.Run("override skips fee split checks", func(t *testing.T) {
		r := validSplitRoute()
		r.FeeOverride = true
		r.Price = &LocalPrice{PaidCurrency: "cny", PaidAmount: 100}
		r.FeeSplit = FeeSplit{}
		assert.NoError(t, r.Validate())
	})

	t.Run("split amounts must be positive", func(t *testing.T) {
		for _, mutate := range []func(*ShippingRoute){
			func(r *ShippingRoute) { r.FeeSplit.FirstWeightKg = 0 },
			func(r *ShippingRoute) { r.FeeSplit.FirstWeightAmount = 0 },
			func(r *ShippingRoute) { r.FeeSplit.ContinuedWeightAmount = -1 },
			func(r *ShippingRoute) { r.FeeSplit.MiscAmount = -0.01 },
		} {
			r := validSplitRoute()
			mutate(&r)
			assert.Error(t, r.Validate())
		}
	})
}

func TestPrice_ConvertedAmount(t *testing.T) {
	p := Price{
		LocalPrice:        LocalPrice{PaidCurrency: "cny", PaidAmount: 100},
		ConvertedCurrency: "inr",
		ConversionRate:    11.53,
	}
	assert.InDelta(t, 1153, p.ConvertedAmount(), 1e-9)

	// Derived, so a rate change is reflected immediately.
	p.ConversionRate = 12
	assert.InDelta(t, 1200, p.ConvertedAmount(), 1e-9)
}

func TestDimensions(t *testing.T) {
	d := Dimensions{Length: 50, Breadth: 40, Height: 30}
	require.InDelta(t, 60000, d.Volume(), 1e-9)
	assert.False(t, d.IsZero())

	assert.True(t, Dimensions{}.IsZero())
	assert.True(t, Dimensions{Length: 10, Breadth: 10}.IsZero())
}
