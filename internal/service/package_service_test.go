package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mouly-K/ffe/internal/fx"
	"github.com/Mouly-K/ffe/internal/model"
)

func testRateService(t *testing.T, tables map[string]fx.RateTable) *RateService {
	t.Helper()
	cache := fx.NewMemoryCache()
	today := time.Now().Format(fx.DayFormat)
	for base, table := range tables {
		require.NoError(t, cache.Set(context.Background(), today, base, table))
	}
	resolver := fx.NewResolver(cache, nil, nil, fx.ResolverConfig{
		MaxLookbackDays: 1,
		FetchTimeout:    time.Second,
	}, zerolog.Nop())
	return NewRateService(resolver)
}

func rateCardRoute() *model.ShippingRoute {
	return &model.ShippingRoute{
		ID:             "route-1",
		ShipperID:      "ship-1",
		Name:           "GZ to HK Truck",
		EvaluationType: model.EvaluationActual,
		FeeSplit: model.FeeSplit{
			PaidCurrency:          "cny",
			FirstWeightKg:         1,
			FirstWeightAmount:     5,
			ContinuedWeightAmount: 2,
			Timestamp:             time.Now(),
		},
	}
}

func TestSnapshotRoute_StampsConversion(t *testing.T) {
	rates := testRateService(t, map[string]fx.RateTable{"cny": {"inr": 11.53}})
	svc := NewPackageService(nil, nil, nil, rates)

	route := rateCardRoute()
	snapshot, err := svc.snapshotRoute(context.Background(), route, "inr")
	require.NoError(t, err)

	assert.NotEqual(t, route.ID, snapshot.ID, "snapshot gets its own identity")
	assert.Equal(t, route.ID, snapshot.RouteID)
	assert.Equal(t, model.PackagePending, snapshot.Status)
	assert.Equal(t, "inr", snapshot.FeeSplit.ConvertedCurrency)
	assert.InDelta(t, 11.53, snapshot.FeeSplit.ConversionRate, 1e-9)
	assert.Nil(t, snapshot.Price)
}

func TestSnapshotRoute_StampsFlatPrice(t *testing.T) {
	rates := testRateService(t, map[string]fx.RateTable{
		"cny": {"inr": 11.53},
		"hkd": {"inr": 10.69},
	})
	svc := NewPackageService(nil, nil, nil, rates)

	route := rateCardRoute()
	route.FeeOverride = true
	route.Price = &model.LocalPrice{PaidCurrency: "hkd", PaidAmount: 180, Timestamp: time.Now()}

	snapshot, err := svc.snapshotRoute(context.Background(), route, "inr")
	require.NoError(t, err)
	require.NotNil(t, snapshot.Price)
	assert.Equal(t, "hkd", snapshot.Price.PaidCurrency)
	assert.InDelta(t, 180, snapshot.Price.PaidAmount, 1e-9)
	assert.Equal(t, "inr", snapshot.Price.ConvertedCurrency)
	assert.InDelta(t, 10.69, snapshot.Price.ConversionRate, 1e-9)
}

func TestSnapshotRoute_ImmuneToRateCardEdits(t *testing.T) {
	rates := testRateService(t, map[string]fx.RateTable{"cny": {"inr": 11.53}})
	svc := NewPackageService(nil, nil, nil, rates)

	route := rateCardRoute()
	snapshot, err := svc.snapshotRoute(context.Background(), route, "inr")
	require.NoError(t, err)

	pkg := &model.Package{
		ID:     "pkg-1",
		Name:   "snapshot check",
		Weight: 3000,
		Routes: []model.PackageRoute{*snapshot},
	}

	quoteSvc := NewQuoteService(nil)
	before, err := quoteSvc.QuotePackage(context.Background(), pkg)
	require.NoError(t, err)

	// Reprice the shipper's rate card after the fact.
	route.FeeSplit.FirstWeightAmount = 500
	route.FeeSplit.ContinuedWeightAmount = 100

	after, err := quoteSvc.QuotePackage(context.Background(), pkg)
	require.NoError(t, err)
	assert.InDelta(t, before.Routes[0].Price.PaidAmount, after.Routes[0].Price.PaidAmount, 1e-9,
		"stored packages must price from their snapshot, not the live rate card")
	assert.InDelta(t, 9, after.Routes[0].Price.PaidAmount, 1e-9)
}
