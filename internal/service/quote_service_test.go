package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mouly-K/ffe/internal/model"
)

type stubPackageStore struct {
	packages map[string]*model.Package
}

func (s *stubPackageStore) GetByID(_ context.Context, id string) (*model.Package, error) {
	pkg, ok := s.packages[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return pkg, nil
}

func storedPackage() *model.Package {
	return &model.Package{
		ID:         "pkg-1",
		Name:       "spring haul",
		Dimensions: model.Dimensions{Length: 50, Breadth: 40, Height: 30},
		Weight:     3000,
		Routes: []model.PackageRoute{
			{
				ID:             "pr-1",
				RouteID:        "route-actual",
				Name:           "GZ to HK Truck",
				EvaluationType: model.EvaluationActual,
				FeeSplit: model.FeeSplit{
					PaidCurrency:          "cny",
					FirstWeightKg:         1,
					FirstWeightAmount:     5,
					ContinuedWeightAmount: 2,
					ConvertedCurrency:     "inr",
					ConversionRate:        11.53,
				},
			},
		},
		Items: []model.Item{
			{
				ID:         "item-1",
				Name:       "headphones",
				Weight:     1000,
				Dimensions: model.Dimensions{Length: 20, Breadth: 15, Height: 8},
				Quantity:   1,
				Cost: model.Price{
					LocalPrice:        model.LocalPrice{PaidCurrency: "cny", PaidAmount: 150},
					ConvertedCurrency: "inr",
					ConversionRate:    11.53,
				},
			},
			{
				ID:         "item-2",
				Name:       "charger",
				Weight:     2000,
				Dimensions: model.Dimensions{Length: 10, Breadth: 8, Height: 5},
				Quantity:   2,
				Cost: model.Price{
					LocalPrice:        model.LocalPrice{PaidCurrency: "cny", PaidAmount: 60},
					ConvertedCurrency: "inr",
					ConversionRate:    11.53,
				},
			},
		},
	}
}

func TestQuoteService_Quote(t *testing.T) {
	store := &stubPackageStore{packages: map[string]*model.Package{"pkg-1": storedPackage()}}
	svc := NewQuoteService(store)

	quote, err := svc.Quote(context.Background(), "pkg-1")
	require.NoError(t, err)

	assert.Equal(t, "pkg-1", quote.PackageID)
	assert.Equal(t, "spring haul", quote.PackageName)

	// 3kg actual-weight route: 5 + 2*2 = 9 cny.
	require.Len(t, quote.Routes, 1)
	assert.InDelta(t, 9, quote.Routes[0].Price.PaidAmount, 1e-9)
	assert.Equal(t, "inr", quote.ShippingPrice.PaidCurrency)
	assert.InDelta(t, 9*11.53, quote.ShippingPrice.PaidAmount, 1e-9)

	// Weight split 1:2 across the two items.
	require.Len(t, quote.Items, 2)
	assert.InDelta(t, 3*11.53, quote.Items[0].ShippingPrice.PaidAmount, 1e-9)
	assert.InDelta(t, 6*11.53, quote.Items[1].ShippingPrice.PaidAmount, 1e-9)

	// Landed cost = converted item cost + shipping share.
	assert.InDelta(t, 150*11.53+3*11.53, quote.Items[0].TotalPrice.PaidAmount, 1e-9)

	// Item shares sum back to the package total.
	var itemTotal float64
	for _, item := range quote.Items {
		itemTotal += item.ShippingPrice.PaidAmount
	}
	assert.InDelta(t, quote.ShippingPrice.PaidAmount, itemTotal, 1e-9)
}

func TestQuoteService_UnknownPackage(t *testing.T) {
	svc := NewQuoteService(&stubPackageStore{packages: map[string]*model.Package{}})
	_, err := svc.Quote(context.Background(), "missing")
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestQuoteService_ItemlessPackage(t *testing.T) {
	pkg := storedPackage()
	pkg.Items = nil
	svc := NewQuoteService(&stubPackageStore{packages: map[string]*model.Package{"pkg-1": pkg}})

	quote, err := svc.Quote(context.Background(), "pkg-1")
	require.NoError(t, err)
	assert.Empty(t, quote.Items)
	assert.InDelta(t, 9*11.53, quote.ShippingPrice.PaidAmount, 1e-9)
}
