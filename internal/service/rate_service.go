package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Mouly-K/ffe/internal/fx"
	"github.com/Mouly-K/ffe/internal/model"
)

// RateService stamps conversion snapshots onto prices using the fx resolver.
type RateService struct {
	resolver *fx.Resolver
}

func NewRateService(resolver *fx.Resolver) *RateService {
	return &RateService{resolver: resolver}
}

func (s *RateService) Resolve(ctx context.Context, from, to string, date time.Time) (fx.Result, error) {
	return s.resolver.Resolve(ctx, from, to, date)
}

// GeneratePrice builds a Price with a freshly resolved conversion snapshot.
func (s *RateService) GeneratePrice(ctx context.Context, paidCurrency, convertedCurrency string, paidAmount float64, ts time.Time) (model.Price, error) {
	if convertedCurrency == "" {
		convertedCurrency = paidCurrency
	}
	res, err := s.resolver.Resolve(ctx, paidCurrency, convertedCurrency, ts)
	if err != nil {
		return model.Price{}, fmt.Errorf("generate price: %w", err)
	}
	return model.Price{
		LocalPrice: model.LocalPrice{
			PaidCurrency: paidCurrency,
			PaidAmount:   paidAmount,
			Timestamp:    ts,
		},
		ConvertedCurrency: convertedCurrency,
		ConversionRate:    res.Rate,
	}, nil
}

// RefreshPrice re-resolves a price's conversion rate as of now, leaving the
// paid amount and currency untouched.
func (s *RateService) RefreshPrice(ctx context.Context, price model.Price) (model.Price, error) {
	res, err := s.resolver.Resolve(ctx, price.PaidCurrency, price.ConvertedCurrency, time.Now())
	if err != nil {
		return model.Price{}, fmt.Errorf("refresh price: %w", err)
	}
	price.ConversionRate = res.Rate
	price.Timestamp = time.Now()
	return price, nil
}
