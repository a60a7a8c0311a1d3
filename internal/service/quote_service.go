package service

import (
	"context"
	"time"

	"github.com/Mouly-K/ffe/internal/model"
	"github.com/Mouly-K/ffe/internal/pricing"
)

// PackageStore is the slice of the package repository the quote service
// needs; it is an interface so quotes can be computed against any aggregate
// source.
type PackageStore interface {
	GetByID(ctx context.Context, id string) (*model.Package, error)
}

type QuoteService struct {
	packages PackageStore
}

func NewQuoteService(packages PackageStore) *QuoteService {
	return &QuoteService{packages: packages}
}

// RouteQuote is one leg's cost, in both paid and converted terms.
type RouteQuote struct {
	RouteID         string      `json:"route_id"`
	Name            string      `json:"name"`
	Price           model.Price `json:"price"`
	ConvertedAmount float64     `json:"converted_amount"`
}

// ItemQuote carries an item's proportional shipping shares and landed cost.
type ItemQuote struct {
	ItemID        string            `json:"item_id"`
	Name          string            `json:"name"`
	Quantity      int               `json:"quantity"`
	Routes        []model.ItemRoute `json:"routes"`
	ShippingPrice model.LocalPrice  `json:"shipping_price"`
	TotalPrice    model.LocalPrice  `json:"total_price"`
}

type QuoteResult struct {
	PackageID     string           `json:"package_id"`
	PackageName   string           `json:"package_name"`
	GeneratedAt   time.Time        `json:"generated_at"`
	Routes        []RouteQuote     `json:"routes"`
	ShippingPrice model.LocalPrice `json:"shipping_price"`
	Items         []ItemQuote      `json:"items"`
}

// Quote prices a stored package: each leg, the package total, and the
// proportional allocation to every packed item. Items are only allocated
// when the package carries items with usable physical attributes.
func (s *QuoteService) Quote(ctx context.Context, packageID string) (*QuoteResult, error) {
	pkg, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	return s.QuotePackage(ctx, pkg)
}

func (s *QuoteService) QuotePackage(_ context.Context, pkg *model.Package) (*QuoteResult, error) {
	result := &QuoteResult{
		PackageID:   pkg.ID,
		PackageName: pkg.Name,
		GeneratedAt: time.Now(),
	}

	result.Routes = make([]RouteQuote, len(pkg.Routes))
	for i, route := range pkg.Routes {
		price, err := pricing.RoutePrice(route, *pkg)
		if err != nil {
			return nil, err
		}
		result.Routes[i] = RouteQuote{
			RouteID:         route.RouteID,
			Name:            route.Name,
			Price:           price,
			ConvertedAmount: price.ConvertedAmount(),
		}
	}

	shipping, err := pricing.PackageShippingPrice(*pkg)
	if err != nil {
		return nil, err
	}
	result.ShippingPrice = shipping

	result.Items = make([]ItemQuote, len(pkg.Items))
	for i, item := range pkg.Items {
		itemRoutes, err := pricing.ItemRoutePrices(*pkg, item)
		if err != nil {
			return nil, err
		}
		itemShipping, err := pricing.ItemShippingPrice(itemRoutes)
		if err != nil {
			return nil, err
		}
		result.Items[i] = ItemQuote{
			ItemID:        item.ID,
			Name:          item.Name,
			Quantity:      item.Quantity,
			Routes:        itemRoutes,
			ShippingPrice: itemShipping,
			TotalPrice:    pricing.ItemTotalPrice(item, itemShipping),
		}
	}

	return result, nil
}
