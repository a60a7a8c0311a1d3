// Package pricing computes shipping costs for packages routed through
// intermediary warehouses. All functions are pure over already-loaded
// aggregates; conversion rates are expected to be stamped on the package's
// routes and item costs beforehand.
package pricing

import (
	"fmt"
	"time"

	"github.com/Mouly-K/ffe/internal/model"
)

// ValidationError reports an aggregate that cannot be priced, with enough
// context to tell the caller which route, package or item is at fault.
type ValidationError struct {
	Subject string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Subject, e.Reason)
}

// Volume returns the raw volume of the dimensions in cubic centimeters.
func Volume(d model.Dimensions) float64 {
	return d.Volume()
}

// VolumetricWeight converts dimensions to billable kilograms using the
// carrier's divisor.
func VolumetricWeight(d model.Dimensions, divisor float64) float64 {
	return d.Volume() / divisor
}

// RoutePrice computes the package's shipping price for one route. A fee
// override returns the stamped flat price verbatim; the split-fee model
// charges the first-weight amount, the continued per-kg amount for weight
// beyond the first tier, and the misc fee. Excess below the first tier is
// clamped to zero: there is no charge-back for light packages.
func RoutePrice(route model.PackageRoute, pkg model.Package) (model.Price, error) {
	if route.FeeOverride {
		if route.Price == nil {
			return model.Price{}, &ValidationError{
				Subject: "route " + route.Name,
				Reason:  "fee override set but no flat price stamped",
			}
		}
		return *route.Price, nil
	}

	var billableKg float64
	switch route.EvaluationType {
	case model.EvaluationActual:
		if pkg.Weight <= 0 {
			return model.Price{}, &ValidationError{
				Subject: "package " + pkg.Name,
				Reason:  "actual-weight route requires a positive package weight",
			}
		}
		billableKg = pkg.Weight / 1000
	case model.EvaluationVolumetric:
		if route.VolumetricDivisor <= 0 {
			return model.Price{}, &ValidationError{
				Subject: "route " + route.Name,
				Reason:  "volumetric route requires a positive volumetric divisor",
			}
		}
		if pkg.Dimensions.IsZero() {
			return model.Price{}, &ValidationError{
				Subject: "package " + pkg.Name,
				Reason:  "volumetric route requires package dimensions",
			}
		}
		billableKg = VolumetricWeight(pkg.Dimensions, route.VolumetricDivisor)
	default:
		return model.Price{}, &ValidationError{
			Subject: "route " + route.Name,
			Reason:  fmt.Sprintf("unknown evaluation type %q", route.EvaluationType),
		}
	}

	fs := route.FeeSplit
	excessKg := billableKg - fs.FirstWeightKg
	if excessKg < 0 {
		excessKg = 0
	}

	return model.Price{
		LocalPrice: model.LocalPrice{
			PaidCurrency: fs.PaidCurrency,
			PaidAmount:   fs.FirstWeightAmount + excessKg*fs.ContinuedWeightAmount + fs.MiscAmount,
			Timestamp:    time.Now(),
		},
		ConvertedCurrency: fs.ConvertedCurrency,
		ConversionRate:    fs.ConversionRate,
	}, nil
}

// PackageShippingPrice totals the package's route prices in converted terms.
// Each route may be paid in its own currency, so the sum is only meaningful
// in the converted currency all routes were stamped with; the total is
// expressed in the first route's converted currency.
func PackageShippingPrice(pkg model.Package) (model.LocalPrice, error) {
	if len(pkg.Routes) == 0 {
		return model.LocalPrice{}, &ValidationError{
			Subject: "package " + pkg.Name,
			Reason:  "no routes to price",
		}
	}

	first, err := RoutePrice(pkg.Routes[0], pkg)
	if err != nil {
		return model.LocalPrice{}, err
	}

	total := model.LocalPrice{
		PaidCurrency: first.ConvertedCurrency,
		PaidAmount:   first.ConvertedAmount(),
		Timestamp:    time.Now(),
	}
	for _, route := range pkg.Routes[1:] {
		price, err := RoutePrice(route, pkg)
		if err != nil {
			return model.LocalPrice{}, err
		}
		total.PaidAmount += price.ConvertedAmount()
	}
	return total, nil
}

// ItemRoutePrices allocates each of the package's route costs to one item,
// proportionally by weight on actual-weight routes and by volume on
// volumetric ones.
func ItemRoutePrices(pkg model.Package, item model.Item) ([]model.ItemRoute, error) {
	if item.Weight <= 0 || item.Dimensions.IsZero() {
		return nil, &ValidationError{
			Subject: "item " + item.Name,
			Reason:  "proportional allocation requires item weight and dimensions",
		}
	}
	if pkg.Weight <= 0 || pkg.Dimensions.IsZero() {
		return nil, &ValidationError{
			Subject: "package " + pkg.Name,
			Reason:  "proportional allocation requires package weight and dimensions",
		}
	}

	var totalWeight, totalVolume float64
	for _, it := range pkg.Items {
		totalWeight += it.Weight
		totalVolume += it.Dimensions.Volume()
	}

	routes := make([]model.ItemRoute, 0, len(pkg.Routes))
	for _, route := range pkg.Routes {
		var ratio float64
		switch route.EvaluationType {
		case model.EvaluationVolumetric:
			if totalVolume == 0 {
				return nil, &ValidationError{
					Subject: "package " + pkg.Name,
					Reason:  "total item volume is zero, cannot allocate volumetric route cost",
				}
			}
			ratio = item.Dimensions.Volume() / totalVolume
		default:
			if totalWeight == 0 {
				return nil, &ValidationError{
					Subject: "package " + pkg.Name,
					Reason:  "total item weight is zero, cannot allocate route cost",
				}
			}
			ratio = item.Weight / totalWeight
		}

		price, err := RoutePrice(route, pkg)
		if err != nil {
			return nil, err
		}
		price.PaidAmount *= ratio

		routes = append(routes, model.ItemRoute{RouteID: route.RouteID, Price: price})
	}
	return routes, nil
}

// ItemShippingPrice totals an item's per-route shares in converted terms,
// expressed in the first share's converted currency.
func ItemShippingPrice(itemRoutes []model.ItemRoute) (model.LocalPrice, error) {
	if len(itemRoutes) == 0 {
		return model.LocalPrice{}, &ValidationError{
			Subject: "item",
			Reason:  "no route shares to total",
		}
	}

	total := model.LocalPrice{
		PaidCurrency: itemRoutes[0].Price.ConvertedCurrency,
		Timestamp:    time.Now(),
	}
	for _, ir := range itemRoutes {
		total.PaidAmount += ir.Price.ConvertedAmount()
	}
	return total, nil
}

// ItemTotalPrice is the landed cost: the item's converted purchase cost plus
// its already-converted shipping share.
func ItemTotalPrice(item model.Item, shipping model.LocalPrice) model.LocalPrice {
	return model.LocalPrice{
		PaidCurrency: item.Cost.ConvertedCurrency,
		PaidAmount:   item.Cost.ConvertedAmount() + shipping.PaidAmount,
		Timestamp:    time.Now(),
	}
}
