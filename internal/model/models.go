package model

import (
	"fmt"
	"time"
)

type EvaluationType string

const (
	EvaluationActual     EvaluationType = "Actual"
	EvaluationVolumetric EvaluationType = "Volumetric"
)

type PackageStatus string

const (
	PackagePending   PackageStatus = "Pending"
	PackageShipped   PackageStatus = "Shipped"
	PackageInTransit PackageStatus = "In Transit"
	PackageDelivered PackageStatus = "Delivered"
)

type RunStatus string

const (
	RunPending   RunStatus = "Pending"
	RunOngoing   RunStatus = "Ongoing"
	RunConcluded RunStatus = "Concluded"
	RunEnded     RunStatus = "Ended"
)

// LocalPrice is an amount in its original currency at a point in time.
type LocalPrice struct {
	PaidCurrency string    `json:"paid_currency"`
	PaidAmount   float64   `json:"paid_amount"`
	Timestamp    time.Time `json:"timestamp"`
}

// Price is a LocalPrice with a conversion snapshot. The converted amount is
// always derived from PaidAmount and ConversionRate, never stored, so it
// cannot go stale when either component changes.
type Price struct {
	LocalPrice
	ConvertedCurrency string  `json:"converted_currency"`
	ConversionRate    float64 `json:"conversion_rate"`
}

func (p Price) ConvertedAmount() float64 {
	return p.PaidAmount * p.ConversionRate
}

// Dimensions are in centimeters.
type Dimensions struct {
	Length  float64 `json:"length"`
	Breadth float64 `json:"breadth"`
	Height  float64 `json:"height"`
}

func (d Dimensions) Volume() float64 {
	return d.Length * d.Breadth * d.Height
}

func (d Dimensions) IsZero() bool {
	return d.Length == 0 || d.Breadth == 0 || d.Height == 0
}

// FeeSplit is a tiered rate card: a flat cost for the first FirstWeightKg,
// a per-kg cost beyond that, and a fixed miscellaneous fee. ConvertedCurrency
// and ConversionRate are zero on a shipper's rate card and get stamped when
// the route is copied onto a package.
type FeeSplit struct {
	PaidCurrency          string    `json:"paid_currency"`
	FirstWeightKg         float64   `json:"first_weight_kg"`
	FirstWeightAmount     float64   `json:"first_weight_amount"`
	ContinuedWeightAmount float64   `json:"continued_weight_amount"`
	MiscAmount            float64   `json:"misc_amount"`
	Timestamp             time.Time `json:"timestamp"`
	ConvertedCurrency     string    `json:"converted_currency,omitempty"`
	ConversionRate        float64   `json:"conversion_rate,omitempty"`
}

type Warehouse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CountryName string `json:"country_name"`
}

// ShippingRoute is one leg on a shipper's rate card. When FeeOverride is set
// the Price is the authoritative flat cost and the fee split is not used for
// computation; otherwise the price is derived from the fee split.
type ShippingRoute struct {
	ID                   string         `json:"id"`
	ShipperID            string         `json:"shipper_id"`
	Name                 string         `json:"name"`
	OriginWarehouse      Warehouse      `json:"origin_warehouse"`
	DestinationWarehouse Warehouse      `json:"destination_warehouse"`
	EvaluationType       EvaluationType `json:"evaluation_type"`
	VolumetricDivisor    float64        `json:"volumetric_divisor,omitempty"`
	FeeOverride          bool           `json:"fee_override"`
	FeeSplit             FeeSplit       `json:"fee_split"`
	Price                *LocalPrice    `json:"price,omitempty"`
}

// Validate enforces the route invariants before any computation is attempted.
func (r *ShippingRoute) Validate() error {
	if len(r.Name) < 2 || len(r.Name) > 50 {
		return fmt.Errorf("route name must be 2-50 characters, got %d", len(r.Name))
	}

	switch r.EvaluationType {
	case EvaluationActual:
		if r.VolumetricDivisor != 0 {
			return fmt.Errorf("route %q: volumetric divisor is only valid for volumetric evaluation", r.Name)
		}
	case EvaluationVolumetric:
		if r.VolumetricDivisor <= 0 {
			return fmt.Errorf("route %q: volumetric evaluation requires a positive volumetric divisor", r.Name)
		}
		if r.VolumetricDivisor != float64(int64(r.VolumetricDivisor)) || int64(r.VolumetricDivisor)%100 != 0 {
			return fmt.Errorf("route %q: volumetric divisor must be a multiple of 100, got %v", r.Name, r.VolumetricDivisor)
		}
	default:
		return fmt.Errorf("route %q: unknown evaluation type %q", r.Name, r.EvaluationType)
	}

	if r.FeeOverride {
		if r.Price == nil {
			return fmt.Errorf("route %q: fee override requires a flat price", r.Name)
		}
		return nil
	}

	fs := r.FeeSplit
	if fs.FirstWeightKg <= 0 {
		return fmt.Errorf("route %q: first weight must be greater than 0 kg", r.Name)
	}
	if fs.FirstWeightAmount <= 0 {
		return fmt.Errorf("route %q: first weight amount must be greater than 0", r.Name)
	}
	if fs.ContinuedWeightAmount <= 0 {
		return fmt.Errorf("route %q: continued weight amount must be greater than 0", r.Name)
	}
	if fs.MiscAmount < 0 {
		return fmt.Errorf("route %q: misc amount must not be negative", r.Name)
	}
	return nil
}

type Shipper struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	DefaultCurrency string          `json:"default_currency"`
	BasedIn         *Warehouse      `json:"based_in,omitempty"`
	ShippingRoutes  []ShippingRoute `json:"shipping_routes"`
}

// Run groups packages bought together and fixes the currency their costs are
// converted into.
type Run struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Timestamp         time.Time  `json:"timestamp"`
	Status            RunStatus  `json:"status"`
	ConvertedCurrency string     `json:"converted_currency"`
	ConcludedOn       *time.Time `json:"concluded_on,omitempty"`
	EndedOn           *time.Time `json:"ended_on,omitempty"`
}

// PackageRoute is a snapshot of a shipping route taken when the package was
// created, so later rate-card edits never touch historical shipments. The fee
// split and flat price carry stamped conversion fields; rate updates refresh
// the stamps in place, they never recreate the snapshot.
type PackageRoute struct {
	ID                   string         `json:"id"`
	RouteID              string         `json:"route_id"`
	ShipperID            string         `json:"shipper_id"`
	Name                 string         `json:"name"`
	OriginWarehouse      Warehouse      `json:"origin_warehouse"`
	DestinationWarehouse Warehouse      `json:"destination_warehouse"`
	EvaluationType       EvaluationType `json:"evaluation_type"`
	VolumetricDivisor    float64        `json:"volumetric_divisor,omitempty"`
	FeeOverride          bool           `json:"fee_override"`
	FeeSplit             FeeSplit       `json:"fee_split"`
	Price                *Price         `json:"price,omitempty"`
	TrackingNumber       string         `json:"tracking_number"`
	Status               PackageStatus  `json:"status"`
	ShippedOn            *time.Time     `json:"shipped_on,omitempty"`
	DeliveredOn          *time.Time     `json:"delivered_on,omitempty"`
}

// Package weight is in grams, the way agent sites report it.
type Package struct {
	ID           string         `json:"id"`
	RunID        string         `json:"run_id"`
	Name         string         `json:"name"`
	Dimensions   Dimensions     `json:"dimensions"`
	Weight       float64        `json:"weight"`
	ItemCurrency string         `json:"item_currency"`
	Routes       []PackageRoute `json:"routes"`
	Items        []Item         `json:"items"`
	Timestamp    time.Time      `json:"timestamp"`
	Link         string         `json:"link"`
}

type Item struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Dimensions Dimensions `json:"dimensions"`
	Weight     float64    `json:"weight"`
	Quantity   int        `json:"quantity"`
	Cost       Price      `json:"cost"`
	Timestamp  time.Time  `json:"timestamp"`
	Link       string     `json:"link"`
	Image      string     `json:"image,omitempty"`
}

// ItemRoute is an item's proportional share of one route's cost.
type ItemRoute struct {
	RouteID string `json:"route_id"`
	Price   Price  `json:"price"`
}
