package dto

import (
	"time"

	"github.com/Mouly-K/ffe/internal/model"
)

type RateResponse struct {
	From           string  `json:"from"`
	To             string  `json:"to"`
	Date           string  `json:"date"`
	Status         string  `json:"status"`
	ConversionRate float64 `json:"conversion_rate"`
}

// PriceResponse is the wire form of a Price: the derived converted amount is
// materialized for display.
type PriceResponse struct {
	PaidCurrency      string    `json:"paid_currency"`
	PaidAmount        float64   `json:"paid_amount"`
	Timestamp         time.Time `json:"timestamp"`
	ConvertedCurrency string    `json:"converted_currency"`
	ConversionRate    float64   `json:"conversion_rate"`
	ConvertedAmount   float64   `json:"converted_amount"`
}

func NewPriceResponse(p model.Price) PriceResponse {
	return PriceResponse{
		PaidCurrency:      p.PaidCurrency,
		PaidAmount:        p.PaidAmount,
		Timestamp:         p.Timestamp,
		ConvertedCurrency: p.ConvertedCurrency,
		ConversionRate:    p.ConversionRate,
		ConvertedAmount:   p.ConvertedAmount(),
	}
}

type LocalPriceResponse struct {
	PaidCurrency string    `json:"paid_currency"`
	PaidAmount   float64   `json:"paid_amount"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewLocalPriceResponse(p model.LocalPrice) LocalPriceResponse {
	return LocalPriceResponse{
		PaidCurrency: p.PaidCurrency,
		PaidAmount:   p.PaidAmount,
		Timestamp:    p.Timestamp,
	}
}

type ItemRouteResponse struct {
	RouteID string        `json:"route_id"`
	Price   PriceResponse `json:"price"`
}

type RouteQuoteResponse struct {
	RouteID string        `json:"route_id"`
	Name    string        `json:"name"`
	Price   PriceResponse `json:"price"`
}

type ItemQuoteResponse struct {
	ItemID        string              `json:"item_id"`
	Name          string              `json:"name"`
	Quantity      int                 `json:"quantity"`
	Routes        []ItemRouteResponse `json:"routes"`
	ShippingPrice LocalPriceResponse  `json:"shipping_price"`
	TotalPrice    LocalPriceResponse  `json:"total_price"`
}

type QuoteResponse struct {
	PackageID     string               `json:"package_id"`
	PackageName   string               `json:"package_name"`
	GeneratedAt   time.Time            `json:"generated_at"`
	Routes        []RouteQuoteResponse `json:"routes"`
	ShippingPrice LocalPriceResponse   `json:"shipping_price"`
	Items         []ItemQuoteResponse  `json:"items"`
}

type ValidationError struct {
	Index   int    `json:"index,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorListResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}
