package dto

type CreateWarehouseRequest struct {
	Name        string `json:"name" binding:"required"`
	CountryName string `json:"country_name" binding:"required"`
}

type CreateShipperRequest struct {
	Name               string `json:"name" binding:"required,min=2,max=50"`
	DefaultCurrency    string `json:"default_currency" binding:"required,len=3"`
	BasedInWarehouseID string `json:"based_in_warehouse_id"`
}

type FlatPriceRequest struct {
	PaidCurrency string  `json:"paid_currency" binding:"required,len=3"`
	PaidAmount   float64 `json:"paid_amount" binding:"required,gt=0"`
}

type FeeSplitRequest struct {
	PaidCurrency          string  `json:"paid_currency" binding:"required,len=3"`
	FirstWeightKg         float64 `json:"first_weight_kg" binding:"required,gt=0"`
	FirstWeightAmount     float64 `json:"first_weight_amount" binding:"required,gt=0"`
	ContinuedWeightAmount float64 `json:"continued_weight_amount" binding:"required,gt=0"`
	MiscAmount            float64 `json:"misc_amount" binding:"gte=0"`
}

type CreateRouteRequest struct {
	Name                   string            `json:"name" binding:"required,min=2,max=50"`
	OriginWarehouseID      string            `json:"origin_warehouse_id" binding:"required"`
	DestinationWarehouseID string            `json:"destination_warehouse_id" binding:"required"`
	EvaluationType         string            `json:"evaluation_type" binding:"required,oneof=Actual Volumetric"`
	VolumetricDivisor      float64           `json:"volumetric_divisor"`
	FeeOverride            bool              `json:"fee_override"`
	FeeSplit               *FeeSplitRequest  `json:"fee_split"`
	Price                  *FlatPriceRequest `json:"price"`
}

type CreateRunRequest struct {
	Name              string `json:"name" binding:"required"`
	ConvertedCurrency string `json:"converted_currency" binding:"required,len=3"`
}

type UpdateRunStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Pending Ongoing Concluded Ended"`
}

type DimensionsRequest struct {
	Length  float64 `json:"length" binding:"gte=0"`
	Breadth float64 `json:"breadth" binding:"gte=0"`
	Height  float64 `json:"height" binding:"gte=0"`
}

type CreateItemRequest struct {
	Name       string            `json:"name" binding:"required"`
	Dimensions DimensionsRequest `json:"dimensions"`
	Weight     float64           `json:"weight" binding:"required,gt=0"`
	Quantity   int               `json:"quantity" binding:"required,gte=1"`
	CostAmount float64           `json:"cost_amount" binding:"gte=0"`
	Link       string            `json:"link"`
	Image      string            `json:"image"`
}

type CreatePackageRequest struct {
	RunID        string              `json:"run_id" binding:"required"`
	Name         string              `json:"name" binding:"required"`
	Dimensions   DimensionsRequest   `json:"dimensions"`
	Weight       float64             `json:"weight" binding:"required,gt=0"`
	ItemCurrency string              `json:"item_currency" binding:"required,len=3"`
	RouteIDs     []string            `json:"route_ids" binding:"required,min=1"`
	Link         string              `json:"link"`
	Items        []CreateItemRequest `json:"items" binding:"omitempty,dive"`
}

type UpdateTrackingRequest struct {
	TrackingNumber string `json:"tracking_number"`
	Status         string `json:"status" binding:"required,oneof=Pending Shipped 'In Transit' Delivered"`
}
