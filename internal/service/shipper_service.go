package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Mouly-K/ffe/internal/dto"
	"github.com/Mouly-K/ffe/internal/model"
	"github.com/Mouly-K/ffe/internal/repository"
)

type ShipperService struct {
	shipperRepo   *repository.ShipperRepository
	warehouseRepo *repository.WarehouseRepository
}

func NewShipperService(shipperRepo *repository.ShipperRepository, warehouseRepo *repository.WarehouseRepository) *ShipperService {
	return &ShipperService{shipperRepo: shipperRepo, warehouseRepo: warehouseRepo}
}

func (s *ShipperService) Create(ctx context.Context, req *dto.CreateShipperRequest) (*model.Shipper, error) {
	shipper := &model.Shipper{
		ID:              uuid.NewString(),
		Name:            req.Name,
		DefaultCurrency: req.DefaultCurrency,
		ShippingRoutes:  []model.ShippingRoute{},
	}
	if req.BasedInWarehouseID != "" {
		warehouse, err := s.warehouseRepo.GetByID(ctx, req.BasedInWarehouseID)
		if err != nil {
			return nil, fmt.Errorf("look up base warehouse: %w", err)
		}
		shipper.BasedIn = warehouse
	}

	if err := s.shipperRepo.Insert(ctx, shipper); err != nil {
		return nil, err
	}
	return shipper, nil
}

func (s *ShipperService) Get(ctx context.Context, id string) (*model.Shipper, error) {
	return s.shipperRepo.GetByID(ctx, id)
}

func (s *ShipperService) List(ctx context.Context) ([]model.Shipper, error) {
	return s.shipperRepo.List(ctx)
}

// AddRoute appends a route to a shipper's rate card. The route is validated
// before it is persisted; a derived-price route must not carry a caller
// supplied flat price.
func (s *ShipperService) AddRoute(ctx context.Context, shipperID string, req *dto.CreateRouteRequest) (*model.ShippingRoute, error) {
	shipper, err := s.shipperRepo.GetByID(ctx, shipperID)
	if err != nil {
		return nil, fmt.Errorf("look up shipper: %w", err)
	}

	origin, err := s.warehouseRepo.GetByID(ctx, req.OriginWarehouseID)
	if err != nil {
		return nil, fmt.Errorf("look up origin warehouse: %w", err)
	}
	destination, err := s.warehouseRepo.GetByID(ctx, req.DestinationWarehouseID)
	if err != nil {
		return nil, fmt.Errorf("look up destination warehouse: %w", err)
	}

	now := time.Now()
	route := &model.ShippingRoute{
		ID:                   uuid.NewString(),
		ShipperID:            shipper.ID,
		Name:                 req.Name,
		OriginWarehouse:      *origin,
		DestinationWarehouse: *destination,
		EvaluationType:       model.EvaluationType(req.EvaluationType),
		VolumetricDivisor:    req.VolumetricDivisor,
		FeeOverride:          req.FeeOverride,
	}

	if req.FeeOverride {
		if req.Price == nil {
			return nil, fmt.Errorf("route %q: fee override requires a flat price", req.Name)
		}
		route.Price = &model.LocalPrice{
			PaidCurrency: req.Price.PaidCurrency,
			PaidAmount:   req.Price.PaidAmount,
			Timestamp:    now,
		}
		// The fee split stays structurally present on the rate card but
		// takes no part in computation.
		route.FeeSplit = model.FeeSplit{
			PaidCurrency:          route.Price.PaidCurrency,
			FirstWeightKg:         1,
			FirstWeightAmount:     route.Price.PaidAmount,
			ContinuedWeightAmount: 1,
			Timestamp:             now,
		}
	} else {
		if req.FeeSplit == nil {
			return nil, fmt.Errorf("route %q: split-fee route requires a fee split", req.Name)
		}
		if req.Price != nil {
			return nil, fmt.Errorf("route %q: derived-price route must not carry a flat price", req.Name)
		}
		route.FeeSplit = model.FeeSplit{
			PaidCurrency:          req.FeeSplit.PaidCurrency,
			FirstWeightKg:         req.FeeSplit.FirstWeightKg,
			FirstWeightAmount:     req.FeeSplit.FirstWeightAmount,
			ContinuedWeightAmount: req.FeeSplit.ContinuedWeightAmount,
			MiscAmount:            req.FeeSplit.MiscAmount,
			Timestamp:             now,
		}
	}

	if err := route.Validate(); err != nil {
		return nil, err
	}
	if err := s.shipperRepo.InsertRoute(ctx, route); err != nil {
		return nil, err
	}
	return route, nil
}

func (s *ShipperService) GetRoute(ctx context.Context, routeID string) (*model.ShippingRoute, error) {
	return s.shipperRepo.GetRoute(ctx, routeID)
}

func (s *ShipperService) DeleteRoute(ctx context.Context, routeID string) error {
	return s.shipperRepo.DeleteRoute(ctx, routeID)
}
