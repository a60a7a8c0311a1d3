package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Mouly-K/ffe/internal/dto"
	"github.com/Mouly-K/ffe/internal/model"
	"github.com/Mouly-K/ffe/internal/repository"
)

type PackageService struct {
	packageRepo *repository.PackageRepository
	shipperRepo *repository.ShipperRepository
	runRepo     *repository.RunRepository
	rates       *RateService
}

func NewPackageService(packageRepo *repository.PackageRepository, shipperRepo *repository.ShipperRepository, runRepo *repository.RunRepository, rates *RateService) *PackageService {
	return &PackageService{
		packageRepo: packageRepo,
		shipperRepo: shipperRepo,
		runRepo:     runRepo,
		rates:       rates,
	}
}

// Create snapshots the selected shipping routes onto a new package, stamps
// conversion rates for the run's currency onto every snapshot and item cost,
// and persists the aggregate. Distinct currency pairs resolve in parallel;
// the shared rate cache is keyed per (date, currency), so concurrent
// resolutions do not interfere.
func (s *PackageService) Create(ctx context.Context, req *dto.CreatePackageRequest) (*model.Package, error) {
	run, err := s.runRepo.GetByID(ctx, req.RunID)
	if err != nil {
		return nil, fmt.Errorf("look up run: %w", err)
	}

	now := time.Now()
	pkg := &model.Package{
		ID:    uuid.NewString(),
		RunID: run.ID,
		Name:  req.Name,
		Dimensions: model.Dimensions{
			Length:  req.Dimensions.Length,
			Breadth: req.Dimensions.Breadth,
			Height:  req.Dimensions.Height,
		},
		Weight:       req.Weight,
		ItemCurrency: req.ItemCurrency,
		Timestamp:    now,
		Link:         req.Link,
		Routes:       make([]model.PackageRoute, len(req.RouteIDs)),
		Items:        make([]model.Item, len(req.Items)),
	}

	g, gctx := errgroup.WithContext(ctx)

	for i, routeID := range req.RouteIDs {
		i, routeID := i, routeID
		g.Go(func() error {
			route, err := s.shipperRepo.GetRoute(gctx, routeID)
			if err != nil {
				return fmt.Errorf("look up route %s: %w", routeID, err)
			}
			if err := route.Validate(); err != nil {
				return err
			}
			snapshot, err := s.snapshotRoute(gctx, route, run.ConvertedCurrency)
			if err != nil {
				return err
			}
			pkg.Routes[i] = *snapshot
			return nil
		})
	}

	for i, itemReq := range req.Items {
		i, itemReq := i, itemReq
		g.Go(func() error {
			cost, err := s.rates.GeneratePrice(gctx, req.ItemCurrency, run.ConvertedCurrency, itemReq.CostAmount, now)
			if err != nil {
				return fmt.Errorf("price item %q: %w", itemReq.Name, err)
			}
			pkg.Items[i] = model.Item{
				ID:   uuid.NewString(),
				Name: itemReq.Name,
				Dimensions: model.Dimensions{
					Length:  itemReq.Dimensions.Length,
					Breadth: itemReq.Dimensions.Breadth,
					Height:  itemReq.Dimensions.Height,
				},
				Weight:    itemReq.Weight,
				Quantity:  itemReq.Quantity,
				Cost:      cost,
				Timestamp: now,
				Link:      itemReq.Link,
				Image:     itemReq.Image,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.packageRepo.Insert(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// snapshotRoute copies a rate-card route into a package leg and stamps the
// conversion fields. The copy is what makes historical shipments immune to
// later rate-card edits.
func (s *PackageService) snapshotRoute(ctx context.Context, route *model.ShippingRoute, convertedCurrency string) (*model.PackageRoute, error) {
	now := time.Now()

	snapshot := &model.PackageRoute{
		ID:                   uuid.NewString(),
		RouteID:              route.ID,
		ShipperID:            route.ShipperID,
		Name:                 route.Name,
		OriginWarehouse:      route.OriginWarehouse,
		DestinationWarehouse: route.DestinationWarehouse,
		EvaluationType:       route.EvaluationType,
		VolumetricDivisor:    route.VolumetricDivisor,
		FeeOverride:          route.FeeOverride,
		FeeSplit:             route.FeeSplit,
		Status:               model.PackagePending,
	}

	res, err := s.rates.Resolve(ctx, route.FeeSplit.PaidCurrency, convertedCurrency, now)
	if err != nil {
		return nil, fmt.Errorf("stamp route %q fee split: %w", route.Name, err)
	}
	snapshot.FeeSplit.ConvertedCurrency = convertedCurrency
	snapshot.FeeSplit.ConversionRate = res.Rate
	snapshot.FeeSplit.Timestamp = now

	if route.Price != nil {
		price, err := s.rates.GeneratePrice(ctx, route.Price.PaidCurrency, convertedCurrency, route.Price.PaidAmount, now)
		if err != nil {
			return nil, fmt.Errorf("stamp route %q flat price: %w", route.Name, err)
		}
		snapshot.Price = &price
	}

	return snapshot, nil
}

func (s *PackageService) Get(ctx context.Context, id string) (*model.Package, error) {
	return s.packageRepo.GetByID(ctx, id)
}

func (s *PackageService) ListByRun(ctx context.Context, runID string) ([]model.Package, error) {
	return s.packageRepo.ListByRun(ctx, runID)
}

// RefreshRates re-resolves the conversion stamps of a stored package in
// place: fee splits, flat prices and item costs keep their amounts and
// currencies, only the rates and stamp timestamps change.
func (s *PackageService) RefreshRates(ctx context.Context, packageID string) (*model.Package, error) {
	pkg, err := s.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	for i := range pkg.Routes {
		route := &pkg.Routes[i]
		g.Go(func() error {
			res, err := s.rates.Resolve(gctx, route.FeeSplit.PaidCurrency, route.FeeSplit.ConvertedCurrency, now)
			if err != nil {
				return fmt.Errorf("refresh route %q fee split: %w", route.Name, err)
			}
			route.FeeSplit.ConversionRate = res.Rate
			route.FeeSplit.Timestamp = now

			if route.Price != nil {
				refreshed, err := s.rates.RefreshPrice(gctx, *route.Price)
				if err != nil {
					return fmt.Errorf("refresh route %q flat price: %w", route.Name, err)
				}
				route.Price = &refreshed
			}
			return s.packageRepo.RefreshRouteStamps(gctx, route)
		})
	}

	for i := range pkg.Items {
		item := &pkg.Items[i]
		g.Go(func() error {
			refreshed, err := s.rates.RefreshPrice(gctx, item.Cost)
			if err != nil {
				return fmt.Errorf("refresh item %q cost: %w", item.Name, err)
			}
			item.Cost = refreshed
			return s.packageRepo.RefreshItemCostStamps(gctx, item)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pkg, nil
}

// UpdateTracking moves one leg of a package through the shipment lifecycle.
func (s *PackageService) UpdateTracking(ctx context.Context, packageRouteID string, req *dto.UpdateTrackingRequest) error {
	return s.packageRepo.UpdateRouteTracking(ctx, packageRouteID, req.TrackingNumber, model.PackageStatus(req.Status))
}
