package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mouly-K/ffe/internal/model"
)

type PackageRepository struct {
	pool *pgxpool.Pool
}

func NewPackageRepository(pool *pgxpool.Pool) *PackageRepository {
	return &PackageRepository{pool: pool}
}

// Insert persists the whole aggregate: the package, its route snapshots in
// leg order, and its items.
func (r *PackageRepository) Insert(ctx context.Context, pkg *model.Package) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin package insert: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO packages (id, run_id, name, length, breadth, height, weight,
			item_currency, created_at, link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		pkg.ID, pkg.RunID, pkg.Name,
		pkg.Dimensions.Length, pkg.Dimensions.Breadth, pkg.Dimensions.Height,
		pkg.Weight, pkg.ItemCurrency, pkg.Timestamp, pkg.Link,
	)
	if err != nil {
		return fmt.Errorf("insert package %s: %w", pkg.Name, err)
	}

	batch := &pgx.Batch{}
	for pos, route := range pkg.Routes {
		var divisor *float64
		if route.EvaluationType == model.EvaluationVolumetric {
			d := route.VolumetricDivisor
			divisor = &d
		}
		var priceCurrency, priceConverted *string
		var priceAmount, priceRate *float64
		if route.Price != nil {
			priceCurrency = &route.Price.PaidCurrency
			priceAmount = &route.Price.PaidAmount
			priceConverted = &route.Price.ConvertedCurrency
			priceRate = &route.Price.ConversionRate
		}
		batch.Queue(
			`INSERT INTO package_routes (id, package_id, route_id, shipper_id, name,
				origin_warehouse, destination_warehouse,
				evaluation_type, volumetric_divisor, fee_override,
				fee_paid_currency, fee_first_weight_kg, fee_first_weight_amount,
				fee_continued_weight_amount, fee_misc_amount, fee_timestamp,
				fee_converted_currency, fee_conversion_rate,
				price_paid_currency, price_paid_amount,
				price_converted_currency, price_conversion_rate,
				tracking_number, status, shipped_on, delivered_on, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
				$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`,
			route.ID, pkg.ID, route.RouteID, route.ShipperID, route.Name,
			route.OriginWarehouse, route.DestinationWarehouse,
			route.EvaluationType, divisor, route.FeeOverride,
			route.FeeSplit.PaidCurrency, route.FeeSplit.FirstWeightKg, route.FeeSplit.FirstWeightAmount,
			route.FeeSplit.ContinuedWeightAmount, route.FeeSplit.MiscAmount, route.FeeSplit.Timestamp,
			route.FeeSplit.ConvertedCurrency, route.FeeSplit.ConversionRate,
			priceCurrency, priceAmount, priceConverted, priceRate,
			route.TrackingNumber, route.Status, route.ShippedOn, route.DeliveredOn, pos,
		)
	}
	for pos, item := range pkg.Items {
		batch.Queue(
			`INSERT INTO items (id, package_id, name, length, breadth, height, weight,
				quantity, cost_paid_currency, cost_paid_amount, cost_timestamp,
				cost_converted_currency, cost_conversion_rate, created_at, link, image, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			item.ID, pkg.ID, item.Name,
			item.Dimensions.Length, item.Dimensions.Breadth, item.Dimensions.Height,
			item.Weight, item.Quantity,
			item.Cost.PaidCurrency, item.Cost.PaidAmount, item.Cost.Timestamp,
			item.Cost.ConvertedCurrency, item.Cost.ConversionRate,
			item.Timestamp, item.Link, item.Image, pos,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("insert package child %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close package batch: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PackageRepository) GetByID(ctx context.Context, id string) (*model.Package, error) {
	var pkg model.Package
	err := r.pool.QueryRow(ctx,
		`SELECT id, run_id, name, length, breadth, height, weight, item_currency, created_at, link
		FROM packages WHERE id = $1`, id,
	).Scan(&pkg.ID, &pkg.RunID, &pkg.Name,
		&pkg.Dimensions.Length, &pkg.Dimensions.Breadth, &pkg.Dimensions.Height,
		&pkg.Weight, &pkg.ItemCurrency, &pkg.Timestamp, &pkg.Link)
	if err != nil {
		return nil, err
	}

	if pkg.Routes, err = r.listRoutes(ctx, id); err != nil {
		return nil, err
	}
	if pkg.Items, err = r.listItems(ctx, id); err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *PackageRepository) ListByRun(ctx context.Context, runID string) ([]model.Package, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM packages WHERE run_id = $1 ORDER BY created_at`, runID)
	if err != nil {
		return nil, fmt.Errorf("list packages for run %s: %w", runID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan package id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	packages := make([]model.Package, 0, len(ids))
	for _, id := range ids {
		pkg, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		packages = append(packages, *pkg)
	}
	return packages, nil
}

func (r *PackageRepository) listRoutes(ctx context.Context, packageID string) ([]model.PackageRoute, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, route_id, shipper_id, name, origin_warehouse, destination_warehouse,
			evaluation_type, COALESCE(volumetric_divisor, 0), fee_override,
			fee_paid_currency, fee_first_weight_kg, fee_first_weight_amount,
			fee_continued_weight_amount, fee_misc_amount, fee_timestamp,
			COALESCE(fee_converted_currency, ''), COALESCE(fee_conversion_rate, 0),
			price_paid_currency, price_paid_amount, price_converted_currency, price_conversion_rate,
			tracking_number, status, shipped_on, delivered_on
		FROM package_routes WHERE package_id = $1 ORDER BY position`, packageID)
	if err != nil {
		return nil, fmt.Errorf("list package routes: %w", err)
	}
	defer rows.Close()

	var routes []model.PackageRoute
	for rows.Next() {
		var (
			route                        model.PackageRoute
			priceCurrency, priceConverted *string
			priceAmount, priceRate        *float64
		)
		err := rows.Scan(
			&route.ID, &route.RouteID, &route.ShipperID, &route.Name,
			&route.OriginWarehouse, &route.DestinationWarehouse,
			&route.EvaluationType, &route.VolumetricDivisor, &route.FeeOverride,
			&route.FeeSplit.PaidCurrency, &route.FeeSplit.FirstWeightKg, &route.FeeSplit.FirstWeightAmount,
			&route.FeeSplit.ContinuedWeightAmount, &route.FeeSplit.MiscAmount, &route.FeeSplit.Timestamp,
			&route.FeeSplit.ConvertedCurrency, &route.FeeSplit.ConversionRate,
			&priceCurrency, &priceAmount, &priceConverted, &priceRate,
			&route.TrackingNumber, &route.Status, &route.ShippedOn, &route.DeliveredOn,
		)
		if err != nil {
			return nil, fmt.Errorf("scan package route: %w", err)
		}
		if priceCurrency != nil && priceAmount != nil {
			route.Price = &model.Price{
				LocalPrice: model.LocalPrice{
					PaidCurrency: *priceCurrency,
					PaidAmount:   *priceAmount,
					Timestamp:    route.FeeSplit.Timestamp,
				},
			}
			if priceConverted != nil {
				route.Price.ConvertedCurrency = *priceConverted
			}
			if priceRate != nil {
				route.Price.ConversionRate = *priceRate
			}
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

func (r *PackageRepository) listItems(ctx context.Context, packageID string) ([]model.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, length, breadth, height, weight, quantity,
			cost_paid_currency, cost_paid_amount, cost_timestamp,
			cost_converted_currency, cost_conversion_rate,
			created_at, link, COALESCE(image, '')
		FROM items WHERE package_id = $1 ORDER BY position`, packageID)
	if err != nil {
		return nil, fmt.Errorf("list package items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		err := rows.Scan(
			&item.ID, &item.Name,
			&item.Dimensions.Length, &item.Dimensions.Breadth, &item.Dimensions.Height,
			&item.Weight, &item.Quantity,
			&item.Cost.PaidCurrency, &item.Cost.PaidAmount, &item.Cost.Timestamp,
			&item.Cost.ConvertedCurrency, &item.Cost.ConversionRate,
			&item.Timestamp, &item.Link, &item.Image,
		)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// RefreshRouteStamps rewrites only the conversion stamps of a stored package
// route; the snapshot itself is immutable.
func (r *PackageRepository) RefreshRouteStamps(ctx context.Context, route *model.PackageRoute) error {
	var priceConverted *string
	var priceRate *float64
	if route.Price != nil {
		priceConverted = &route.Price.ConvertedCurrency
		priceRate = &route.Price.ConversionRate
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE package_routes SET
			fee_converted_currency = $2, fee_conversion_rate = $3, fee_timestamp = $4,
			price_converted_currency = COALESCE($5, price_converted_currency),
			price_conversion_rate = COALESCE($6, price_conversion_rate)
		WHERE id = $1`,
		route.ID,
		route.FeeSplit.ConvertedCurrency, route.FeeSplit.ConversionRate, route.FeeSplit.Timestamp,
		priceConverted, priceRate,
	)
	if err != nil {
		return fmt.Errorf("refresh package route %s stamps: %w", route.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// RefreshItemCostStamps rewrites an item's cost conversion stamps.
func (r *PackageRepository) RefreshItemCostStamps(ctx context.Context, item *model.Item) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE items SET cost_converted_currency = $2, cost_conversion_rate = $3, cost_timestamp = $4
		WHERE id = $1`,
		item.ID, item.Cost.ConvertedCurrency, item.Cost.ConversionRate, item.Cost.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("refresh item %s cost stamps: %w", item.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateRouteTracking moves one package leg through the shipment lifecycle.
func (r *PackageRepository) UpdateRouteTracking(ctx context.Context, packageRouteID, trackingNumber string, status model.PackageStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE package_routes SET
			tracking_number = $2,
			status = $3,
			shipped_on = CASE WHEN $3 = 'Shipped' AND shipped_on IS NULL THEN NOW() ELSE shipped_on END,
			delivered_on = CASE WHEN $3 = 'Delivered' AND delivered_on IS NULL THEN NOW() ELSE delivered_on END
		WHERE id = $1`,
		packageRouteID, trackingNumber, status,
	)
	if err != nil {
		return fmt.Errorf("update package route %s tracking: %w", packageRouteID, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
