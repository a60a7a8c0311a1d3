package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mouly-K/ffe/internal/model"
)

type ShipperRepository struct {
	pool *pgxpool.Pool
}

func NewShipperRepository(pool *pgxpool.Pool) *ShipperRepository {
	return &ShipperRepository{pool: pool}
}

func (r *ShipperRepository) Insert(ctx context.Context, s *model.Shipper) error {
	var basedIn *string
	if s.BasedIn != nil {
		basedIn = &s.BasedIn.ID
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO shippers (id, name, default_currency, based_in_warehouse_id)
		VALUES ($1, $2, $3, $4)`,
		s.ID, s.Name, s.DefaultCurrency, basedIn,
	)
	if err != nil {
		return fmt.Errorf("insert shipper %s: %w", s.Name, err)
	}
	return nil
}

func (r *ShipperRepository) GetByID(ctx context.Context, id string) (*model.Shipper, error) {
	var (
		s       model.Shipper
		basedIn model.Warehouse
		hasBase bool
	)
	err := r.pool.QueryRow(ctx,
		`SELECT s.id, s.name, s.default_currency,
			w.id IS NOT NULL, COALESCE(w.id, ''), COALESCE(w.name, ''), COALESCE(w.country_name, '')
		FROM shippers s
		LEFT JOIN warehouses w ON w.id = s.based_in_warehouse_id
		WHERE s.id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.DefaultCurrency, &hasBase, &basedIn.ID, &basedIn.Name, &basedIn.CountryName)
	if err != nil {
		return nil, err
	}
	if hasBase {
		s.BasedIn = &basedIn
	}

	routes, err := r.ListRoutes(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.ShippingRoutes = routes
	return &s, nil
}

func (r *ShipperRepository) List(ctx context.Context) ([]model.Shipper, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.name, s.default_currency,
			w.id IS NOT NULL, COALESCE(w.id, ''), COALESCE(w.name, ''), COALESCE(w.country_name, '')
		FROM shippers s
		LEFT JOIN warehouses w ON w.id = s.based_in_warehouse_id
		ORDER BY s.name`)
	if err != nil {
		return nil, fmt.Errorf("list shippers: %w", err)
	}
	defer rows.Close()

	var shippers []model.Shipper
	for rows.Next() {
		var (
			s       model.Shipper
			basedIn model.Warehouse
			hasBase bool
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.DefaultCurrency, &hasBase, &basedIn.ID, &basedIn.Name, &basedIn.CountryName); err != nil {
			return nil, fmt.Errorf("scan shipper: %w", err)
		}
		if hasBase {
			s.BasedIn = &basedIn
		}
		shippers = append(shippers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range shippers {
		routes, err := r.ListRoutes(ctx, shippers[i].ID)
		if err != nil {
			return nil, err
		}
		shippers[i].ShippingRoutes = routes
	}
	return shippers, nil
}

const routeSelect = `SELECT r.id, r.shipper_id, r.name,
	ow.id, ow.name, ow.country_name,
	dw.id, dw.name, dw.country_name,
	r.evaluation_type, COALESCE(r.volumetric_divisor, 0), r.fee_override,
	r.fee_paid_currency, r.fee_first_weight_kg, r.fee_first_weight_amount,
	r.fee_continued_weight_amount, r.fee_misc_amount, r.fee_timestamp,
	r.price_paid_currency, r.price_paid_amount, r.price_timestamp
FROM shipping_routes r
JOIN warehouses ow ON ow.id = r.origin_warehouse_id
JOIN warehouses dw ON dw.id = r.destination_warehouse_id`

func scanRoute(row pgx.Row) (model.ShippingRoute, error) {
	var (
		route         model.ShippingRoute
		priceCurrency *string
		priceAmount   *float64
		priceTime     *time.Time
	)
	err := row.Scan(
		&route.ID, &route.ShipperID, &route.Name,
		&route.OriginWarehouse.ID, &route.OriginWarehouse.Name, &route.OriginWarehouse.CountryName,
		&route.DestinationWarehouse.ID, &route.DestinationWarehouse.Name, &route.DestinationWarehouse.CountryName,
		&route.EvaluationType, &route.VolumetricDivisor, &route.FeeOverride,
		&route.FeeSplit.PaidCurrency, &route.FeeSplit.FirstWeightKg, &route.FeeSplit.FirstWeightAmount,
		&route.FeeSplit.ContinuedWeightAmount, &route.FeeSplit.MiscAmount, &route.FeeSplit.Timestamp,
		&priceCurrency, &priceAmount, &priceTime,
	)
	if err != nil {
		return model.ShippingRoute{}, err
	}
	if priceCurrency != nil && priceAmount != nil {
		route.Price = &model.LocalPrice{
			PaidCurrency: *priceCurrency,
			PaidAmount:   *priceAmount,
		}
		if priceTime != nil {
			route.Price.Timestamp = *priceTime
		}
	}
	return route, nil
}

func (r *ShipperRepository) ListRoutes(ctx context.Context, shipperID string) ([]model.ShippingRoute, error) {
	rows, err := r.pool.Query(ctx, routeSelect+` WHERE r.shipper_id = $1 ORDER BY r.created_at`, shipperID)
	if err != nil {
		return nil, fmt.Errorf("list routes for shipper %s: %w", shipperID, err)
	}
	defer rows.Close()

	var routes []model.ShippingRoute
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

func (r *ShipperRepository) GetRoute(ctx context.Context, routeID string) (*model.ShippingRoute, error) {
	route, err := scanRoute(r.pool.QueryRow(ctx, routeSelect+` WHERE r.id = $1`, routeID))
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *ShipperRepository) InsertRoute(ctx context.Context, route *model.ShippingRoute) error {
	var (
		divisor       *float64
		priceCurrency *string
		priceAmount   *float64
	)
	if route.EvaluationType == model.EvaluationVolumetric {
		divisor = &route.VolumetricDivisor
	}
	if route.Price != nil {
		priceCurrency = &route.Price.PaidCurrency
		priceAmount = &route.Price.PaidAmount
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO shipping_routes (id, shipper_id, name,
			origin_warehouse_id, destination_warehouse_id,
			evaluation_type, volumetric_divisor, fee_override,
			fee_paid_currency, fee_first_weight_kg, fee_first_weight_amount,
			fee_continued_weight_amount, fee_misc_amount, fee_timestamp,
			price_paid_currency, price_paid_amount, price_timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		route.ID, route.ShipperID, route.Name,
		route.OriginWarehouse.ID, route.DestinationWarehouse.ID,
		route.EvaluationType, divisor, route.FeeOverride,
		route.FeeSplit.PaidCurrency, route.FeeSplit.FirstWeightKg, route.FeeSplit.FirstWeightAmount,
		route.FeeSplit.ContinuedWeightAmount, route.FeeSplit.MiscAmount, route.FeeSplit.Timestamp,
		priceCurrency, priceAmount, localPriceTime(route.Price),
	)
	if err != nil {
		return fmt.Errorf("insert route %s: %w", route.Name, err)
	}
	return nil
}

func (r *ShipperRepository) DeleteRoute(ctx context.Context, routeID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM shipping_routes WHERE id = $1`, routeID)
	if err != nil {
		return fmt.Errorf("delete route %s: %w", routeID, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
