package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mouly-K/ffe/internal/model"
)

type WarehouseRepository struct {
	pool *pgxpool.Pool
}

func NewWarehouseRepository(pool *pgxpool.Pool) *WarehouseRepository {
	return &WarehouseRepository{pool: pool}
}

func (r *WarehouseRepository) Insert(ctx context.Context, w *model.Warehouse) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO warehouses (id, name, country_name) VALUES ($1, $2, $3)`,
		w.ID, w.Name, w.CountryName,
	)
	if err != nil {
		return fmt.Errorf("insert warehouse %s: %w", w.Name, err)
	}
	return nil
}

func (r *WarehouseRepository) GetByID(ctx context.Context, id string) (*model.Warehouse, error) {
	var w model.Warehouse
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, country_name FROM warehouses WHERE id = $1`, id,
	).Scan(&w.ID, &w.Name, &w.CountryName)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WarehouseRepository) List(ctx context.Context) ([]model.Warehouse, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, country_name FROM warehouses ORDER BY country_name, name`)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	var warehouses []model.Warehouse
	for rows.Next() {
		var w model.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.CountryName); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

func (r *WarehouseRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM warehouses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete warehouse %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("warehouse %s not found", id)
	}
	return nil
}
