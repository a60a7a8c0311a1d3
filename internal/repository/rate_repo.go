package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mouly-K/ffe/internal/fx"
)

// RateRepository is the durable fx.Cache: one row per (day, base currency)
// holding that day's whole rate table as jsonb. Writes replace the table.
type RateRepository struct {
	pool *pgxpool.Pool
}

func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}

func (r *RateRepository) Get(ctx context.Context, day, currency string) (fx.RateTable, error) {
	var table fx.RateTable
	err := r.pool.QueryRow(ctx,
		`SELECT rates FROM fx_rates WHERE rate_date = $1 AND base_currency = $2`,
		day, currency,
	).Scan(&table)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rate table %s/%s: %w", currency, day, err)
	}
	return table, nil
}

func (r *RateRepository) Set(ctx context.Context, day, currency string, table fx.RateTable) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO fx_rates (rate_date, base_currency, rates, fetched_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (rate_date, base_currency)
		DO UPDATE SET rates = EXCLUDED.rates, fetched_at = NOW()`,
		day, currency, table,
	)
	if err != nil {
		return fmt.Errorf("upsert rate table %s/%s: %w", currency, day, err)
	}
	return nil
}

func (r *RateRepository) Dates(ctx context.Context, currency string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT rate_date::text FROM fx_rates WHERE base_currency = $1 ORDER BY rate_date ASC`,
		currency,
	)
	if err != nil {
		return nil, fmt.Errorf("list rate dates for %s: %w", currency, err)
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("scan rate date: %w", err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}
