package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mouly-K/ffe/internal/model"
)

type RunRepository struct {
	pool *pgxpool.Pool
}

func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

func (r *RunRepository) Insert(ctx context.Context, run *model.Run) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO runs (id, name, created_at, status, converted_currency)
		VALUES ($1, $2, $3, $4, $5)`,
		run.ID, run.Name, run.Timestamp, run.Status, run.ConvertedCurrency,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.Name, err)
	}
	return nil
}

func (r *RunRepository) GetByID(ctx context.Context, id string) (*model.Run, error) {
	var run model.Run
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at, status, converted_currency, concluded_on, ended_on
		FROM runs WHERE id = $1`, id,
	).Scan(&run.ID, &run.Name, &run.Timestamp, &run.Status, &run.ConvertedCurrency,
		&run.ConcludedOn, &run.EndedOn)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *RunRepository) List(ctx context.Context) ([]model.Run, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at, status, converted_currency, concluded_on, ended_on
		FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		if err := rows.Scan(&run.ID, &run.Name, &run.Timestamp, &run.Status,
			&run.ConvertedCurrency, &run.ConcludedOn, &run.EndedOn); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *RunRepository) UpdateStatus(ctx context.Context, id string, status model.RunStatus) error {
	var concluded, ended *time.Time
	now := time.Now()
	switch status {
	case model.RunConcluded:
		concluded = &now
	case model.RunEnded:
		ended = &now
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE runs SET status = $2,
			concluded_on = COALESCE($3, concluded_on),
			ended_on = COALESCE($4, ended_on)
		WHERE id = $1`,
		id, status, concluded, ended,
	)
	if err != nil {
		return fmt.Errorf("update run %s status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
