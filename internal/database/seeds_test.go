package database

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedData(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	// Tests run from package dir; point to project-root migrations
	MigrationsDir = "file://../../migrations"
	t.Cleanup(func() { MigrationsDir = "file://migrations" })

	dbURL := getTestDBURL()
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Skip("no database available")
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		t.Skip("no database available")
	}

	// Clean and migrate
	_ = RollbackMigrations(dbURL)
	require.NoError(t, RunMigrations(dbURL))

	ctx := context.Background()

	t.Run("seed produces correct counts", func(t *testing.T) {
		err := SeedData(ctx, pool)
		require.NoError(t, err)

		var warehouseCount int
		err = pool.QueryRow(ctx, "SELECT COUNT(*) FROM warehouses").Scan(&warehouseCount)
		require.NoError(t, err)
		assert.Equal(t, 4, warehouseCount, "should have 4 warehouses")

		var shipperCount int
		err = pool.QueryRow(ctx, "SELECT COUNT(*) FROM shippers").Scan(&shipperCount)
		require.NoError(t, err)
		assert.Equal(t, 3, shipperCount, "should have 3 shippers")

		var routeCount int
		err = pool.QueryRow(ctx, "SELECT COUNT(*) FROM shipping_routes").Scan(&routeCount)
		require.NoError(t, err)
		assert.Equal(t, 7, routeCount, "should have 7 routes")

		// Every derived-price route carries a usable fee split
		var badSplits int
		err = pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM shipping_routes
			WHERE NOT fee_override AND (fee_first_weight_amount <= 0 OR fee_continued_weight_amount <= 0)`).Scan(&badSplits)
		require.NoError(t, err)
		assert.Zero(t, badSplits)

		// The flat-price route carries its price
		var overrideCount int
		err = pool.QueryRow(ctx,
			"SELECT COUNT(*) FROM shipping_routes WHERE fee_override AND price_paid_amount IS NOT NULL").Scan(&overrideCount)
		require.NoError(t, err)
		assert.Equal(t, 1, overrideCount)

		// One rate table per demo currency
		var rateCount int
		err = pool.QueryRow(ctx, "SELECT COUNT(*) FROM fx_rates").Scan(&rateCount)
		require.NoError(t, err)
		assert.Equal(t, 4, rateCount, "should have 4 rate tables")
	})

	t.Run("idempotency - running twice does not duplicate", func(t *testing.T) {
		var routesBefore int
		pool.QueryRow(ctx, "SELECT COUNT(*) FROM shipping_routes").Scan(&routesBefore)

		err := SeedData(ctx, pool)
		require.NoError(t, err)

		var routesAfter int
		pool.QueryRow(ctx, "SELECT COUNT(*) FROM shipping_routes").Scan(&routesAfter)
		assert.Equal(t, routesBefore, routesAfter, "second seed should not add data")
	})

	t.Run("seeded rates convert between demo currencies", func(t *testing.T) {
		var rate float64
		err := pool.QueryRow(ctx,
			"SELECT (rates->>'inr')::float8 FROM fx_rates WHERE base_currency = 'cny'").Scan(&rate)
		require.NoError(t, err)
		assert.Greater(t, rate, 0.0)
	})

	// Clean up
	_ = RollbackMigrations(dbURL)
}
