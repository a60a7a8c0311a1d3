package database

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/Mouly-K/ffe/internal/fx"
)

var warehouses = []struct {
	ID      string
	Name    string
	Country string
}{
	{"whse-guangzhou", "Guangzhou Hub", "China"},
	{"whse-hongkong", "Kwai Chung Depot", "Hong Kong"},
	{"whse-mumbai", "Bhiwandi Facility", "Mumbai"},
	{"whse-chennai", "Sriperumbudur Facility", "Chennai"},
}

type shipperProfile struct {
	ID       string
	Name     string
	Currency string
	BasedIn  string
	Routes   []routeProfile
}

type routeProfile struct {
	ID          string
	Name        string
	Origin      string
	Destination string
	Evaluation  string  // Actual or Volumetric
	Divisor     float64 // integer multiple of 100 for Volumetric routes
	Override    bool
	FlatAmount  float64
}

var shippers = []shipperProfile{
	{
		ID: "ship-dragonex", Name: "DragonEx Freight", Currency: "cny", BasedIn: "whse-guangzhou",
		Routes: []routeProfile{
			{ID: "route-gz-hk-air", Name: "GZ to HK Air", Origin: "whse-guangzhou", Destination: "whse-hongkong", Evaluation: "Volumetric", Divisor: 8000},
			{ID: "route-gz-hk-truck", Name: "GZ to HK Truck", Origin: "whse-guangzhou", Destination: "whse-hongkong", Evaluation: "Actual"},
		},
	},
	{
		ID: "ship-pearl", Name: "Pearl Delta Logistics", Currency: "hkd", BasedIn: "whse-hongkong",
		Routes: []routeProfile{
			{ID: "route-hk-mum-air", Name: "HK to Mumbai Air", Origin: "whse-hongkong", Destination: "whse-mumbai", Evaluation: "Volumetric", Divisor: 6000},
			{ID: "route-hk-chn-sea", Name: "HK to Chennai Sea", Origin: "whse-hongkong", Destination: "whse-chennai", Evaluation: "Actual"},
			{ID: "route-hk-chn-flat", Name: "HK to Chennai Flat", Origin: "whse-hongkong", Destination: "whse-chennai", Evaluation: "Actual", Override: true, FlatAmount: 180},
		},
	},
	{
		ID: "ship-deccan", Name: "Deccan Express", Currency: "inr", BasedIn: "whse-mumbai",
		Routes: []routeProfile{
			{ID: "route-mum-chn-road", Name: "Mumbai to Chennai Road", Origin: "whse-mumbai", Destination: "whse-chennai", Evaluation: "Actual"},
			{ID: "route-chn-mum-road", Name: "Chennai to Mumbai Road", Origin: "whse-chennai", Destination: "whse-mumbai", Evaluation: "Actual"},
		},
	},
}

// Reference tables for the seeded day, quoted as 1 unit of the base in the
// target currency. Enough for the demo currencies to convert between each
// other without a remote fetch.
var seedRates = map[string]fx.RateTable{
	"usd": {"usd": 1, "cny": 7.24, "hkd": 7.81, "inr": 83.5},
	"cny": {"usd": 0.1381, "cny": 1, "hkd": 1.0787, "inr": 11.53},
	"hkd": {"usd": 0.128, "cny": 0.927, "hkd": 1, "inr": 10.69},
	"inr": {"usd": 0.01198, "cny": 0.0867, "hkd": 0.0935, "inr": 1},
}

// SeedData loads a small demo network: four warehouses, three shippers with
// rate cards, and one day of conversion tables. Skips when data exists.
func SeedData(ctx context.Context, pool *pgxpool.Pool) error {
	rng := rand.New(rand.NewSource(42))

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM warehouses").Scan(&count); err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if count > 0 {
		log.Info().Msg("seed data already exists, skipping")
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, w := range warehouses {
		_, err := tx.Exec(ctx,
			"INSERT INTO warehouses (id, name, country_name) VALUES ($1, $2, $3)",
			w.ID, w.Name, w.Country)
		if err != nil {
			return fmt.Errorf("insert warehouse %s: %w", w.ID, err)
		}
	}
	log.Info().Int("count", len(warehouses)).Msg("inserted warehouses")

	now := time.Now()
	routeCount := 0
	for _, s := range shippers {
		_, err := tx.Exec(ctx,
			"INSERT INTO shippers (id, name, default_currency, based_in_warehouse_id) VALUES ($1, $2, $3, $4)",
			s.ID, s.Name, s.Currency, s.BasedIn)
		if err != nil {
			return fmt.Errorf("insert shipper %s: %w", s.ID, err)
		}

		for _, rp := range s.Routes {
			// First-tier price between 1 and 10 units, continued tier at a
			// quarter of it, misc fee up to 5.
			firstWeightAmount := math.Round((1+rng.Float64()*9)*100) / 100
			continuedAmount := math.Round(firstWeightAmount/4*100) / 100
			miscAmount := math.Round(rng.Float64()*5*100) / 100

			var divisor *float64
			if rp.Evaluation == "Volumetric" {
				d := rp.Divisor
				divisor = &d
			}
			var priceCurrency *string
			var priceAmount *float64
			var priceTime *time.Time
			if rp.Override {
				priceCurrency = &s.Currency
				priceAmount = &rp.FlatAmount
				priceTime = &now
			}

			_, err := tx.Exec(ctx,
				`INSERT INTO shipping_routes (id, shipper_id, name,
					origin_warehouse_id, destination_warehouse_id,
					evaluation_type, volumetric_divisor, fee_override,
					fee_paid_currency, fee_first_weight_kg, fee_first_weight_amount,
					fee_continued_weight_amount, fee_misc_amount, fee_timestamp,
					price_paid_currency, price_paid_amount, price_timestamp)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
				rp.ID, s.ID, rp.Name, rp.Origin, rp.Destination,
				rp.Evaluation, divisor, rp.Override,
				s.Currency, 1.0, firstWeightAmount, continuedAmount, miscAmount, now,
				priceCurrency, priceAmount, priceTime)
			if err != nil {
				return fmt.Errorf("insert route %s: %w", rp.ID, err)
			}
			routeCount++
		}
	}
	log.Info().Int("shippers", len(shippers)).Int("routes", routeCount).Msg("inserted shippers")

	day := now.Format(fx.DayFormat)
	for base, table := range seedRates {
		_, err := tx.Exec(ctx,
			`INSERT INTO fx_rates (rate_date, base_currency, rates, fetched_at)
			VALUES ($1, $2, $3, NOW())`,
			day, base, table)
		if err != nil {
			return fmt.Errorf("insert rate table %s: %w", base, err)
		}
	}
	log.Info().Int("count", len(seedRates)).Str("date", day).Msg("inserted conversion tables")

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed data: %w", err)
	}

	log.Info().Msg("seed data generation complete")
	return nil
}
