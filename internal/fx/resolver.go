package fx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DayFormat is the cache key date layout; time-of-day is truncated away.
const DayFormat = "2006-01-02"

// Resolution statuses, reported alongside the rate so callers can tell how
// fresh the number is.
const (
	StatusNoConversion   = "no conversion required"
	StatusCacheDirect    = "cache direct"
	StatusCacheReverse   = "cache reverse"
	StatusFetched        = "fetched from API"
	StatusCacheNextDate  = "cache next available date"
	StatusCacheLastKnown = "cache last known date"
)

// ErrNoData means the cache and every remote source were exhausted without
// finding any rate for the currency pair.
var ErrNoData = errors.New("no exchange rate data available")

const (
	defaultMaxLookbackDays = 30
	defaultFetchTimeout    = 5 * time.Second
)

type Result struct {
	Status string  `json:"status"`
	Rate   float64 `json:"conversion_rate"`
}

// ResolverConfig bounds the resolver's degradation behavior. Zero values pick
// the defaults.
type ResolverConfig struct {
	// MaxLookbackDays bounds the walk to earlier dates when the provider
	// has no release for the requested one.
	MaxLookbackDays int
	// FetchTimeout applies to each individual provider attempt. A timed
	// out attempt degrades to the cache scan instead of failing the
	// resolution.
	FetchTimeout time.Duration
}

// Resolver finds a historical conversion rate with a multi-tier strategy:
// identity, direct cache, reverse cache (reciprocal), primary provider with a
// bounded date walk, fallback provider, then a degraded scan over whatever
// the cache holds for the base currency.
type Resolver struct {
	cache           Cache
	primary         Provider
	fallback        Provider
	maxLookbackDays int
	fetchTimeout    time.Duration
	log             zerolog.Logger
}

func NewResolver(cache Cache, primary, fallback Provider, cfg ResolverConfig, log zerolog.Logger) *Resolver {
	if cfg.MaxLookbackDays <= 0 {
		cfg.MaxLookbackDays = defaultMaxLookbackDays
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	return &Resolver{
		cache:           cache,
		primary:         primary,
		fallback:        fallback,
		maxLookbackDays: cfg.MaxLookbackDays,
		fetchTimeout:    cfg.FetchTimeout,
		log:             log,
	}
}

// Resolve returns the conversion rate from one currency to another on the
// given date. Transient provider failures are degraded internally; the only
// error surfaced is ErrNoData (or an invalid currency pair).
func (r *Resolver) Resolve(ctx context.Context, from, to string, date time.Time) (Result, error) {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	if from == "" || to == "" {
		return Result{}, fmt.Errorf("resolve rate: currency codes must not be empty")
	}

	if from == to {
		return Result{Status: StatusNoConversion, Rate: 1}, nil
	}

	day := date.Format(DayFormat)

	if table := r.cachedTable(ctx, day, from); table != nil {
		if rate, ok := table[to]; ok {
			return Result{Status: StatusCacheDirect, Rate: rate}, nil
		}
	}

	// A table fetched for the target currency already encodes to->from, so
	// its reciprocal saves a fetch.
	if table := r.cachedTable(ctx, day, to); table != nil {
		if rate, ok := table[from]; ok && rate != 0 {
			return Result{Status: StatusCacheReverse, Rate: 1 / rate}, nil
		}
	}

	if rate, ok := r.fetchRemote(ctx, from, to, date); ok {
		return Result{Status: StatusFetched, Rate: rate}, nil
	}

	return r.scanCache(ctx, day, from, to)
}

func (r *Resolver) cachedTable(ctx context.Context, day, currency string) RateTable {
	table, err := r.cache.Get(ctx, day, currency)
	if err != nil {
		r.log.Warn().Err(err).Str("currency", currency).Str("day", day).Msg("rate cache read failed")
		return nil
	}
	return table
}

// fetchRemote tries the primary provider, walking back one day per
// ErrReleaseNotFound up to the lookback bound, and consults the fallback
// provider when the primary fails for any other reason. Every fetched table
// is written through to the cache under the day it was published for.
func (r *Resolver) fetchRemote(ctx context.Context, from, to string, date time.Time) (float64, bool) {
	walk := date
	for i := 0; i <= r.maxLookbackDays; i++ {
		day := walk.Format(DayFormat)

		table, err := r.fetchOnce(ctx, r.primary, from, day)
		if errors.Is(err, ErrReleaseNotFound) {
			walk = walk.AddDate(0, 0, -1)
			continue
		}
		if err != nil {
			r.log.Warn().Err(err).Str("from", from).Str("day", day).Msg("primary rate provider failed, trying fallback")
			table, err = r.fetchOnce(ctx, r.fallback, from, day)
			if err != nil {
				r.log.Warn().Err(err).Str("from", from).Str("day", day).Msg("fallback rate provider failed")
				return 0, false
			}
		}

		r.storeTable(ctx, day, from, table)
		if rate, ok := table[to]; ok {
			return rate, true
		}
		// The published table has no entry for the target; no point
		// walking further back, the cache scan may still help.
		r.log.Warn().Str("from", from).Str("to", to).Str("day", day).Msg("fetched rate table lacks target currency")
		return 0, false
	}

	r.log.Warn().
		Str("from", from).
		Str("day", date.Format(DayFormat)).
		Int("lookback_days", r.maxLookbackDays).
		Msg("no rate release found within lookback window")
	return 0, false
}

func (r *Resolver) fetchOnce(ctx context.Context, p Provider, currency, day string) (RateTable, error) {
	if p == nil {
		return nil, errors.New("no provider configured")
	}
	fctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()
	return p.FetchTable(fctx, currency, day)
}

func (r *Resolver) storeTable(ctx context.Context, day, currency string, table RateTable) {
	if err := r.cache.Set(ctx, day, currency, table); err != nil {
		r.log.Warn().Err(err).Str("currency", currency).Str("day", day).Msg("rate cache write failed")
	}
}

// scanCache is the offline path: prefer the earliest cached day after the
// requested one that knows the target currency, otherwise fall back to the
// most recent earlier day that does.
func (r *Resolver) scanCache(ctx context.Context, day, from, to string) (Result, error) {
	days, err := r.cache.Dates(ctx, from)
	if err != nil {
		return Result{}, fmt.Errorf("scan rate cache: %w", err)
	}

	for _, d := range days {
		if d <= day {
			continue
		}
		if table := r.cachedTable(ctx, d, from); table != nil {
			if rate, ok := table[to]; ok {
				return Result{Status: StatusCacheNextDate, Rate: rate}, nil
			}
		}
	}

	for i := len(days) - 1; i >= 0; i-- {
		if days[i] > day {
			continue
		}
		if table := r.cachedTable(ctx, days[i], from); table != nil {
			if rate, ok := table[to]; ok {
				return Result{Status: StatusCacheLastKnown, Rate: rate}, nil
			}
		}
	}

	return Result{}, fmt.Errorf("%s to %s on %s: %w", from, to, day, ErrNoData)
}
