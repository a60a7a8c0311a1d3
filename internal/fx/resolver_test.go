package fx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider serves canned tables keyed by "currency/day". Unknown keys
// come back as a missing release, or as failure when one is set.
type fakeProvider struct {
	calls   int
	tables  map[string]RateTable
	failure error
}

func (p *fakeProvider) FetchTable(_ context.Context, currency, day string) (RateTable, error) {
	p.calls++
	if table, ok := p.tables[currency+"/"+day]; ok {
		return table, nil
	}
	if p.failure != nil {
		return nil, p.failure
	}
	return nil, ErrReleaseNotFound
}

func day(s string) time.Time {
	d, err := time.Parse(DayFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestResolver(cache Cache, primary, fallback Provider) *Resolver {
	return NewResolver(cache, primary, fallback, ResolverConfig{
		MaxLookbackDays: 5,
		FetchTimeout:    time.Second,
	}, zerolog.Nop())
}

func TestResolve_Identity(t *testing.T) {
	primary := &fakeProvider{}
	r := newTestResolver(NewMemoryCache(), primary, &fakeProvider{})

	res, err := r.Resolve(context.Background(), "usd", "usd", day("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, StatusNoConversion, res.Status)
	assert.InDelta(t, 1, res.Rate, 1e-9)
	assert.Zero(t, primary.calls, "identity must not touch providers")
}

func TestResolve_IdentityNormalizesCase(t *testing.T) {
	r := newTestResolver(NewMemoryCache(), &fakeProvider{}, &fakeProvider{})

	res, err := r.Resolve(context.Background(), " USD", "usd ", day("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, StatusNoConversion, res.Status)
}

func TestResolve_EmptyCurrency(t *testing.T) {
	r := newTestResolver(NewMemoryCache(), &fakeProvider{}, &fakeProvider{})
	_, err := r.Resolve(context.Background(), "", "inr", day("2024-03-01"))
	require.Error(t, err)
}

func TestResolve_DirectCacheHit(t *testing.T) {
	cache := NewMemoryCache()
	require.NoError(t, cache.Set(context.Background(), "2024-03-01", "usd", RateTable{"inr": 83.5}))
	primary := &fakeProvider{}
	r := newTestResolver(cache, primary, &fakeProvider{})

	res, err := r.Resolve(context.Background(), "USD", "INR", day("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, StatusCacheDirect, res.Status)
	assert.InDelta(t, 83.5, res.Rate, 1e-9)
	assert.Zero(t, primary.calls)
}

func TestResolve_ReverseCacheHit(t *testing.T) {
	cache := NewMemoryCache()
	// Only the target currency's table is cached; the reciprocal serves.
	require.NoError(t, cache.Set(context.Background(), "2024-03-01", "inr", RateTable{"usd": 0.012}))
	primary := &fakeProvider{}
	r := newTestResolver(cache, primary, &fakeProvider{})

	res, err := r.Resolve(context.Background(), "usd", "inr", day("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, StatusCacheReverse, res.Status)
	assert.InDelta(t, 1/0.012, res.Rate, 1e-9)
	assert.Zero(t, primary.calls)
}

func TestResolve_FetchWritesThrough(t *testing.T) {
	cache := NewMemoryCache()
	primary := &fakeProvider{tables: map[string]RateTable{
		"usd/2024-03-01": {"inr": 83.5, "cny": 7.24},
	}}
	r := newTestResolver(cache, primary, &fakeProvider{})

	res, err := r.Resolve(context.Background(), "usd", "inr", day("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, StatusFetched, res.Status)
	assert.InDelta(t, 83.5, res.Rate, 1e-9)
	assert.Equal(t, 1, primary.calls)

	// Whole-day table was stored, so another pair from the same table is a
	// cache hit without a second fetch.
	res, err = r.Resolve(context.Background(), "usd", "cny", day("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, StatusCacheDirect, res.Status)
	assert.InDelta(t, 7.24, res.Rate, 1e-9)
	assert.Equal(t, 1, primary.calls)
}

func TestResolve_DateWalk(t *testing.T) {
	primary := &fakeProvider{tables: map[string]RateTable{
		// Weekend gap: release published three days before the request.
		"usd/2024-02-27": {"inr": 83.1},
	}}
	fallback := &fakeProvider{}
	r := newTestResolver(NewMemoryCache(), primary, fallback)

	res, err := r.Resolve(context.Background(), "usd", "inr", day("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, StatusFetched, res.Status)
	assert.InDelta(t, 83.1, res.Rate, 1e-9)
	assert.Equal(t, 4, primary.calls, "one attempt per walked day")
	assert.Zero(t, fallback.calls, "missing releases must not hit the fallback")
}

func TestResolve_DateWalkBounded(t *testing.T) {
	primary := &fakeProvider{tables: map[string]RateTable{
		// Published beyond the 5-day lookback window.
		"usd/2024-02-20": {"inr": 82.9},
	}}
	r := newTestResolver(NewMemoryCache(), primary, &fakeProvider{})

	_, err := r.Resolve(context.Background(), "usd", "inr", day("2024-03-01"))
	require.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, 6, primary.calls, "requested day plus five lookback days")
}

func TestResolve_FallbackOnPrimaryFailure(t *testing.T) {
	primary := &fakeProvider{failure: errors.New("rate limited")}
	fallback := &fakeProvider{tables: map[string]RateTable{
		"usd/2024-03-01": {"inr": 83.4},
	}}
	r := newTestResolver(NewMemoryCache(), primary, fallback)

	res, err := r.Resolve(context.Background(), "usd", "inr", day("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, StatusFetched, res.Status)
	assert.InDelta(t, 83.4, res.Rate, 1e-9)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestResolve_FetchedTableMissingTarget(t *testing.T) {
	cache := NewMemoryCache()
	// An older cached day knows the target; the fresh fetch does not.
	require.NoError(t, cache.Set(context.Background(), "2024-02-20", "usd", RateTable{"xcd": 2.7}))
	primary := &fakeProvider{tables: map[string]RateTable{
		"usd/2024-03-01": {"inr": 83.5},
	}}
	r := newTestResolver(cache, primary, &fakeProvider{})

	res, err := r.Resolve(context.Background(), "usd", "xcd", day("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, StatusCacheLastKnown, res.Status)
	assert.InDelta(t, 2.7, res.Rate, 1e-9)
	assert.Equal(t, 1, primary.calls, "a published table without the target stops the walk")
}

func TestResolve_DegradedNextAvailableDate(t *testing.T) {
	cache := NewMemoryCache()
	require.NoError(t, cache.Set(context.Background(), "2024-02-25", "usd", RateTable{"inr": 82.8}))
	require.NoError(t, cache.Set(context.Background(), "2024-03-04", "usd", RateTable{"inr": 83.9}))
	primary := &fakeProvider{failure: errors.New("down")}
	fallback := &fakeProvider{failure: errors.New("down")}
	r := newTestResolver(cache, primary, fallback)

	res, err := r.Resolve(context.Background(), "usd", "inr", day("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, StatusCacheNextDate, res.Status)
	assert.InDelta(t, 83.9, res.Rate, 1e-9, "the day after the request wins over the day before")
}

func TestResolve_DegradedLastKnownDate(t *testing.T) {
	cache := NewMemoryCache()
	require.NoError(t, cache.Set(context.Background(), "2024-02-20", "usd", RateTable{"inr": 82.5}))
	require.NoError(t, cache.Set(context.Background(), "2024-02-25", "usd", RateTable{"inr": 82.8}))
	primary := &fakeProvider{failure: errors.New("down")}
	fallback := &fakeProvider{failure: errors.New("down")}
	r := newTestResolver(cache, primary, fallback)

	res, err := r.Resolve(context.Background(), "usd", "inr", day("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, StatusCacheLastKnown, res.Status)
	assert.InDelta(t, 82.8, res.Rate, 1e-9, "most recent earlier day wins")
}

func TestResolve_NoData(t *testing.T) {
	primary := &fakeProvider{failure: errors.New("down")}
	fallback := &fakeProvider{failure: errors.New("down")}
	r := newTestResolver(NewMemoryCache(), primary, fallback)

	_, err := r.Resolve(context.Background(), "usd", "inr", day("2024-03-01"))
	require.ErrorIs(t, err, ErrNoData)
}
