package fx

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProvider_FetchTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/2024-03-01/v1/currencies/usd.json":
			fmt.Fprint(w, `{"date": "2024-03-01", "usd": {"inr": 83.5, "cny": 7.24}}`)
		case "/2024-03-01/v1/currencies/xyz.json":
			fmt.Fprint(w, `{"date": "2024-03-01", "xyz": {}}`)
		case "/2024-03-01/v1/currencies/bad.json":
			fmt.Fprint(w, `{"date": "2024-03-01"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, 2*time.Second)
	ctx := context.Background()

	t.Run("published release", func(t *testing.T) {
		table, err := p.FetchTable(ctx, "usd", "2024-03-01")
		require.NoError(t, err)
		assert.InDelta(t, 83.5, table["inr"], 1e-9)
		assert.InDelta(t, 7.24, table["cny"], 1e-9)
	})

	t.Run("missing release is ErrReleaseNotFound", func(t *testing.T) {
		_, err := p.FetchTable(ctx, "usd", "2024-02-30")
		require.ErrorIs(t, err, ErrReleaseNotFound)
	})

	t.Run("empty table is an error", func(t *testing.T) {
		_, err := p.FetchTable(ctx, "xyz", "2024-03-01")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrReleaseNotFound)
	})

	t.Run("response without the base table is an error", func(t *testing.T) {
		_, err := p.FetchTable(ctx, "bad", "2024-03-01")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrReleaseNotFound)
	})
}

func TestHTTPProvider_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, 2*time.Second)
	_, err := p.FetchTable(context.Background(), "usd", "2024-03-01")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrReleaseNotFound)
}
