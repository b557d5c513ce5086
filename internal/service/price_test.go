package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/set-night/oilbot/internal/config"
	"github.com/set-night/oilbot/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{"chart":{"result":[{"meta":{"symbol":"CL=F"},
	"indicators":{"quote":[{"close":[70.11, 71.25, null]}]}}],"error":null}}`

const chartEmptyBody = `{"chart":{"result":[{"indicators":{"quote":[{"close":[]}]}}],"error":null}}`

const quotePage = `<html><body>
<section><fin-streamer data-symbol="CL=F" data-field="regularMarketPrice" data-value="1,072.5">1,072.50</fin-streamer></section>
</body></html>`

func serve(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

type failingFeed struct{ calls int }

func (f *failingFeed) Name() string { return "failing" }

func (f *failingFeed) LatestClose(context.Context, string) (decimal.Decimal, error) {
	f.calls++
	return decimal.Zero, errors.New("connection refused")
}

func TestChartFixturesAreValidJSON(t *testing.T) {
	for _, body := range []string{chartBody, chartEmptyBody} {
		assert.True(t, json.Valid([]byte(body)), body)
	}
}

func TestChartFeedLatestClose(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	feed := NewChartFeed(srv.Client(), srv.URL+"/")
	price, err := feed.LatestClose(context.Background(), "CL=F")

	require.NoError(t, err)
	assert.Equal(t, "71.25", price.String())
	assert.Equal(t, "/CL=F", path)
}

func TestChartFeedEmptyResult(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, chartEmptyBody)

	_, err := NewChartFeed(srv.Client(), srv.URL).LatestClose(context.Background(), "CL=F")
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
}

func TestChartFeedErrors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		srv, _ := serve(t, http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
		_, err := NewChartFeed(srv.Client(), srv.URL).LatestClose(context.Background(), "XX")
		assert.ErrorContains(t, err, "No data found")
	})

	t.Run("bad status", func(t *testing.T) {
		srv, _ := serve(t, http.StatusTooManyRequests, "")
		_, err := NewChartFeed(srv.Client(), srv.URL).LatestClose(context.Background(), "CL=F")
		assert.ErrorContains(t, err, "429")
	})

	t.Run("bad json", func(t *testing.T) {
		srv, _ := serve(t, http.StatusOK, "<html>")
		_, err := NewChartFeed(srv.Client(), srv.URL).LatestClose(context.Background(), "CL=F")
		assert.ErrorContains(t, err, "parse chart")
	})
}

func TestQuotePageFeed(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, quotePage)

	price, err := NewQuotePageFeed(srv.Client(), srv.URL).LatestClose(context.Background(), "CL=F")
	require.NoError(t, err)
	assert.Equal(t, "1072.5", price.String())
}

func TestQuotePageFeedFallsBackToText(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `<span data-testid="qsp-price">68.40</span>`)

	price, err := NewQuotePageFeed(srv.Client(), srv.URL).LatestClose(context.Background(), "CL=F")
	require.NoError(t, err)
	assert.Equal(t, "68.4", price.String())
}

func TestQuotePageFeedMissingPrice(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `<html><body>nothing here</body></html>`)

	_, err := NewQuotePageFeed(srv.Client(), srv.URL).LatestClose(context.Background(), "CL=F")
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
}

func TestPriceServiceCurrentLive(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, chartBody)
	svc := NewPriceService([]PriceFeed{NewChartFeed(srv.Client(), srv.URL)}, "CL=F", decimal.NewFromFloat(75), nil)

	q := svc.Current(context.Background())

	assert.True(t, q.Live)
	assert.Equal(t, "71.25", q.PricePerBarrel.String())
}

func TestPriceServiceFallsBackWithoutError(t *testing.T) {
	feed := &failingFeed{}
	svc := NewPriceService([]PriceFeed{feed}, "CL=F", decimal.NewFromFloat(75), nil)

	q := svc.Current(context.Background())

	assert.False(t, q.Live)
	assert.Equal(t, "75", q.PricePerBarrel.String())
	assert.Equal(t, 1, feed.calls, "no retries")

	_, err := svc.Live(context.Background())
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
}

func TestPriceServiceNoFeeds(t *testing.T) {
	svc := NewPriceService(nil, "CL=F", decimal.NewFromFloat(75), nil)

	q := svc.Current(context.Background())
	assert.False(t, q.Live)
	assert.True(t, q.PricePerBarrel.Equal(svc.Fallback()))
}

func TestPriceServiceTriesNextSource(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, quotePage)
	first := &failingFeed{}
	svc := NewPriceService([]PriceFeed{first, NewQuotePageFeed(srv.Client(), srv.URL)}, "CL=F", decimal.NewFromFloat(75), nil)

	q := svc.Current(context.Background())

	assert.True(t, q.Live)
	assert.Equal(t, "1072.5", q.PricePerBarrel.String())
	assert.Equal(t, 1, first.calls)
}

func TestPriceServiceCache(t *testing.T) {
	srv, hits := serve(t, http.StatusOK, chartBody)
	cache := NewPriceCache(time.Minute)
	svc := NewPriceService([]PriceFeed{NewChartFeed(srv.Client(), srv.URL)}, "CL=F", decimal.NewFromFloat(75), cache)

	svc.Current(context.Background())
	svc.Current(context.Background())
	assert.Equal(t, int32(1), hits.Load())

	now := time.Now()
	cache.now = func() time.Time { return now.Add(2 * time.Minute) }
	svc.Current(context.Background())
	assert.Equal(t, int32(2), hits.Load())
}

func TestPriceCacheDisabled(t *testing.T) {
	cache := NewPriceCache(0)
	cache.Set(decimal.NewFromInt(70))

	_, ok := cache.Get()
	assert.False(t, ok)
}

func TestNewPriceServiceFromConfig(t *testing.T) {
	cfg := &config.Config{
		PriceSources:  []string{"page", " chart"},
		PriceTicker:   "BZ=F",
		FallbackPrice: 75,
		PriceTimeout:  time.Second,
	}

	svc := NewPriceServiceFromConfig(cfg)

	require.Len(t, svc.feeds, 2)
	assert.Equal(t, "page", svc.feeds[0].Name())
	assert.Equal(t, "chart", svc.feeds[1].Name())
	assert.Equal(t, "BZ=F", svc.Ticker())
}
