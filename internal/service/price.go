package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/set-night/oilbot/internal/config"
	"github.com/set-night/oilbot/internal/domain"
	"github.com/set-night/oilbot/internal/valuation"
	"github.com/shopspring/decimal"
)

const userAgent = "Mozilla/5.0 (compatible; oilbot/1.0)"

// PriceFeed returns the most recent closing price for a ticker.
type PriceFeed interface {
	Name() string
	LatestClose(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// ChartFeed reads the Yahoo Finance chart endpoint.
type ChartFeed struct {
	httpClient *http.Client
	baseURL    string
}

func NewChartFeed(httpClient *http.Client, baseURL string) *ChartFeed {
	return &ChartFeed{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

func (f *ChartFeed) Name() string { return config.PriceSourceChart }

func (f *ChartFeed) LatestClose(ctx context.Context, ticker string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/%s?range=1d&interval=1d", f.baseURL, url.PathEscape(ticker))
	body, err := fetch(ctx, f.httpClient, endpoint)
	if err != nil {
		return decimal.Zero, err
	}

	var result struct {
		Chart struct {
			Result []struct {
				Indicators struct {
					Quote []struct {
						Close []*float64 `json:"close"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error *struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		} `json:"chart"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return decimal.Zero, fmt.Errorf("parse chart: %w", err)
	}
	if e := result.Chart.Error; e != nil {
		return decimal.Zero, fmt.Errorf("chart error %s: %s", e.Code, e.Description)
	}

	for _, r := range result.Chart.Result {
		for _, q := range r.Indicators.Quote {
			for i := len(q.Close) - 1; i >= 0; i-- {
				if q.Close[i] != nil && *q.Close[i] > 0 {
					return decimal.NewFromFloat(*q.Close[i]), nil
				}
			}
		}
	}
	return decimal.Zero, domain.ErrPriceUnavailable
}

// QuotePageFeed scrapes the price from the public quote page.
type QuotePageFeed struct {
	httpClient *http.Client
	baseURL    string
}

func NewQuotePageFeed(httpClient *http.Client, baseURL string) *QuotePageFeed {
	return &QuotePageFeed{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

func (f *QuotePageFeed) Name() string { return config.PriceSourceQuotePage }

func (f *QuotePageFeed) LatestClose(ctx context.Context, ticker string) (decimal.Decimal, error) {
	body, err := fetch(ctx, f.httpClient, fmt.Sprintf("%s/%s/", f.baseURL, url.PathEscape(ticker)))
	if err != nil {
		return decimal.Zero, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse quote page: %w", err)
	}

	sel := doc.Find(`fin-streamer[data-field="regularMarketPrice"]`).First()
	if sel.Length() == 0 {
		sel = doc.Find(`[data-testid="qsp-price"]`).First()
	}
	if sel.Length() == 0 {
		return decimal.Zero, domain.ErrPriceUnavailable
	}

	raw, ok := sel.Attr("data-value")
	if !ok || strings.TrimSpace(raw) == "" {
		raw = sel.Text()
	}
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price %q: %w", raw, err)
	}
	if !price.IsPositive() {
		return decimal.Zero, domain.ErrPriceUnavailable
	}
	return price, nil
}

func fetch(ctx context.Context, client *http.Client, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch price: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// PriceService resolves the price per barrel used for valuations. It never
// fails: when no feed answers, the fallback price is returned with Live unset.
type PriceService struct {
	feeds    []PriceFeed
	ticker   string
	fallback decimal.Decimal
	cache    *PriceCache
}

func NewPriceService(feeds []PriceFeed, ticker string, fallback decimal.Decimal, cache *PriceCache) *PriceService {
	return &PriceService{feeds: feeds, ticker: ticker, fallback: fallback, cache: cache}
}

// NewPriceServiceFromConfig builds the feeds listed in PRICE_SOURCES, in order.
func NewPriceServiceFromConfig(cfg *config.Config) *PriceService {
	client := &http.Client{Timeout: cfg.PriceTimeout}

	var feeds []PriceFeed
	for _, src := range cfg.PriceSources {
		switch strings.TrimSpace(src) {
		case config.PriceSourceChart:
			feeds = append(feeds, NewChartFeed(client, cfg.ChartURL))
		case config.PriceSourceQuotePage:
			feeds = append(feeds, NewQuotePageFeed(client, cfg.QuotePageURL))
		}
	}
	return NewPriceService(feeds, cfg.PriceTicker, cfg.FallbackPriceDecimal(), NewPriceCache(cfg.PriceCacheTTL))
}

func (s *PriceService) Ticker() string {
	return s.ticker
}

func (s *PriceService) Fallback() decimal.Decimal {
	return s.fallback
}

// Live queries each feed once, in order, and returns the first price found.
func (s *PriceService) Live(ctx context.Context) (decimal.Decimal, error) {
	if s.cache != nil {
		if price, ok := s.cache.Get(); ok {
			return price, nil
		}
	}

	errs := make([]error, 0, len(s.feeds))
	for _, feed := range s.feeds {
		price, err := feed.LatestClose(ctx, s.ticker)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", feed.Name(), err))
			continue
		}
		if s.cache != nil {
			s.cache.Set(price)
		}
		return price, nil
	}
	if len(errs) == 0 {
		return decimal.Zero, domain.ErrPriceUnavailable
	}
	return decimal.Zero, fmt.Errorf("%w: %w", domain.ErrPriceUnavailable, errors.Join(errs...))
}

// Current returns the live quote or the fallback price.
func (s *PriceService) Current(ctx context.Context) valuation.Quote {
	price, err := s.Live(ctx)
	if err != nil {
		slog.Warn("live price unavailable, using fallback", "ticker", s.ticker, "fallback", s.fallback.String(), "error", err)
		return valuation.Quote{PricePerBarrel: s.fallback}
	}
	return valuation.Quote{PricePerBarrel: price, Live: true}
}
