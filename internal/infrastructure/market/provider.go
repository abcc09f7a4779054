// Package market fetches benchmark and sector price history from a public
// quote endpoint and derives the qualitative context snapshot attached to
// events. Every failure here is recoverable: callers substitute nil fields
// and move on.
package market

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
)

// Provider is the market-data contract the tracker consumes. Implementations
// return an error for "no data"; callers treat that as absent context, never
// as a failure of the enclosing operation.
type Provider interface {
	FetchContext(ctx context.Context, eventDate catalyst.Date) (*catalyst.MarketContext, error)
	FetchPostEventMoves(ctx context.Context, ticker string, eventDate catalyst.Date) (actual, benchmark, sector *float64, err error)
}

// Config tunes the HTTP client. Zero values fall back to defaults.
type Config struct {
	BaseURL         string  `yaml:"base_url"`
	BenchmarkSymbol string  `yaml:"benchmark_symbol"` // broad market ETF
	SectorSymbol    string  `yaml:"sector_symbol"`    // sector ETF
	VolIndexSymbol  string  `yaml:"vol_index_symbol"` // volatility index
	LookbackDays    int     `yaml:"lookback_days"`
	TimeoutSec      int     `yaml:"timeout_sec"`
	CacheTTLMin     int     `yaml:"cache_ttl_min"`
	RateLimitRPS    float64 `yaml:"rate_limit_rps"`
}

// DefaultConfig returns the stooq-backed defaults: SPY as benchmark, XBI as
// sector ETF, 5-day lookback.
func DefaultConfig() Config {
	return Config{
		BaseURL:         "https://stooq.com",
		BenchmarkSymbol: "spy.us",
		SectorSymbol:    "xbi.us",
		VolIndexSymbol:  "vix",
		LookbackDays:    5,
		TimeoutSec:      10,
		CacheTTLMin:     15,
		RateLimitRPS:    2,
	}
}

// Client fetches daily price history over HTTP with caching, rate limiting
// and a circuit breaker in front of the upstream.
type Client struct {
	cfg      Config
	http     *http.Client
	cache    Cache
	cacheTTL time.Duration
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
}

// NewClient builds a provider client. A nil cache gets the auto cache
// (Redis when REDIS_ADDR is set, in-process otherwise).
func NewClient(cfg Config, cache Cache) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.BenchmarkSymbol == "" {
		cfg.BenchmarkSymbol = def.BenchmarkSymbol
	}
	if cfg.SectorSymbol == "" {
		cfg.SectorSymbol = def.SectorSymbol
	}
	if cfg.VolIndexSymbol == "" {
		cfg.VolIndexSymbol = def.VolIndexSymbol
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = def.LookbackDays
	}
	if cfg.TimeoutSec <= 0 {
		cfg.TimeoutSec = def.TimeoutSec
	}
	if cfg.CacheTTLMin <= 0 {
		cfg.CacheTTLMin = def.CacheTTLMin
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = def.RateLimitRPS
	}
	if cache == nil {
		cache = NewAutoCache()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "market-data",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
		cache:    cache,
		cacheTTL: time.Duration(cfg.CacheTTLMin) * time.Minute,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1),
		breaker:  breaker,
	}
}

// FetchContext builds the context snapshot for an event date: 5-day
// benchmark and sector returns, volatility-index level, and the derived
// trend label. Individual series failures degrade to nil fields; the method
// itself only errors when nothing at all could be fetched.
func (c *Client) FetchContext(ctx context.Context, eventDate catalyst.Date) (*catalyst.MarketContext, error) {
	benchRet := c.priceReturn(ctx, c.cfg.BenchmarkSymbol, eventDate, c.cfg.LookbackDays)
	sectorRet := c.priceReturn(ctx, c.cfg.SectorSymbol, eventDate, c.cfg.LookbackDays)
	volLevel := c.closingLevel(ctx, c.cfg.VolIndexSymbol, eventDate)

	if benchRet == nil && sectorRet == nil && volLevel == nil {
		return nil, fmt.Errorf("no market data available for %s", eventDate)
	}

	mc := &catalyst.MarketContext{
		Benchmark5dReturn: benchRet,
		Sector5dReturn:    sectorRet,
		VolIndex:          volLevel,
		SectorTrend:       ClassifySectorTrend(benchRet, sectorRet, volLevel),
	}
	mc.Notes = fmt.Sprintf("Auto-generated context for %s: %s %s%%, %s %s%%, %s %s",
		eventDate,
		c.cfg.BenchmarkSymbol, fmtOpt(benchRet),
		c.cfg.SectorSymbol, fmtOpt(sectorRet),
		c.cfg.VolIndexSymbol, fmtOpt(volLevel))
	return mc, nil
}

// FetchPostEventMoves fetches single-day percentage moves for the ticker,
// the benchmark and the sector ETF on the event date. Any of the three may
// come back nil.
func (c *Client) FetchPostEventMoves(ctx context.Context, ticker string, eventDate catalyst.Date) (actual, benchmark, sector *float64, err error) {
	actual = c.priceReturn(ctx, tickerSymbol(ticker), eventDate, 1)
	benchmark = c.priceReturn(ctx, c.cfg.BenchmarkSymbol, eventDate, 1)
	sector = c.priceReturn(ctx, c.cfg.SectorSymbol, eventDate, 1)
	if actual == nil && benchmark == nil && sector == nil {
		return nil, nil, nil, fmt.Errorf("no post-event data for %s on %s", ticker, eventDate)
	}
	return actual, benchmark, sector, nil
}

// tickerSymbol maps a plain US ticker onto the quote endpoint's symbol form.
func tickerSymbol(ticker string) string {
	return strings.ToLower(ticker) + ".us"
}

// priceReturn computes the cumulative % return over the lookbackDays closes
// ending at endDate. Nil when the series is unavailable or too short.
func (c *Client) priceReturn(ctx context.Context, symbol string, endDate catalyst.Date, lookbackDays int) *float64 {
	closes, err := c.dailyCloses(ctx, symbol, endDate, lookbackDays)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("Price history unavailable")
		return nil
	}
	if len(closes) < 2 {
		return nil
	}
	window := closes
	if len(window) > lookbackDays+1 {
		window = window[len(window)-lookbackDays-1:]
	}
	first, last := window[0], window[len(window)-1]
	if first == 0 {
		return nil
	}
	ret := math.Round((last/first-1)*100*1e4) / 1e4
	return &ret
}

// closingLevel returns the last close on or before endDate.
func (c *Client) closingLevel(ctx context.Context, symbol string, endDate catalyst.Date) *float64 {
	closes, err := c.dailyCloses(ctx, symbol, endDate, 5)
	if err != nil || len(closes) == 0 {
		if err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("Level unavailable")
		}
		return nil
	}
	v := closes[len(closes)-1]
	return &v
}

// dailyCloses fetches the close series for symbol over a buffered window
// ending at endDate, oldest first.
func (c *Client) dailyCloses(ctx context.Context, symbol string, endDate catalyst.Date, lookbackDays int) ([]float64, error) {
	// Double the window to buffer weekends and holidays.
	start := catalyst.Date{Time: endDate.AddDate(0, 0, -lookbackDays*2-3)}
	url := fmt.Sprintf("%s/q/d/l/?s=%s&d1=%s&d2=%s&i=d",
		c.cfg.BaseURL, symbol,
		start.Format("20060102"), endDate.Format("20060102"))

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	return parseCloses(body)
}

// get performs a cached, rate-limited, breaker-guarded GET.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if body, ok := c.cache.Get(url); ok {
		return body, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	body := result.([]byte)
	c.cache.Set(url, body, c.cacheTTL)
	return body, nil
}

// parseCloses extracts the Close column from a Date,Open,High,Low,Close[,..]
// CSV body, oldest first.
func parseCloses(body []byte) ([]float64, error) {
	r := csv.NewReader(strings.NewReader(string(body)))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("empty price series")
	}

	closeIdx := -1
	for i, col := range records[0] {
		if strings.EqualFold(col, "Close") {
			closeIdx = i
			break
		}
	}
	if closeIdx < 0 {
		return nil, fmt.Errorf("no Close column in response")
	}

	closes := make([]float64, 0, len(records)-1)
	for _, row := range records[1:] {
		if closeIdx >= len(row) {
			continue
		}
		v, err := strconv.ParseFloat(row[closeIdx], 64)
		if err != nil {
			continue
		}
		closes = append(closes, v)
	}
	if len(closes) == 0 {
		return nil, fmt.Errorf("no parseable closes")
	}
	return closes, nil
}

func fmtOpt(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
