package client

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/port"
)

// Mock providers generate plausible market data locally. They back every
// external-data port so that services can fall back to them when a live
// client errors out, and stand in entirely when no API key is configured.
// A fixed seed makes a provider deterministic; seed 0 uses the wall clock.

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// ------------------------------------------------------------
// Currency
// ------------------------------------------------------------

// baseRates are the reference exchange rates relative to USD.
var baseRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.85,
	"GBP": 0.73,
	"JPY": 110.0,
	"INR": 83.0,
	"CAD": 1.25,
	"AUD": 1.35,
	"CHF": 0.92,
	"CNY": 6.45,
	"SEK": 8.85,
}

var _ port.RatesFetcher = (*MockRates)(nil)

// MockRates serves exchange rates jittered around fixed reference values.
type MockRates struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewMockRates(seed int64) *MockRates {
	return &MockRates{rng: newRand(seed)}
}

func (m *MockRates) GetRates(_ context.Context, base string) (map[string]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	baseRate, ok := baseRates[base]
	if !ok {
		baseRate = 1.0
	}

	rates := make(map[string]float64, len(baseRates))
	for code, usdRate := range baseRates {
		jitter := 1 + (m.rng.Float64()-0.5)*0.02
		rates[code] = usdRate / baseRate * jitter
	}
	rates[base] = 1.0
	return rates, nil
}

// HistoricalRates generates a daily series for one currency pair, oldest
// first, following a slow sine drift around the reference cross rate.
func (m *MockRates) HistoricalRates(from, to string, days int) []domain.RatePoint {
	m.mu.Lock()
	defer m.mu.Unlock()

	fromRate, ok := baseRates[from]
	if !ok {
		fromRate = 1.0
	}
	toRate, ok := baseRates[to]
	if !ok {
		toRate = 1.0
	}
	cross := toRate / fromRate

	points := make([]domain.RatePoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i).Format("2006-01-02")
		drift := math.Sin(float64(i)*0.1) * 0.05
		jitter := (m.rng.Float64() - 0.5) * 0.02
		points = append(points, domain.RatePoint{
			Date: date,
			Rate: cross * (1 + drift + jitter),
		})
	}
	return points
}

// ------------------------------------------------------------
// Stocks
// ------------------------------------------------------------

// stockBasePrices anchor mock quotes per symbol.
var stockBasePrices = map[string]float64{
	"AAPL":  175,
	"GOOGL": 140,
	"MSFT":  380,
	"TSLA":  250,
	"AMZN":  145,
	"META":  320,
	"NVDA":  480,
	"AMD":   110,
	"INTC":  45,
	"SPY":   450,
	"QQQ":   380,
	"VTI":   220,
}

var companyNames = map[string]string{
	"AAPL":  "Apple Inc.",
	"GOOGL": "Alphabet Inc.",
	"MSFT":  "Microsoft Corporation",
	"TSLA":  "Tesla, Inc.",
	"AMZN":  "Amazon.com, Inc.",
	"META":  "Meta Platforms, Inc.",
	"NVDA":  "NVIDIA Corporation",
	"AMD":   "Advanced Micro Devices, Inc.",
	"INTC":  "Intel Corporation",
	"SPY":   "SPDR S&P 500 ETF Trust",
	"QQQ":   "Invesco QQQ Trust",
	"VTI":   "Vanguard Total Stock Market ETF",
}

var _ port.QuoteFetcher = (*MockStocks)(nil)

// MockStocks serves quotes and daily series anchored on fixed base prices.
type MockStocks struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewMockStocks(seed int64) *MockStocks {
	return &MockStocks{rng: newRand(seed)}
}

func (m *MockStocks) GetQuote(_ context.Context, symbol string) (*domain.StockQuote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.quote(symbol, 0), nil
}

// quote builds one mock quote. bias forces the sign of the daily change:
// positive for gainers, negative for losers, zero for unconstrained.
func (m *MockStocks) quote(symbol string, bias int) *domain.StockQuote {
	base, ok := stockBasePrices[symbol]
	if !ok {
		base = 100
	}
	name, ok := companyNames[symbol]
	if !ok {
		name = symbol
	}

	changePercent := (m.rng.Float64() - 0.5) * 6
	switch {
	case bias > 0:
		changePercent = math.Abs(changePercent)
	case bias < 0:
		changePercent = -math.Abs(changePercent)
	}

	price := base * (1 + changePercent/100)
	change := price - base

	return &domain.StockQuote{
		Symbol:        symbol,
		Name:          name,
		Price:         round2(price),
		Change:        round2(change),
		ChangePercent: round2(changePercent),
		Volume:        1_000_000 + m.rng.Int63n(50_000_000),
		MarketCap:     int64(price * float64(1_000_000_000+m.rng.Int63n(2_000_000_000))),
		PERatio:       round2(15 + m.rng.Float64()*25),
		Dividend:      round2(m.rng.Float64() * 3),
	}
}

func (m *MockStocks) GetDailySeries(_ context.Context, symbol string) ([]domain.ChartPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	base, ok := stockBasePrices[symbol]
	if !ok {
		base = 100
	}

	const days = 30
	points := make([]domain.ChartPoint, 0, days)
	price := base * 0.95
	for i := days - 1; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i).Format("2006-01-02")
		open := price
		drift := (m.rng.Float64() - 0.48) * base * 0.02
		closePrice := open + drift
		high := math.Max(open, closePrice) * (1 + m.rng.Float64()*0.01)
		low := math.Min(open, closePrice) * (1 - m.rng.Float64()*0.01)
		points = append(points, domain.ChartPoint{
			Date:   date,
			Open:   round2(open),
			High:   round2(high),
			Low:    round2(low),
			Close:  round2(closePrice),
			Volume: 1_000_000 + m.rng.Int63n(50_000_000),
		})
		price = closePrice
	}
	return points, nil
}

// Overview builds the dashboard market widget: three index snapshots and
// gainer/loser/most-active groups with forced change signs.
func (m *MockStocks) Overview() *domain.MarketOverview {
	m.mu.Lock()
	indices := []domain.MarketIndex{
		m.index("S&P 500", "SPX", 4500),
		m.index("Dow Jones", "DJI", 35000),
		m.index("NASDAQ", "IXIC", 14000),
	}
	gainers := []*domain.StockQuote{m.quote("AAPL", 1), m.quote("GOOGL", 1), m.quote("MSFT", 1)}
	losers := []*domain.StockQuote{m.quote("TSLA", -1), m.quote("AMZN", -1), m.quote("META", -1)}
	active := []*domain.StockQuote{m.quote("NVDA", 0), m.quote("AMD", 0), m.quote("INTC", 0)}
	m.mu.Unlock()

	deref := func(in []*domain.StockQuote) []domain.StockQuote {
		out := make([]domain.StockQuote, len(in))
		for i, q := range in {
			out[i] = *q
		}
		return out
	}

	return &domain.MarketOverview{
		Indices:    indices,
		TopGainers: deref(gainers),
		TopLosers:  deref(losers),
		MostActive: deref(active),
	}
}

func (m *MockStocks) index(name, symbol string, base float64) domain.MarketIndex {
	changePercent := (m.rng.Float64() - 0.5) * 2
	value := base * (1 + changePercent/100)
	return domain.MarketIndex{
		Name:          name,
		Symbol:        symbol,
		Value:         round2(value),
		Change:        round2(value - base),
		ChangePercent: round2(changePercent),
	}
}

// KnownSymbols lists every symbol with a fixed base price, for search.
func (m *MockStocks) KnownSymbols() []string {
	symbols := make([]string, 0, len(stockBasePrices))
	for s := range stockBasePrices {
		symbols = append(symbols, s)
	}
	return symbols
}

// CompanyName resolves a display name for symbol, falling back to the
// symbol itself.
func CompanyName(symbol string) string {
	if name, ok := companyNames[symbol]; ok {
		return name
	}
	return symbol
}

// ------------------------------------------------------------
// Weather
// ------------------------------------------------------------

var mockConditions = []string{"Clear", "Cloudy", "Rain", "Snow", "Thunderstorm"}
var mockIcons = []string{"01d", "02d", "10d", "13d", "11d"}

var _ port.WeatherFetcher = (*MockWeather)(nil)

// MockWeather serves random but internally consistent conditions.
type MockWeather struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewMockWeather(seed int64) *MockWeather {
	return &MockWeather{rng: newRand(seed)}
}

func (m *MockWeather) Current(_ context.Context, city string) (*domain.WeatherData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.rng.Intn(len(mockConditions))
	temp := 5 + m.rng.Intn(31)

	forecast := make([]domain.WeatherForecast, 0, 5)
	for i := 1; i <= 5; i++ {
		fIdx := m.rng.Intn(len(mockConditions))
		high := 5 + m.rng.Intn(31)
		low := high - 3 - m.rng.Intn(8)
		forecast = append(forecast, domain.WeatherForecast{
			Date:                time.Now().AddDate(0, 0, i).Format("2006-01-02"),
			High:                high,
			Low:                 low,
			Condition:           mockConditions[fIdx],
			Icon:                mockIcons[fIdx],
			PrecipitationChance: float64(m.rng.Intn(101)),
		})
	}

	return &domain.WeatherData{
		Location:    city,
		Temperature: temp,
		Condition:   mockConditions[idx],
		Humidity:    40 + m.rng.Intn(41),
		WindSpeed:   round2(5 + m.rng.Float64()*20),
		Icon:        mockIcons[idx],
		Forecast:    forecast,
	}, nil
}

// ------------------------------------------------------------
// News
// ------------------------------------------------------------

var mockHeadlines = []domain.NewsArticle{
	{
		Title:       "Markets rally as tech stocks surge on strong earnings",
		Description: "Major indices posted solid gains led by a boost in large-cap technology names after better-than-expected quarterly profit reports.",
		Source:      "Market Daily",
		Category:    "markets",
	},
	{
		Title:       "Fed signals rates to hold steady amid cooling inflation",
		Description: "Policymakers indicated growth remains on track while price pressures continue to ease toward the long-run target.",
		Source:      "Finance Wire",
		Category:    "economy",
	},
	{
		Title:       "Oil prices fall as supply concerns decline",
		Description: "Crude futures dropped after inventory data showed a larger-than-expected build, easing worries of a supply crunch.",
		Source:      "Energy Report",
		Category:    "commodities",
	},
	{
		Title:       "Retail sales rise for third straight month",
		Description: "Consumer spending showed continued growth, a success for retailers heading into the holiday season.",
		Source:      "Commerce Times",
		Category:    "economy",
	},
	{
		Title:       "Regional bank shares plunge on loan loss worries",
		Description: "Lenders saw a sharp decline after several institutions reported rising defaults, dragging the sector down.",
		Source:      "Banking Journal",
		Category:    "banking",
	},
	{
		Title:       "Chipmaker announces record profit and dividend boost",
		Description: "The semiconductor giant reported a surge in revenue and raised its payout, extending the sector rally.",
		Source:      "Tech Ledger",
		Category:    "technology",
	},
	{
		Title:       "Housing starts drop as mortgage rates stay elevated",
		Description: "New construction fell for the second month, with builders citing a slump in buyer demand.",
		Source:      "Property Watch",
		Category:    "real-estate",
	},
	{
		Title:       "Crypto market gains momentum on ETF inflows",
		Description: "Digital assets extended their rise as institutional inflows continued to boost the largest tokens.",
		Source:      "Crypto Brief",
		Category:    "crypto",
	},
}

var _ port.NewsFetcher = (*MockNews)(nil)

// MockNews serves a fixed pool of headlines with randomized recency.
type MockNews struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewMockNews(seed int64) *MockNews {
	return &MockNews{rng: newRand(seed)}
}

func (m *MockNews) TopHeadlines(_ context.Context, category string) (*domain.MarketNews, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	articles := make([]domain.NewsArticle, 0, len(mockHeadlines))
	for i, a := range mockHeadlines {
		if category != "" && category != "general" && a.Category != category {
			continue
		}
		a.URL = fmt.Sprintf("https://news.example.com/articles/%d", i+1)
		a.PublishedAt = time.Now().
			Add(-time.Duration(m.rng.Intn(48)) * time.Hour).
			Format(time.RFC3339)
		articles = append(articles, a)
	}

	return &domain.MarketNews{
		Articles:     articles,
		LastUpdated:  time.Now().Format(time.RFC3339),
		TotalResults: len(articles),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
