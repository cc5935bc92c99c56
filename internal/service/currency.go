package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/client"
	"github.com/smartwallet/bff-go/internal/infra/observability"
	"github.com/smartwallet/bff-go/internal/port"
)

var currencyTracer = otel.Tracer("service/currency")

// currencyInfo carries the display metadata for each supported currency.
var currencyInfo = []struct {
	Code   string
	Name   string
	Symbol string
}{
	{"USD", "US Dollar", "$"},
	{"EUR", "Euro", "€"},
	{"GBP", "British Pound", "£"},
	{"JPY", "Japanese Yen", "¥"},
	{"INR", "Indian Rupee", "₹"},
	{"CAD", "Canadian Dollar", "C$"},
	{"AUD", "Australian Dollar", "A$"},
	{"CHF", "Swiss Franc", "Fr"},
	{"CNY", "Chinese Yuan", "¥"},
	{"SEK", "Swedish Krona", "kr"},
}

// CurrencyService serves exchange rates and conversions. Live rates come
// from the configured provider and are cached; any provider failure falls
// back to locally generated rates so the dashboard always renders.
type CurrencyService struct {
	fetcher port.RatesFetcher
	mock    *client.MockRates
	cache   port.Cache[map[string]float64]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewCurrencyService creates a currency service. fetcher may be nil, in
// which case every call is served from mock rates.
func NewCurrencyService(fetcher port.RatesFetcher, mock *client.MockRates, cache port.Cache[map[string]float64], metrics *observability.Metrics, logger *zap.Logger) *CurrencyService {
	return &CurrencyService{fetcher: fetcher, mock: mock, cache: cache, metrics: metrics, logger: logger}
}

// rates returns the rate table for base, trying cache, then the live
// provider, then mock data. It never fails.
func (s *CurrencyService) rates(ctx context.Context, base string) map[string]float64 {
	if cached, ok := s.cache.Get(base); ok {
		s.metrics.IncrCacheHit("rates")
		return cached
	}
	s.metrics.IncrCacheMiss("rates")

	if s.fetcher != nil {
		live, err := s.fetcher.GetRates(ctx, base)
		if err == nil {
			s.cache.Set(base, live)
			return live
		}
		s.metrics.IncrExternalError("exchange-rates")
		s.logger.Warn("live rates unavailable, using generated rates",
			zap.String("base", base),
			zap.Error(err))
	}

	s.metrics.IncrMockFallback("exchange-rates")
	mocked, _ := s.mock.GetRates(ctx, base)
	return mocked
}

// ListCurrencies returns the supported currencies with their current rate
// relative to base.
func (s *CurrencyService) ListCurrencies(ctx context.Context, base string) []domain.Currency {
	ctx, span := currencyTracer.Start(ctx, "CurrencyService.ListCurrencies")
	defer span.End()

	if base == "" {
		base = "USD"
	}
	table := s.rates(ctx, base)

	out := make([]domain.Currency, 0, len(currencyInfo))
	for _, info := range currencyInfo {
		rate, ok := table[info.Code]
		if !ok {
			continue
		}
		out = append(out, domain.Currency{
			Code:   info.Code,
			Name:   info.Name,
			Symbol: info.Symbol,
			Rate:   rate,
		})
	}
	return out
}

// Convert converts amount from one currency to another via the cross rate.
// Money math runs on decimals so repeated conversions do not accumulate
// float drift.
func (s *CurrencyService) Convert(ctx context.Context, from, to string, amount float64) (*domain.CurrencyConversion, error) {
	ctx, span := currencyTracer.Start(ctx, "CurrencyService.Convert")
	defer span.End()
	span.SetAttributes(
		attribute.String("currency.from", from),
		attribute.String("currency.to", to),
	)

	if amount < 0 {
		return nil, &domain.ErrValidation{Field: "amount", Message: "amount must not be negative"}
	}

	table := s.rates(ctx, from)
	rate, ok := table[to]
	if !ok {
		return nil, &domain.ErrValidation{Field: "to", Message: "unsupported currency code"}
	}

	converted := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(rate)).
		Round(2)

	return &domain.CurrencyConversion{
		From:            from,
		To:              to,
		Amount:          amount,
		ConvertedAmount: converted.InexactFloat64(),
		Rate:            rate,
		Timestamp:       time.Now().Format(time.RFC3339),
	}, nil
}

// History returns a daily rate series for the pair over the given number
// of days. Historical data is always generated locally; the upstream rate
// provider only serves current rates.
func (s *CurrencyService) History(ctx context.Context, from, to string, days int) []domain.RatePoint {
	_, span := currencyTracer.Start(ctx, "CurrencyService.History")
	defer span.End()

	if days <= 0 || days > 365 {
		days = 30
	}
	points := s.mock.HistoricalRates(from, to, days)
	for i := range points {
		if t, err := time.Parse("2006-01-02", points[i].Date); err == nil {
			points[i].Timestamp = t.UnixMilli()
		}
	}
	return points
}
