package service

import (
	"context"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/client"
	"github.com/smartwallet/bff-go/internal/infra/observability"
	"github.com/smartwallet/bff-go/internal/port"
)

var marketTracer = otel.Tracer("service/markets")

// MarketService serves stock quotes, charts, the market overview and the
// user's investment portfolio. A failing or absent quote provider falls
// back to generated data.
type MarketService struct {
	fetcher port.QuoteFetcher
	mock    *client.MockStocks
	quotes  port.Cache[*domain.StockQuote]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewMarketService creates a market service. fetcher may be nil.
func NewMarketService(fetcher port.QuoteFetcher, mock *client.MockStocks, quotes port.Cache[*domain.StockQuote], metrics *observability.Metrics, logger *zap.Logger) *MarketService {
	return &MarketService{fetcher: fetcher, mock: mock, quotes: quotes, metrics: metrics, logger: logger}
}

// GetQuote returns a quote for symbol, cached briefly.
func (s *MarketService) GetQuote(ctx context.Context, symbol string) (*domain.StockQuote, error) {
	ctx, span := marketTracer.Start(ctx, "MarketService.GetQuote")
	defer span.End()
	span.SetAttributes(attribute.String("stock.symbol", symbol))

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, &domain.ErrValidation{Field: "symbol", Message: "symbol is required"}
	}

	if cached, ok := s.quotes.Get(symbol); ok {
		s.metrics.IncrCacheHit("quotes")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("quotes")

	if s.fetcher != nil {
		quote, err := s.fetcher.GetQuote(ctx, symbol)
		if err == nil {
			s.quotes.Set(symbol, quote)
			return quote, nil
		}
		s.metrics.IncrExternalError("stocks")
		s.logger.Warn("live quote unavailable, using generated quote",
			zap.String("symbol", symbol),
			zap.Error(err))
	}

	s.metrics.IncrMockFallback("stocks")
	return s.mock.GetQuote(ctx, symbol)
}

// GetChart returns a 30-day daily price series for symbol, oldest first.
func (s *MarketService) GetChart(ctx context.Context, symbol string) (*domain.StockChart, error) {
	ctx, span := marketTracer.Start(ctx, "MarketService.GetChart")
	defer span.End()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, &domain.ErrValidation{Field: "symbol", Message: "symbol is required"}
	}

	if s.fetcher != nil {
		points, err := s.fetcher.GetDailySeries(ctx, symbol)
		if err == nil {
			return &domain.StockChart{Symbol: symbol, Data: points}, nil
		}
		s.metrics.IncrExternalError("stocks")
		s.logger.Warn("live chart unavailable, using generated series",
			zap.String("symbol", symbol),
			zap.Error(err))
	}

	s.metrics.IncrMockFallback("stocks")
	points, _ := s.mock.GetDailySeries(ctx, symbol)
	return &domain.StockChart{Symbol: symbol, Data: points}, nil
}

// Overview returns the dashboard market widget. The index and mover data
// has no free live source, so it is always generated.
func (s *MarketService) Overview(ctx context.Context) *domain.MarketOverview {
	_, span := marketTracer.Start(ctx, "MarketService.Overview")
	defer span.End()

	return s.mock.Overview()
}

// Search finds symbols whose ticker or company name contains the query,
// case-insensitively, returning quotes for the matches.
func (s *MarketService) Search(ctx context.Context, query string) ([]domain.StockQuote, error) {
	ctx, span := marketTracer.Start(ctx, "MarketService.Search")
	defer span.End()

	query = strings.ToUpper(strings.TrimSpace(query))
	if query == "" {
		return nil, &domain.ErrValidation{Field: "q", Message: "query is required"}
	}

	symbols := s.mock.KnownSymbols()
	sort.Strings(symbols)

	matches := make([]domain.StockQuote, 0)
	for _, symbol := range symbols {
		name := strings.ToUpper(client.CompanyName(symbol))
		if !strings.Contains(symbol, query) && !strings.Contains(name, query) {
			continue
		}
		quote, err := s.GetQuote(ctx, symbol)
		if err != nil {
			continue
		}
		matches = append(matches, *quote)
	}
	return matches, nil
}

// portfolioHoldings are the user's positions. A future release will move
// these into the local store alongside bills and transactions.
var portfolioHoldings = []struct {
	Symbol        string
	Shares        float64
	PurchasePrice float64
	PurchaseDate  string
	DividendYield float64
}{
	{"AAPL", 10, 150, "2024-01-15", 0.5},
	{"GOOGL", 5, 120, "2024-02-20", 0},
	{"TSLA", 8, 280, "2024-03-10", 0},
	{"VTI", 25, 200, "2023-11-05", 1.8},
}

// Portfolio values the user's holdings at current quotes.
func (s *MarketService) Portfolio(ctx context.Context, userID string) (*domain.Portfolio, error) {
	ctx, span := marketTracer.Start(ctx, "MarketService.Portfolio")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	investments := make([]domain.Investment, 0, len(portfolioHoldings))
	var totalValue, totalCost float64

	for _, h := range portfolioHoldings {
		quote, err := s.GetQuote(ctx, h.Symbol)
		if err != nil {
			return nil, err
		}

		value := quote.Price * h.Shares
		cost := h.PurchasePrice * h.Shares
		gainLoss := value - cost
		gainLossPct := 0.0
		if cost > 0 {
			gainLossPct = gainLoss / cost * 100
		}

		investments = append(investments, domain.Investment{
			ID:                 "inv_" + strings.ToLower(h.Symbol),
			Symbol:             h.Symbol,
			Name:               client.CompanyName(h.Symbol),
			Shares:             h.Shares,
			CurrentPrice:       quote.Price,
			PurchasePrice:      h.PurchasePrice,
			PurchaseDate:       h.PurchaseDate,
			CurrentValue:       value,
			GainLoss:           gainLoss,
			GainLossPercentage: gainLossPct,
			DividendYield:      h.DividendYield,
		})

		totalValue += value
		totalCost += cost
	}

	totalGainLoss := totalValue - totalCost
	totalGainLossPct := 0.0
	if totalCost > 0 {
		totalGainLossPct = totalGainLoss / totalCost * 100
	}

	return &domain.Portfolio{
		TotalValue:              totalValue,
		TotalGainLoss:           totalGainLoss,
		TotalGainLossPercentage: totalGainLossPct,
		Investments:             investments,
		AssetAllocation: domain.AssetAllocation{
			Stocks: 75,
			Bonds:  15,
			Cash:   8,
			Crypto: 2,
		},
	}, nil
}

// Insights scores the portfolio and suggests next steps.
func (s *MarketService) Insights(ctx context.Context, userID string) *domain.InvestmentInsights {
	_, span := marketTracer.Start(ctx, "MarketService.Insights")
	defer span.End()

	return &domain.InvestmentInsights{
		RiskScore:            65,
		DiversificationScore: 78,
		Recommendations: []string{
			"Consider adding international exposure to reduce home-market concentration",
			"Your tech allocation is high; rebalancing toward index funds would lower volatility",
			"Increase bond allocation as a cushion against equity drawdowns",
		},
		NextActions: []string{
			"Review portfolio allocation quarterly",
			"Set up automatic monthly contributions",
			"Enable dividend reinvestment on eligible holdings",
		},
	}
}
