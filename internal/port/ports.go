// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/smartwallet/bff-go/internal/domain"
)

// BillStore persists a user's bills. Implementations are keyed by userId;
// MarkPaid is idempotent (marking an already-paid bill is a no-op).
type BillStore interface {
	List(ctx context.Context, userID string) ([]domain.Bill, error)
	Add(ctx context.Context, bill *domain.Bill) (*domain.Bill, error)
	MarkPaid(ctx context.Context, userID, billID string) error
}

// TransactionStore persists a user's transaction history.
type TransactionStore interface {
	List(ctx context.Context, userID string) ([]domain.Transaction, error)
	Save(ctx context.Context, tx *domain.Transaction) error
}

// PassStore persists a user's wallet passes.
type PassStore interface {
	List(ctx context.Context, userID string) ([]domain.WalletPass, error)
	Save(ctx context.Context, pass *domain.WalletPass) error
	Update(ctx context.Context, pass *domain.WalletPass) error
}

// NotificationSink delivers fire-and-forget notifications. Permission is
// requested once via Setup; when permission was not granted, Send silently
// no-ops.
type NotificationSink interface {
	Setup(ctx context.Context) error
	Send(ctx context.Context, title, body, tag string) error
}

// AgentCaller invokes the generative-AI text endpoint with a free-text
// prompt. The reply text is not guaranteed to be valid JSON.
type AgentCaller interface {
	Generate(ctx context.Context, prompt string) (*domain.AgentReply, error)
}

// RatesFetcher retrieves exchange rates relative to a base currency.
type RatesFetcher interface {
	GetRates(ctx context.Context, base string) (map[string]float64, error)
}

// QuoteFetcher retrieves stock quotes and price series.
type QuoteFetcher interface {
	GetQuote(ctx context.Context, symbol string) (*domain.StockQuote, error)
	GetDailySeries(ctx context.Context, symbol string) ([]domain.ChartPoint, error)
}

// WeatherFetcher retrieves current weather plus forecast for a city.
type WeatherFetcher interface {
	Current(ctx context.Context, city string) (*domain.WeatherData, error)
}

// NewsFetcher retrieves financial news headlines for a category.
type NewsFetcher interface {
	TopHeadlines(ctx context.Context, category string) (*domain.MarketNews, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
