package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/client"
	"github.com/smartwallet/bff-go/internal/infra/observability"
	"github.com/smartwallet/bff-go/internal/port"
)

var newsTracer = otel.Tracer("service/news")

var positiveWords = []string{"gain", "rise", "up", "growth", "profit", "success", "boost", "surge", "rally"}
var negativeWords = []string{"loss", "fall", "down", "decline", "drop", "crash", "plunge", "slump", "recession"}

// NewsService serves financial headlines tagged with keyword-derived
// sentiment, plus an aggregate market-sentiment read. A failing or absent
// provider falls back to a generated headline pool.
type NewsService struct {
	fetcher port.NewsFetcher
	mock    *client.MockNews
	cache   port.Cache[*domain.MarketNews]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewNewsService creates a news service. fetcher may be nil.
func NewNewsService(fetcher port.NewsFetcher, mock *client.MockNews, cache port.Cache[*domain.MarketNews], metrics *observability.Metrics, logger *zap.Logger) *NewsService {
	return &NewsService{fetcher: fetcher, mock: mock, cache: cache, metrics: metrics, logger: logger}
}

// Headlines returns sentiment-tagged headlines for category, cached.
func (s *NewsService) Headlines(ctx context.Context, category string) *domain.MarketNews {
	ctx, span := newsTracer.Start(ctx, "NewsService.Headlines")
	defer span.End()

	if category == "" {
		category = "general"
	}
	span.SetAttributes(attribute.String("news.category", category))

	if cached, ok := s.cache.Get(category); ok {
		s.metrics.IncrCacheHit("news")
		return cached
	}
	s.metrics.IncrCacheMiss("news")

	news := s.fetch(ctx, category)
	for i := range news.Articles {
		news.Articles[i].Sentiment = classifySentiment(
			news.Articles[i].Title + " " + news.Articles[i].Description)
	}

	s.cache.Set(category, news)
	return news
}

func (s *NewsService) fetch(ctx context.Context, category string) *domain.MarketNews {
	if s.fetcher != nil {
		news, err := s.fetcher.TopHeadlines(ctx, category)
		if err == nil {
			return news
		}
		s.metrics.IncrExternalError("news")
		s.logger.Warn("live headlines unavailable, using generated pool",
			zap.String("category", category),
			zap.Error(err))
	}

	s.metrics.IncrMockFallback("news")
	news, _ := s.mock.TopHeadlines(ctx, category)
	return news
}

// classifySentiment counts positive and negative keywords in text.
func classifySentiment(text string) string {
	text = strings.ToLower(text)

	var positive, negative int
	for _, w := range positiveWords {
		positive += strings.Count(text, w)
	}
	for _, w := range negativeWords {
		negative += strings.Count(text, w)
	}

	switch {
	case positive > negative:
		return domain.SentimentPositive
	case negative > positive:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// MarketSentiment aggregates headline sentiment into a market mood. The
// overall read flips bullish or bearish when one side holds more than 60%
// of the non-neutral articles.
func (s *NewsService) MarketSentiment(ctx context.Context) *domain.MarketSentiment {
	ctx, span := newsTracer.Start(ctx, "NewsService.MarketSentiment")
	defer span.End()

	news := s.Headlines(ctx, "general")

	var positive, negative int
	for _, a := range news.Articles {
		switch a.Sentiment {
		case domain.SentimentPositive:
			positive++
		case domain.SentimentNegative:
			negative++
		}
	}

	total := positive + negative
	overall := "neutral"
	confidence := 50
	factors := []string{"Mixed signals across financial headlines"}

	if total > 0 {
		positiveRatio := float64(positive) / float64(total)
		switch {
		case positiveRatio > 0.6:
			overall = "bullish"
			confidence = 50 + int(positiveRatio*45)
			factors = []string{
				"Majority of headlines carry positive momentum",
				"Earnings and growth stories dominate coverage",
			}
		case positiveRatio < 0.4:
			overall = "bearish"
			confidence = 50 + int((1-positiveRatio)*45)
			factors = []string{
				"Negative headlines outweigh positive coverage",
				"Decline and loss stories dominate the cycle",
			}
		}
	}

	if confidence > 95 {
		confidence = 95
	}

	return &domain.MarketSentiment{
		Overall:    overall,
		Confidence: confidence,
		Factors:    factors,
	}
}
