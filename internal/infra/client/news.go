package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/resilience"
)

// NewsAPIClient fetches financial headlines from NewsAPI.
type NewsAPIClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewNewsAPIClient creates a new NewsAPIClient.
func NewNewsAPIClient(httpClient *http.Client, baseURL, apiKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *NewsAPIClient {
	return &NewsAPIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		cb:         cb,
		cfg:        cfg,
	}
}

type newsAPIResponse struct {
	TotalResults int `json:"totalResults"`
	Articles     []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// TopHeadlines fetches up to 20 US top headlines for category.
// Sentiment is left empty; the news service tags it.
func (c *NewsAPIClient) TopHeadlines(ctx context.Context, category string) (*domain.MarketNews, error) {
	ctx, span := tracer.Start(ctx, "NewsAPIClient.TopHeadlines")
	defer span.End()
	span.SetAttributes(attribute.String("news.category", category))

	var parsed newsAPIResponse

	result, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/top-headlines?category=%s&country=us&apiKey=%s&pageSize=20", c.baseURL, category, c.apiKey)
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("news API returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&parsed)
		})
		if innerErr != nil {
			return nil, innerErr
		}

		articles := make([]domain.NewsArticle, 0, len(parsed.Articles))
		for _, a := range parsed.Articles {
			articles = append(articles, domain.NewsArticle{
				Title:       a.Title,
				Description: a.Description,
				URL:         a.URL,
				Source:      a.Source.Name,
				PublishedAt: a.PublishedAt,
				ImageURL:    a.URLToImage,
				Category:    category,
			})
		}

		return &domain.MarketNews{
			Articles:     articles,
			LastUpdated:  time.Now().UTC().Format(time.RFC3339),
			TotalResults: parsed.TotalResults,
		}, nil
	})

	if err != nil {
		return nil, wrapErr("news", err)
	}

	return result.(*domain.MarketNews), nil
}
