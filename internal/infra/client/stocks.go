package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/resilience"
)

// AlphaVantageClient fetches stock quotes and daily series from the
// Alpha Vantage free API.
type AlphaVantageClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewAlphaVantageClient creates a new AlphaVantageClient.
func NewAlphaVantageClient(httpClient *http.Client, baseURL, apiKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *AlphaVantageClient {
	return &AlphaVantageClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		cb:         cb,
		cfg:        cfg,
	}
}

// Alpha Vantage uses numbered field names in its JSON payloads.
type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

type dailySeriesResponse struct {
	Series map[string]struct {
		Open   string `json:"1. open"`
		High   string `json:"2. high"`
		Low    string `json:"3. low"`
		Close  string `json:"4. close"`
		Volume string `json:"5. volume"`
	} `json:"Time Series (Daily)"`
}

// GetQuote fetches a GLOBAL_QUOTE for symbol. The company name is not part
// of the API payload; callers fill it in.
func (c *AlphaVantageClient) GetQuote(ctx context.Context, symbol string) (*domain.StockQuote, error) {
	ctx, span := tracer.Start(ctx, "AlphaVantageClient.GetQuote")
	defer span.End()
	span.SetAttributes(attribute.String("stock.symbol", symbol))

	var parsed globalQuoteResponse

	result, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s?function=GLOBAL_QUOTE&symbol=%s&apikey=%s", c.baseURL, symbol, c.apiKey)
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
				return fmt.Errorf("stock API returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&parsed)
		})
		if innerErr != nil {
			return nil, innerErr
		}

		q := parsed.GlobalQuote
		if q.Symbol == "" {
			return nil, fmt.Errorf("stock API returned empty quote for %s", symbol)
		}

		price, _ := strconv.ParseFloat(q.Price, 64)
		change, _ := strconv.ParseFloat(q.Change, 64)
		changePct, _ := strconv.ParseFloat(strings.TrimSuffix(q.ChangePercent, "%"), 64)
		volume, _ := strconv.ParseInt(q.Volume, 10, 64)

		return &domain.StockQuote{
			Symbol:        q.Symbol,
			Price:         price,
			Change:        change,
			ChangePercent: changePct,
			Volume:        volume,
		}, nil
	})

	if err != nil {
		return nil, wrapErr("stocks", err)
	}

	return result.(*domain.StockQuote), nil
}

// GetDailySeries fetches TIME_SERIES_DAILY for symbol and returns the last
// 30 points in chronological order.
func (c *AlphaVantageClient) GetDailySeries(ctx context.Context, symbol string) ([]domain.ChartPoint, error) {
	ctx, span := tracer.Start(ctx, "AlphaVantageClient.GetDailySeries")
	defer span.End()
	span.SetAttributes(attribute.String("stock.symbol", symbol))

	var parsed dailySeriesResponse

	result, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s?function=TIME_SERIES_DAILY&symbol=%s&apikey=%s", c.baseURL, symbol, c.apiKey)
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
				return fmt.Errorf("stock API returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&parsed)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		if len(parsed.Series) == 0 {
			return nil, fmt.Errorf("stock API returned empty series for %s", symbol)
		}

		dates := make([]string, 0, len(parsed.Series))
		for date := range parsed.Series {
			dates = append(dates, date)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(dates)))
		if len(dates) > 30 {
			dates = dates[:30]
		}
		// Back to chronological order.
		sort.Strings(dates)

		points := make([]domain.ChartPoint, 0, len(dates))
		for _, date := range dates {
			v := parsed.Series[date]
			open, _ := strconv.ParseFloat(v.Open, 64)
			high, _ := strconv.ParseFloat(v.High, 64)
			low, _ := strconv.ParseFloat(v.Low, 64)
			closePx, _ := strconv.ParseFloat(v.Close, 64)
			volume, _ := strconv.ParseInt(v.Volume, 10, 64)
			points = append(points, domain.ChartPoint{
				Date:   date,
				Open:   open,
				High:   high,
				Low:    low,
				Close:  closePx,
				Volume: volume,
			})
		}
		return points, nil
	})

	if err != nil {
		return nil, wrapErr("stocks", err)
	}

	return result.([]domain.ChartPoint), nil
}
