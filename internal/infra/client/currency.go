// Package client provides HTTP clients for the external read APIs the
// dashboard aggregates: exchange rates, stock quotes, weather, news, and
// the generative-AI endpoint. Every client is wrapped in retry + circuit
// breaker; fallback to mock data happens one layer up, in the services.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/resilience"
)

var tracer = otel.Tracer("client")

// wrapErr maps a failed outbound call to a domain error. An open or
// saturated breaker surfaces as ErrCircuitOpen so handlers answer 503
// instead of 502; everything else is an external-service failure.
func wrapErr(service string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &domain.ErrCircuitOpen{Service: service}
	}
	return &domain.ErrExternalService{Service: service, Err: err}
}

// ExchangeRateClient fetches exchange rates from exchangerate-api.
type ExchangeRateClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewExchangeRateClient creates a new ExchangeRateClient.
func NewExchangeRateClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *ExchangeRateClient {
	return &ExchangeRateClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

type exchangeRateResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// GetRates fetches the latest rates relative to base, with retry, circuit
// breaker, and tracing.
func (c *ExchangeRateClient) GetRates(ctx context.Context, base string) (map[string]float64, error) {
	ctx, span := tracer.Start(ctx, "ExchangeRateClient.GetRates")
	defer span.End()
	span.SetAttributes(attribute.String("currency.base", base))

	var parsed exchangeRateResponse

	result, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/%s", c.baseURL, base)
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
				return fmt.Errorf("exchange rate API returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&parsed)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		if len(parsed.Rates) == 0 {
			return nil, fmt.Errorf("exchange rate API returned no rates for %s", base)
		}
		return parsed.Rates, nil
	})

	if err != nil {
		return nil, wrapErr("exchange-rates", err)
	}

	return result.(map[string]float64), nil
}
