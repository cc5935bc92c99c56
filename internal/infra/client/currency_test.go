package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/client"
	"github.com/smartwallet/bff-go/internal/infra/resilience"
)

func TestExchangeRateClient_GetRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base":"USD","date":"2026-08-29","rates":{"EUR":0.85,"GBP":0.73}}`))
	}))
	defer server.Close()

	c := client.NewExchangeRateClient(server.Client(), server.URL,
		resilience.NewCircuitBreaker("exchange-rates", zap.NewNop()),
		resilience.Config{MaxRetries: 0, InitialBackoff: 0})

	rates, err := c.GetRates(context.Background(), "USD")
	if err != nil {
		t.Fatalf("expected rates, got %v", err)
	}
	if rates["EUR"] != 0.85 {
		t.Errorf("expected EUR rate 0.85, got %f", rates["EUR"])
	}
}

func TestExchangeRateClient_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := client.NewExchangeRateClient(server.Client(), server.URL,
		resilience.NewCircuitBreaker("exchange-rates", zap.NewNop()),
		resilience.Config{MaxRetries: 0, InitialBackoff: 0})

	_, err := c.GetRates(context.Background(), "USD")
	var external *domain.ErrExternalService
	if !errors.As(err, &external) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
	if external.Service != "exchange-rates" {
		t.Errorf("expected service exchange-rates, got %q", external.Service)
	}
}

func TestExchangeRateClient_OpenBreakerShortCircuits(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := client.NewExchangeRateClient(server.Client(), server.URL,
		resilience.NewCircuitBreaker("exchange-rates", zap.NewNop()),
		resilience.Config{MaxRetries: 0, InitialBackoff: 0})

	// The breaker trips after three consecutive failures.
	for i := 0; i < 3; i++ {
		if _, err := c.GetRates(context.Background(), "USD"); err == nil {
			t.Fatalf("call %d: expected failure", i+1)
		}
	}
	callsBeforeOpen := calls

	_, err := c.GetRates(context.Background(), "USD")
	var open *domain.ErrCircuitOpen
	if !errors.As(err, &open) {
		t.Fatalf("expected ErrCircuitOpen once tripped, got %v", err)
	}
	if open.Service != "exchange-rates" {
		t.Errorf("expected service exchange-rates, got %q", open.Service)
	}
	if calls != callsBeforeOpen {
		t.Errorf("expected no upstream call while open, got %d extra", calls-callsBeforeOpen)
	}
}
