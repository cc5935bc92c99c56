package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/handler"
	"github.com/smartwallet/bff-go/internal/infra/cache"
	"github.com/smartwallet/bff-go/internal/infra/client"
	"github.com/smartwallet/bff-go/internal/infra/localstore"
	"github.com/smartwallet/bff-go/internal/infra/notify"
	"github.com/smartwallet/bff-go/internal/infra/observability"
	"github.com/smartwallet/bff-go/internal/infra/resilience"
	"github.com/smartwallet/bff-go/internal/service"
)

// TestIntegration_FullFlow spins up mock external services and exercises
// the full request flow from router to local store.
func TestIntegration_FullFlow(t *testing.T) {
	// --- Mock exchange-rate API ---
	ratesServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"base": "USD",
			"date": "2026-08-29",
			"rates": map[string]float64{
				"USD": 1.0, "EUR": 0.85, "GBP": 0.73, "JPY": 110, "INR": 83,
				"CAD": 1.25, "AUD": 1.35, "CHF": 0.92, "CNY": 6.45, "SEK": 8.85,
			},
		})
	}))
	defer ratesServer.Close()

	// --- Mock generative-AI API ---
	agentServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{
					{"text": `{"financialScore": 91, "insights": [], "recommendations": ["keep saving"], "spendingTrends": []}`},
				}}},
			},
			"usageMetadata": map[string]int{
				"promptTokenCount":     400,
				"candidatesTokenCount": 80,
				"totalTokenCount":      480,
			},
		})
	}))
	defer agentServer.Close()

	// --- Mock notification webhook ---
	notifyServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer notifyServer.Close()

	// --- Build the stack ---
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cb := resilience.NewCircuitBreaker("test", logger)
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 10}
	httpClient := &http.Client{Timeout: 5 * time.Second}

	kv, err := localstore.Open(filepath.Join(t.TempDir(), "wallet.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer kv.Close()

	billStore := localstore.NewBillStore(kv)
	txStore := localstore.NewTransactionStore(kv)
	passStore := localstore.NewPassStore(kv)

	sink := notify.NewWebhookSink(httpClient, notifyServer.URL, logger)
	if err := sink.Setup(context.Background()); err != nil {
		t.Fatalf("sink setup: %v", err)
	}

	scheduler := service.NewReminderScheduler(billStore, sink, metrics, logger)
	defer scheduler.Stop()

	svcs := handler.Services{
		Bills:        service.NewBillService(billStore, scheduler, metrics, logger),
		Transactions: service.NewTransactionService(txStore, metrics, logger),
		Currency: service.NewCurrencyService(
			client.NewExchangeRateClient(httpClient, ratesServer.URL, cb, cfg),
			client.NewMockRates(1), cache.New[map[string]float64](time.Hour), metrics, logger),
		Markets: service.NewMarketService(nil, client.NewMockStocks(1),
			cache.New[*domain.StockQuote](time.Minute), metrics, logger),
		Weather: service.NewWeatherService(nil, client.NewMockWeather(1), "New York", metrics, logger),
		News:    service.NewNewsService(nil, client.NewMockNews(1), cache.New[*domain.MarketNews](time.Minute), metrics, logger),
		Insights: service.NewInsightService(
			client.NewGeminiClient(httpClient, agentServer.URL, "test-key", "test-model", cb, cfg),
			billStore, txStore, metrics, logger),
		BankLink: service.NewBankLinkService(metrics, logger),
		Passes:   service.NewPassService(passStore, metrics, logger),
	}

	router := handler.NewRouter(svcs, handler.AuthConfig{}, metrics, logger)
	server := httptest.NewServer(router)
	defer server.Close()

	// --- Bill flow: add, classify, pay ---
	billBody, _ := json.Marshal(domain.Bill{
		Name:     "Internet",
		Amount:   79.99,
		DueDate:  time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		Category: domain.CategoryUtilities,
	})
	resp, err := http.Post(server.URL+"/v1/users/u1/bills", "application/json", bytes.NewReader(billBody))
	if err != nil {
		t.Fatalf("add bill: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add bill: expected 201, got %d", resp.StatusCode)
	}
	var created domain.Bill
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/v1/users/u1/reminders")
	if err != nil {
		t.Fatalf("reminders: %v", err)
	}
	var reminders []domain.Reminder
	json.NewDecoder(resp.Body).Decode(&reminders)
	resp.Body.Close()
	if len(reminders) != 1 || reminders[0].Type != domain.ReminderDueSoon {
		t.Fatalf("expected one due-soon reminder, got %+v", reminders)
	}

	resp, err = http.Post(server.URL+"/v1/users/u1/bills/"+created.ID+"/pay", "application/json", nil)
	if err != nil {
		t.Fatalf("pay bill: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pay bill: expected 200, got %d", resp.StatusCode)
	}

	// --- Currency via the live mock API ---
	resp, err = http.Get(server.URL + "/v1/currencies/convert?from=USD&to=EUR&amount=200")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	var conv domain.CurrencyConversion
	json.NewDecoder(resp.Body).Decode(&conv)
	resp.Body.Close()
	if conv.ConvertedAmount != 170 {
		t.Errorf("expected 170, got %f", conv.ConvertedAmount)
	}

	// --- AI insights via the live mock model ---
	resp, err = http.Post(server.URL+"/v1/users/u1/insights/spending", "application/json", nil)
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	var analysis domain.SpendingAnalysis
	json.NewDecoder(resp.Body).Decode(&analysis)
	resp.Body.Close()
	if analysis.FinancialScore != 91 {
		t.Errorf("expected the model's score 91, got %d", analysis.FinancialScore)
	}

	// --- Transactions: record, summarize, export ---
	txBody, _ := json.Marshal(domain.Transaction{
		Merchant: "Grocery Mart",
		Amount:   -54.30,
		Category: "Food",
	})
	resp, err = http.Post(server.URL+"/v1/users/u1/transactions", "application/json", bytes.NewReader(txBody))
	if err != nil {
		t.Fatalf("record tx: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record tx: expected 201, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/v1/users/u1/transactions/summary")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	var summary domain.TransactionSummary
	json.NewDecoder(resp.Body).Decode(&summary)
	resp.Body.Close()
	if summary.Count != 1 || summary.ByCategory["Food"] != -54.30 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	resp, err = http.Get(server.URL + "/v1/users/u1/transactions/export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Content-Type"); got != "text/csv" {
		t.Errorf("expected text/csv, got %s", got)
	}
}

// TestIntegration_MockFallbackWhenProviderFails verifies that a failing
// upstream never surfaces an error to the dashboard.
func TestIntegration_MockFallbackWhenProviderFails(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cb := resilience.NewCircuitBreaker("test-fallback", logger)
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: time.Millisecond, MaxConcurrency: 10}
	httpClient := &http.Client{Timeout: 2 * time.Second}

	svc := service.NewCurrencyService(
		client.NewExchangeRateClient(httpClient, failing.URL, cb, cfg),
		client.NewMockRates(1),
		cache.New[map[string]float64](time.Hour),
		metrics, logger)

	conv, err := svc.Convert(context.Background(), "USD", "EUR", 100)
	if err != nil {
		t.Fatalf("expected fallback conversion, got error %v", err)
	}
	if conv.ConvertedAmount <= 0 {
		t.Errorf("expected a positive converted amount, got %f", conv.ConvertedAmount)
	}
}
