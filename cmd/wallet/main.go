package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/config"
	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/handler"
	"github.com/smartwallet/bff-go/internal/infra/cache"
	"github.com/smartwallet/bff-go/internal/infra/client"
	"github.com/smartwallet/bff-go/internal/infra/localstore"
	"github.com/smartwallet/bff-go/internal/infra/notify"
	"github.com/smartwallet/bff-go/internal/infra/observability"
	"github.com/smartwallet/bff-go/internal/infra/resilience"
	"github.com/smartwallet/bff-go/internal/port"
	"github.com/smartwallet/bff-go/internal/service"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel, "smart-wallet-bff")
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("db_path", cfg.DBPath),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int64("mock_seed", cfg.MockSeed),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "smart-wallet-bff")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Caches ---
	ratesCache := cache.New[map[string]float64](cfg.RatesCacheTTL)
	defer ratesCache.Close()
	quotesCache := cache.New[*domain.StockQuote](cfg.QuotesCacheTTL)
	defer quotesCache.Close()
	newsCache := cache.New[*domain.MarketNews](cfg.NewsCacheTTL)
	defer newsCache.Close()

	// --- Resilience ---
	// One breaker per provider: a dead quote API must not trip the
	// rate or agent calls.
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}

	// --- Local store ---
	kv, err := localstore.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open local store", zap.Error(err))
	}
	defer kv.Close()

	billStore := localstore.NewBillStore(kv)
	txStore := localstore.NewTransactionStore(kv)
	passStore := localstore.NewPassStore(kv)

	// --- External clients ---
	// A missing API key leaves the matching fetcher nil; the service then
	// serves generated data and says so once at startup.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	ratesClient := client.NewExchangeRateClient(httpClient, cfg.ExchangeRateAPIURL, resilience.NewCircuitBreaker("exchange-rates", logger), resilienceCfg)

	var quotesClient port.QuoteFetcher
	if cfg.AlphaVantageAPIKey != "" {
		quotesClient = client.NewAlphaVantageClient(httpClient, cfg.AlphaVantageURL, cfg.AlphaVantageAPIKey, resilience.NewCircuitBreaker("stocks", logger), resilienceCfg)
	} else {
		logger.Warn("stock API key not configured, serving generated market data")
	}

	var weatherClient port.WeatherFetcher
	if cfg.OpenWeatherAPIKey != "" {
		weatherClient = client.NewOpenWeatherClient(httpClient, cfg.OpenWeatherURL, cfg.OpenWeatherAPIKey, resilience.NewCircuitBreaker("weather", logger), resilienceCfg)
	} else {
		logger.Warn("weather API key not configured, serving generated conditions")
	}

	var newsClient port.NewsFetcher
	if cfg.NewsAPIKey != "" {
		newsClient = client.NewNewsAPIClient(httpClient, cfg.NewsAPIURL, cfg.NewsAPIKey, resilience.NewCircuitBreaker("news", logger), resilienceCfg)
	} else {
		logger.Warn("news API key not configured, serving generated headlines")
	}

	var agentClient port.AgentCaller
	if cfg.GeminiAPIKey != "" {
		agentClient = client.NewGeminiClient(httpClient, cfg.GeminiAPIURL, cfg.GeminiAPIKey, cfg.GeminiModel, resilience.NewCircuitBreaker("agent", logger), resilienceCfg)
	} else {
		logger.Warn("AI API key not configured, serving canned insights")
	}

	// --- Notifications ---
	sink := notify.NewWebhookSink(httpClient, cfg.NotifyWebhookURL, logger)
	if err := sink.Setup(context.Background()); err != nil {
		logger.Warn("notification setup failed", zap.Error(err))
	}

	// --- Services ---
	scheduler := service.NewReminderScheduler(billStore, sink, metrics, logger)
	defer scheduler.Stop()

	svcs := handler.Services{
		Bills:        service.NewBillService(billStore, scheduler, metrics, logger),
		Transactions: service.NewTransactionService(txStore, metrics, logger),
		Currency:     service.NewCurrencyService(ratesClient, client.NewMockRates(cfg.MockSeed), ratesCache, metrics, logger),
		Markets:      service.NewMarketService(quotesClient, client.NewMockStocks(cfg.MockSeed), quotesCache, metrics, logger),
		Weather:      service.NewWeatherService(weatherClient, client.NewMockWeather(cfg.MockSeed), cfg.DefaultCity, metrics, logger),
		News:         service.NewNewsService(newsClient, client.NewMockNews(cfg.MockSeed), newsCache, metrics, logger),
		Insights:     service.NewInsightService(agentClient, billStore, txStore, metrics, logger),
		BankLink:     service.NewBankLinkService(metrics, logger),
		Passes:       service.NewPassService(passStore, metrics, logger),
	}

	// --- Router ---
	router := handler.NewRouter(svcs, handler.AuthConfig{
		Secret: cfg.AuthJWTSecret,
		Issuer: cfg.AuthIssuer,
	}, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
