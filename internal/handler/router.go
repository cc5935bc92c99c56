package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/infra/observability"
	"github.com/smartwallet/bff-go/internal/service"
)

var tracer = otel.Tracer("handler")

// Services bundles everything the router serves.
type Services struct {
	Bills        *service.BillService
	Transactions *service.TransactionService
	Currency     *service.CurrencyService
	Markets      *service.MarketService
	Weather      *service.WeatherService
	News         *service.NewsService
	Insights     *service.InsightService
	BankLink     *service.BankLinkService
	Passes       *service.PassService
}

// AuthConfig carries the identity-provider trust settings. An empty
// Secret disables token enforcement: every request then runs as the
// "demo-user" account, which keeps local development keyless.
type AuthConfig struct {
	Secret string
	Issuer string
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svcs Services, auth AuthConfig, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		if auth.Secret != "" {
			r.Use(JWTAuthMiddleware(auth.Secret, auth.Issuer, logger))
		} else {
			logger.Warn("identity provider secret not configured, running without authentication")
		}

		// User-scoped routes: the token subject must match {userId}.
		r.Route("/users/{userId}", func(r chi.Router) {
			r.Use(UserScopeMiddleware(logger))

			// =============================================
			// Bills & Reminders
			// =============================================
			r.Get("/bills", listBillsHandler(svcs.Bills, logger))
			r.Post("/bills", addBillHandler(svcs.Bills, logger))
			r.Post("/bills/{billId}/pay", markBillPaidHandler(svcs.Bills, logger))
			r.Get("/reminders", listRemindersHandler(svcs.Bills, logger))

			// =============================================
			// Transactions
			// =============================================
			r.Get("/transactions", listTransactionsHandler(svcs.Transactions, logger))
			r.Post("/transactions", recordTransactionHandler(svcs.Transactions, logger))
			r.Get("/transactions/summary", transactionSummaryHandler(svcs.Transactions, logger))
			r.Get("/transactions/export", exportTransactionsHandler(svcs.Transactions, logger))

			// =============================================
			// Portfolio
			// =============================================
			r.Get("/portfolio", portfolioHandler(svcs.Markets, logger))
			r.Get("/portfolio/insights", portfolioInsightsHandler(svcs.Markets, logger))

			// =============================================
			// AI Assistant
			// =============================================
			r.Post("/insights/spending", spendingAnalysisHandler(svcs.Insights, logger))
			r.Post("/insights/budget", budgetHandler(svcs.Insights, logger))
			r.Post("/assistant/query", queryHandler(svcs.Insights, logger))

			// =============================================
			// Bank Linking
			// =============================================
			r.Post("/bank/link-token", linkTokenHandler(svcs.BankLink, logger))
			r.Get("/bank/accounts", linkedAccountsHandler(svcs.BankLink, logger))
			r.Get("/bank/accounts/{accountId}/transactions", accountTransactionsHandler(svcs.BankLink, logger))
			r.Post("/bank/accounts/{accountId}/sync", syncAccountHandler(svcs.BankLink, logger))

			// =============================================
			// Wallet Passes
			// =============================================
			r.Get("/passes", listPassesHandler(svcs.Passes, logger))
			r.Post("/passes/membership", createMembershipPassHandler(svcs.Passes, logger))
			r.Post("/passes/event", createEventPassHandler(svcs.Passes, logger))
			r.Post("/passes/{passId}/deactivate", deactivatePassHandler(svcs.Passes, logger))
			r.Get("/passes/{passId}/download", downloadPassHandler(svcs.Passes, logger))
		})

		// =============================================
		// Currency
		// =============================================
		r.Get("/currencies", listCurrenciesHandler(svcs.Currency, logger))
		r.Get("/currencies/convert", convertCurrencyHandler(svcs.Currency, logger))
		r.Get("/currencies/history", currencyHistoryHandler(svcs.Currency, logger))

		// =============================================
		// Stocks & Investments
		// =============================================
		r.Get("/markets/overview", marketOverviewHandler(svcs.Markets, logger))
		r.Get("/stocks/search", searchStocksHandler(svcs.Markets, logger))
		r.Get("/stocks/{symbol}", getQuoteHandler(svcs.Markets, logger))
		r.Get("/stocks/{symbol}/chart", getChartHandler(svcs.Markets, logger))

		// =============================================
		// Weather
		// =============================================
		r.Get("/weather", currentWeatherHandler(svcs.Weather, logger))
		r.Get("/weather/spending-insights", weatherInsightsHandler(svcs.Weather, logger))

		// =============================================
		// News & Sentiment
		// =============================================
		r.Get("/news", headlinesHandler(svcs.News, logger))
		r.Get("/news/sentiment", marketSentimentHandler(svcs.News, logger))

		// =============================================
		// AI Assistant (user-agnostic endpoints)
		// =============================================
		r.Post("/insights/receipt", receiptHandler(svcs.Insights, logger))
		r.Get("/metrics/agent", agentMetricsHandler(svcs.Insights, logger))
	})

	return r
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
