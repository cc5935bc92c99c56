package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/service"
)

// ============================================================
// Stocks & Investments
// ============================================================

func getQuoteHandler(svc *service.MarketService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stocks/{symbol}")
		defer span.End()

		quote, err := svc.GetQuote(ctx, chi.URLParam(r, "symbol"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, quote)
	}
}

func getChartHandler(svc *service.MarketService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stocks/{symbol}/chart")
		defer span.End()

		chart, err := svc.GetChart(ctx, chi.URLParam(r, "symbol"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, chart)
	}
}

func marketOverviewHandler(svc *service.MarketService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/markets/overview")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.Overview(ctx))
	}
}

func searchStocksHandler(svc *service.MarketService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stocks/search")
		defer span.End()

		matches, err := svc.Search(ctx, r.URL.Query().Get("q"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func portfolioHandler(svc *service.MarketService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/portfolio")
		defer span.End()

		portfolio, err := svc.Portfolio(ctx, chi.URLParam(r, "userId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, portfolio)
	}
}

func portfolioInsightsHandler(svc *service.MarketService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/portfolio/insights")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.Insights(ctx, chi.URLParam(r, "userId")))
	}
}
