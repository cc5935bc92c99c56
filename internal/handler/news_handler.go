package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/service"
)

// ============================================================
// News & Sentiment
// ============================================================

func headlinesHandler(svc *service.NewsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/news")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.Headlines(ctx, r.URL.Query().Get("category")))
	}
}

func marketSentimentHandler(svc *service.NewsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/news/sentiment")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.MarketSentiment(ctx))
	}
}
