package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/service"
)

// ============================================================
// Weather
// ============================================================

func currentWeatherHandler(svc *service.WeatherService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/weather")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.Current(ctx, r.URL.Query().Get("city")))
	}
}

func weatherInsightsHandler(svc *service.WeatherService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/weather/spending-insights")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.SpendingInsights(ctx, r.URL.Query().Get("city")))
	}
}
