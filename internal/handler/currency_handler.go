package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/service"
)

// ============================================================
// Currency
// ============================================================

func listCurrenciesHandler(svc *service.CurrencyService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/currencies")
		defer span.End()

		base := r.URL.Query().Get("base")
		writeJSON(w, http.StatusOK, svc.ListCurrencies(ctx, base))
	}
}

func convertCurrencyHandler(svc *service.CurrencyService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/currencies/convert")
		defer span.End()

		q := r.URL.Query()
		from := q.Get("from")
		to := q.Get("to")
		if from == "" || to == "" {
			writeError(w, http.StatusBadRequest, "from and to are required")
			return
		}
		amount, err := strconv.ParseFloat(q.Get("amount"), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "amount must be a number")
			return
		}

		conv, err := svc.Convert(ctx, from, to, amount)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, conv)
	}
}

func currencyHistoryHandler(svc *service.CurrencyService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/currencies/history")
		defer span.End()

		q := r.URL.Query()
		from := q.Get("from")
		to := q.Get("to")
		if from == "" || to == "" {
			writeError(w, http.StatusBadRequest, "from and to are required")
			return
		}
		days, _ := strconv.Atoi(q.Get("days"))

		writeJSON(w, http.StatusOK, svc.History(ctx, from, to, days))
	}
}
