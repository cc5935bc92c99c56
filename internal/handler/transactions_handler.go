package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/service"
)

// ============================================================
// Transactions
// ============================================================

func listTransactionsHandler(svc *service.TransactionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/transactions")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		category := r.URL.Query().Get("category")

		txs, err := svc.List(ctx, userID, category)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, txs)
	}
}

func recordTransactionHandler(svc *service.TransactionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/users/{userId}/transactions")
		defer span.End()

		var tx domain.Transaction
		if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		tx.UserID = chi.URLParam(r, "userId")

		recorded, err := svc.Record(ctx, &tx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, recorded)
	}
}

func transactionSummaryHandler(svc *service.TransactionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/transactions/summary")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		summary, err := svc.Summary(ctx, userID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func exportTransactionsHandler(svc *service.TransactionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/transactions/export")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		out, err := svc.ExportCSV(ctx, userID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
		w.WriteHeader(http.StatusOK)
		w.Write(out)
	}
}
