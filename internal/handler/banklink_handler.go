package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/service"
)

// ============================================================
// Bank Linking
// ============================================================

func linkTokenHandler(svc *service.BankLinkService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/users/{userId}/bank/link-token")
		defer span.End()

		writeJSON(w, http.StatusCreated, svc.CreateLinkToken(ctx, chi.URLParam(r, "userId")))
	}
}

func linkedAccountsHandler(svc *service.BankLinkService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/bank/accounts")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.ListAccounts(ctx, chi.URLParam(r, "userId")))
	}
}

func accountTransactionsHandler(svc *service.BankLinkService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/bank/accounts/{accountId}/transactions")
		defer span.End()

		txs, err := svc.AccountTransactions(ctx, chi.URLParam(r, "userId"), chi.URLParam(r, "accountId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, txs)
	}
}

func syncAccountHandler(svc *service.BankLinkService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/users/{userId}/bank/accounts/{accountId}/sync")
		defer span.End()

		pulled, err := svc.Sync(ctx, chi.URLParam(r, "userId"), chi.URLParam(r, "accountId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"pulled": pulled})
	}
}
