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
// Bills & Reminders
// ============================================================

func listBillsHandler(svc *service.BillService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/bills")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		bills, err := svc.List(ctx, userID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, bills)
	}
}

func addBillHandler(svc *service.BillService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/users/{userId}/bills")
		defer span.End()

		var bill domain.Bill
		if err := json.NewDecoder(r.Body).Decode(&bill); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		bill.UserID = chi.URLParam(r, "userId")

		created, err := svc.Add(ctx, &bill)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func markBillPaidHandler(svc *service.BillService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/users/{userId}/bills/{billId}/pay")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		billID := chi.URLParam(r, "billId")

		if err := svc.MarkPaid(ctx, userID, billID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"paid": true})
	}
}

func listRemindersHandler(svc *service.BillService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/reminders")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		writeJSON(w, http.StatusOK, svc.Reminders(ctx, userID))
	}
}
