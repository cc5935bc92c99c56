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
// AI Assistant
// ============================================================

func spendingAnalysisHandler(svc *service.InsightService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/users/{userId}/insights/spending")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		writeJSON(w, http.StatusOK, svc.AnalyzeSpending(ctx, userID))
	}
}

func budgetHandler(svc *service.InsightService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/users/{userId}/insights/budget")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		writeJSON(w, http.StatusOK, svc.RecommendBudget(ctx, userID))
	}
}

func receiptHandler(svc *service.InsightService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/insights/receipt")
		defer span.End()

		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		extraction, err := svc.ExtractReceipt(ctx, body.Text)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, extraction)
	}
}

func queryHandler(svc *service.InsightService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/users/{userId}/assistant/query")
		defer span.End()

		var req domain.QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		answer, err := svc.Query(ctx, chi.URLParam(r, "userId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, answer)
	}
}

func agentMetricsHandler(svc *service.InsightService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/metrics/agent")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.AgentUsage())
	}
}
