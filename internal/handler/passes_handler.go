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
// Wallet Passes
// ============================================================

func listPassesHandler(svc *service.PassService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/passes")
		defer span.End()

		passes, err := svc.List(ctx, chi.URLParam(r, "userId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, passes)
	}
}

func createMembershipPassHandler(svc *service.PassService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/users/{userId}/passes/membership")
		defer span.End()

		var req domain.MembershipPassRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		pass, err := svc.CreateMembership(ctx, chi.URLParam(r, "userId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, pass)
	}
}

func createEventPassHandler(svc *service.PassService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/users/{userId}/passes/event")
		defer span.End()

		var req domain.EventPassRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		pass, err := svc.CreateEvent(ctx, chi.URLParam(r, "userId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, pass)
	}
}

func deactivatePassHandler(svc *service.PassService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/users/{userId}/passes/{passId}/deactivate")
		defer span.End()

		pass, err := svc.Deactivate(ctx, chi.URLParam(r, "userId"), chi.URLParam(r, "passId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, pass)
	}
}

func downloadPassHandler(svc *service.PassService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/passes/{passId}/download")
		defer span.End()

		dataURL, err := svc.Download(ctx, chi.URLParam(r, "userId"), chi.URLParam(r, "passId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"data": dataURL})
	}
}
