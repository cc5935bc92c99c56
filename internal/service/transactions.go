package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/observability"
	"github.com/smartwallet/bff-go/internal/port"
)

var txTracer = otel.Tracer("service/transactions")

// TransactionService manages the user's transaction history: listing,
// recording, aggregation and CSV export.
type TransactionService struct {
	store   port.TransactionStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewTransactionService creates a transaction service.
func NewTransactionService(store port.TransactionStore, metrics *observability.Metrics, logger *zap.Logger) *TransactionService {
	return &TransactionService{store: store, metrics: metrics, logger: logger}
}

// List returns the user's transactions, newest first, optionally filtered
// by category.
func (s *TransactionService) List(ctx context.Context, userID, category string) ([]domain.Transaction, error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.List")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	txs, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return txs, nil
	}

	filtered := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if strings.EqualFold(tx.Category, category) {
			filtered = append(filtered, tx)
		}
	}
	return filtered, nil
}

// Record validates and stores a transaction.
func (s *TransactionService) Record(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.Record")
	defer span.End()

	if tx.Merchant == "" {
		return nil, &domain.ErrValidation{Field: "merchant", Message: "merchant is required"}
	}
	if tx.Amount == 0 {
		return nil, &domain.ErrValidation{Field: "amount", Message: "amount must be non-zero"}
	}
	if tx.Date == "" {
		tx.Date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", tx.Date); err != nil {
		return nil, &domain.ErrValidation{Field: "date", Message: "date must be YYYY-MM-DD"}
	}
	if tx.Status == "" {
		tx.Status = domain.TxCompleted
	}

	if err := s.store.Save(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("transaction recorded",
		zap.String("txId", tx.ID),
		zap.String("userId", tx.UserID),
		zap.Float64("amount", tx.Amount))
	return tx, nil
}

// Summary aggregates the user's transaction history by count, total and
// per-category spend.
func (s *TransactionService) Summary(ctx context.Context, userID string) (*domain.TransactionSummary, error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.Summary")
	defer span.End()

	txs, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &domain.TransactionSummary{
		Count:      len(txs),
		ByCategory: make(map[string]float64),
	}
	for _, tx := range txs {
		summary.Total += tx.Amount
		summary.ByCategory[tx.Category] += tx.Amount
	}
	return summary, nil
}

// ExportCSV renders the user's full transaction history as CSV, newest
// first, matching the store's order.
func (s *TransactionService) ExportCSV(ctx context.Context, userID string) ([]byte, error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.ExportCSV")
	defer span.End()

	txs, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "date", "time", "merchant", "category", "amount", "paymentMethod", "status"}); err != nil {
		return nil, err
	}
	for _, tx := range txs {
		record := []string{
			tx.ID,
			tx.Date,
			tx.Time,
			tx.Merchant,
			tx.Category,
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			tx.PaymentMethod,
			tx.Status,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
