package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/observability"
	"github.com/smartwallet/bff-go/internal/service"
)

func newTxService(store *mockTxStore) *service.TransactionService {
	return service.NewTransactionService(store, observability.NewMetrics(), zap.NewNop())
}

func TestRecord_Validation(t *testing.T) {
	svc := newTxService(&mockTxStore{})

	cases := []struct {
		name string
		tx   domain.Transaction
	}{
		{"missing merchant", domain.Transaction{Amount: -10}},
		{"zero amount", domain.Transaction{Merchant: "Shop"}},
		{"bad date", domain.Transaction{Merchant: "Shop", Amount: -10, Date: "yesterday"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := tc.tx
			_, err := svc.Record(context.Background(), &tx)
			var vErr *domain.ErrValidation
			if !errors.As(err, &vErr) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRecord_DefaultsStatusAndDate(t *testing.T) {
	svc := newTxService(&mockTxStore{})

	tx := domain.Transaction{Merchant: "Shop", Amount: -10, UserID: "u1"}
	recorded, err := svc.Record(context.Background(), &tx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if recorded.Status != domain.TxCompleted {
		t.Errorf("expected default status completed, got %s", recorded.Status)
	}
	if recorded.Date == "" {
		t.Error("expected a defaulted date")
	}
}

func TestSummary_AggregatesByCategory(t *testing.T) {
	store := &mockTxStore{txs: []domain.Transaction{
		{ID: "t1", Merchant: "Starbucks", Amount: -4.50, Category: "Food", UserID: "u1"},
		{ID: "t2", Merchant: "Chipotle", Amount: -12.00, Category: "Food", UserID: "u1"},
		{ID: "t3", Merchant: "Shell", Amount: -45.20, Category: "Transportation", UserID: "u1"},
	}}
	svc := newTxService(store)

	summary, err := svc.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.Count != 3 {
		t.Errorf("expected count 3, got %d", summary.Count)
	}
	if summary.ByCategory["Food"] != -16.50 {
		t.Errorf("expected Food total -16.50, got %f", summary.ByCategory["Food"])
	}
}

func TestList_FiltersByCategory(t *testing.T) {
	store := &mockTxStore{txs: []domain.Transaction{
		{ID: "t1", Merchant: "Starbucks", Amount: -4.50, Category: "Food", UserID: "u1"},
		{ID: "t2", Merchant: "Shell", Amount: -45.20, Category: "Transportation", UserID: "u1"},
	}}
	svc := newTxService(store)

	txs, err := svc.List(context.Background(), "u1", "food")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(txs) != 1 || txs[0].Merchant != "Starbucks" {
		t.Errorf("expected only the Food transaction, got %+v", txs)
	}
}

func TestExportCSV(t *testing.T) {
	store := &mockTxStore{txs: []domain.Transaction{
		{ID: "t1", Merchant: "Starbucks", Amount: -4.50, Category: "Food", Date: "2026-03-09", Status: domain.TxCompleted, UserID: "u1"},
	}}
	svc := newTxService(store)

	out, err := svc.ExportCSV(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,date,time,merchant") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Starbucks") || !strings.Contains(lines[1], "-4.50") {
		t.Errorf("unexpected row: %q", lines[1])
	}
}
