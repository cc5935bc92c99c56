package service_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/observability"
	"github.com/smartwallet/bff-go/internal/service"
)

// --- Mocks ---

type mockBillStore struct {
	bills     []domain.Bill
	markPaids int
	listErr   error
}

func (m *mockBillStore) List(_ context.Context, userID string) ([]domain.Bill, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Bill, 0)
	for _, b := range m.bills {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBillStore) Add(_ context.Context, bill *domain.Bill) (*domain.Bill, error) {
	bill.ID = "generated-id"
	m.bills = append(m.bills, *bill)
	return bill, nil
}

func (m *mockBillStore) MarkPaid(_ context.Context, userID, billID string) error {
	for i := range m.bills {
		if m.bills[i].UserID == userID && m.bills[i].ID == billID {
			m.markPaids++
			m.bills[i].IsPaid = true
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "bill", ID: billID}
}

type noopSink struct{}

func (noopSink) Setup(_ context.Context) error                { return nil }
func (noopSink) Send(_ context.Context, _, _, _ string) error { return nil }

func newBillService(store *mockBillStore) *service.BillService {
	metrics := observability.NewMetrics()
	logger := zap.NewNop()
	scheduler := service.NewReminderScheduler(store, noopSink{}, metrics, logger)
	return service.NewBillService(store, scheduler, metrics, logger)
}

// --- Tests ---

func TestBillService_AddValidation(t *testing.T) {
	svc := newBillService(&mockBillStore{})

	cases := []struct {
		name string
		bill domain.Bill
	}{
		{"missing name", domain.Bill{Amount: 50, DueDate: "2026-04-01", Category: domain.CategoryUtilities}},
		{"zero amount", domain.Bill{Name: "Electric", DueDate: "2026-04-01", Category: domain.CategoryUtilities}},
		{"negative amount", domain.Bill{Name: "Electric", Amount: -5, DueDate: "2026-04-01", Category: domain.CategoryUtilities}},
		{"bad due date", domain.Bill{Name: "Electric", Amount: 50, DueDate: "04/01/2026", Category: domain.CategoryUtilities}},
		{"unknown category", domain.Bill{Name: "Electric", Amount: 50, DueDate: "2026-04-01", Category: "Groceries"}},
		{"recurring without frequency", domain.Bill{Name: "Electric", Amount: 50, DueDate: "2026-04-01", Category: domain.CategoryUtilities, IsRecurring: true}},
		{"recurring with bad frequency", domain.Bill{Name: "Electric", Amount: 50, DueDate: "2026-04-01", Category: domain.CategoryUtilities, IsRecurring: true, Frequency: "weekly"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bill := tc.bill
			_, err := svc.Add(context.Background(), &bill)
			var vErr *domain.ErrValidation
			if !errors.As(err, &vErr) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestBillService_AddAssignsID(t *testing.T) {
	store := &mockBillStore{}
	svc := newBillService(store)

	bill := domain.Bill{
		Name:     "Internet",
		Amount:   79.99,
		DueDate:  "2026-04-15",
		Category: domain.CategoryUtilities,
		UserID:   "u1",
	}
	created, err := svc.Add(context.Background(), &bill)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.ID == "" {
		t.Error("expected an assigned id")
	}
	if len(store.bills) != 1 {
		t.Errorf("expected 1 stored bill, got %d", len(store.bills))
	}
}

func TestBillService_AddAcceptsRecurringFrequencies(t *testing.T) {
	svc := newBillService(&mockBillStore{})

	for _, freq := range []string{domain.FrequencyMonthly, domain.FrequencyQuarterly, domain.FrequencyYearly} {
		bill := domain.Bill{
			Name:        "Gym",
			Amount:      30,
			DueDate:     "2026-04-15",
			Category:    domain.CategorySubscriptions,
			IsRecurring: true,
			Frequency:   freq,
			UserID:      "u1",
		}
		if _, err := svc.Add(context.Background(), &bill); err != nil {
			t.Errorf("frequency %s: expected no error, got %v", freq, err)
		}
	}
}

func TestBillService_MarkPaidIdempotent(t *testing.T) {
	store := &mockBillStore{bills: []domain.Bill{
		{ID: "b1", Name: "Electric", Amount: 50, DueDate: "2026-04-01", Category: domain.CategoryUtilities, UserID: "u1"},
	}}
	svc := newBillService(store)

	if err := svc.MarkPaid(context.Background(), "u1", "b1"); err != nil {
		t.Fatalf("first mark: expected no error, got %v", err)
	}
	if err := svc.MarkPaid(context.Background(), "u1", "b1"); err != nil {
		t.Fatalf("second mark: expected no error, got %v", err)
	}
	if !store.bills[0].IsPaid {
		t.Error("expected bill to stay paid")
	}
}

func TestBillService_MarkPaidUnknownBill(t *testing.T) {
	svc := newBillService(&mockBillStore{})

	err := svc.MarkPaid(context.Background(), "u1", "missing")
	var nfErr *domain.ErrNotFound
	if !errors.As(err, &nfErr) {
		t.Errorf("expected not-found error, got %v", err)
	}
}
