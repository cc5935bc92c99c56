package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/observability"
)

// --- Mocks ---

type stubBillStore struct {
	bills []domain.Bill
	err   error
}

func (s *stubBillStore) List(_ context.Context, _ string) ([]domain.Bill, error) {
	return s.bills, s.err
}

func (s *stubBillStore) Add(_ context.Context, bill *domain.Bill) (*domain.Bill, error) {
	return bill, nil
}

func (s *stubBillStore) MarkPaid(_ context.Context, _, _ string) error {
	return nil
}

type stubSink struct {
	mu   sync.Mutex
	sent []string
}

func (s *stubSink) Setup(_ context.Context) error { return nil }

func (s *stubSink) Send(_ context.Context, _, _, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, tag)
	return nil
}

// --- Classifier ---

func TestClassifyBill_PaidBillsProduceNothing(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	bill := domain.Bill{ID: "b1", Name: "Electric", DueDate: "2026-03-01", IsPaid: true}

	if r := ClassifyBill(bill, now); r != nil {
		t.Errorf("expected nil reminder for paid bill, got %+v", r)
	}
}

func TestClassifyBill_Overdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	bill := domain.Bill{ID: "b1", Name: "Electric", DueDate: "2026-03-05"}

	r := ClassifyBill(bill, now)
	if r == nil {
		t.Fatal("expected overdue reminder, got nil")
	}
	if r.Type != domain.ReminderOverdue {
		t.Errorf("expected type overdue, got %s", r.Type)
	}
	if r.Message != "Electric is 5 days overdue" {
		t.Errorf("unexpected message: %q", r.Message)
	}
	if r.ID != "reminder_b1" {
		t.Errorf("expected id reminder_b1, got %s", r.ID)
	}
	if r.ReminderDate != "2026-03-05" {
		t.Errorf("expected reminder date 2026-03-05, got %s", r.ReminderDate)
	}
}

func TestClassifyBill_DueSoonWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		dueDate  string
		wantType string
		wantMsg  string
	}{
		{"due today", "2026-03-10", domain.ReminderDueSoon, "Rent is due in 0 days"},
		{"due tomorrow", "2026-03-11", domain.ReminderDueSoon, "Rent is due in 1 days"},
		{"due in three days", "2026-03-13", domain.ReminderDueSoon, "Rent is due in 3 days"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bill := domain.Bill{ID: "b1", Name: "Rent", DueDate: tc.dueDate}
			r := ClassifyBill(bill, now)
			if r == nil {
				t.Fatal("expected reminder, got nil")
			}
			if r.Type != tc.wantType {
				t.Errorf("expected type %s, got %s", tc.wantType, r.Type)
			}
			if r.Message != tc.wantMsg {
				t.Errorf("expected message %q, got %q", tc.wantMsg, r.Message)
			}
		})
	}
}

func TestClassifyBill_BeyondWindowProducesNothing(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	bill := domain.Bill{ID: "b1", Name: "Insurance", DueDate: "2026-03-14"}

	if r := ClassifyBill(bill, now); r != nil {
		t.Errorf("expected nil reminder 4 days out, got %+v", r)
	}
}

func TestClassifyBill_DueTomorrowCountsAsOneAllDay(t *testing.T) {
	// Whether it is 00:01 or 23:59, a bill due tomorrow stays 1 day away.
	bill := domain.Bill{ID: "b1", Name: "Water", DueDate: "2026-03-11"}

	for _, hour := range []int{0, 12, 23} {
		now := time.Date(2026, 3, 10, hour, 30, 0, 0, time.UTC)
		r := ClassifyBill(bill, now)
		if r == nil {
			t.Fatalf("expected reminder at hour %d, got nil", hour)
		}
		if r.Message != "Water is due in 1 days" {
			t.Errorf("at hour %d expected 1 day away, got %q", hour, r.Message)
		}
	}
}

func TestClassifyBill_UnparseableDueDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	bill := domain.Bill{ID: "b1", Name: "Broken", DueDate: "03/10/2026"}

	if r := ClassifyBill(bill, now); r != nil {
		t.Errorf("expected nil reminder for bad date, got %+v", r)
	}
}

// --- Scheduler ---

func newTestScheduler(store *stubBillStore, sink *stubSink, now time.Time) *ReminderScheduler {
	s := NewReminderScheduler(store, sink, observability.NewMetrics(), zap.NewNop())
	s.now = func() time.Time { return now }
	return s
}

func TestScheduler_SchedulesFutureReminders(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := &stubBillStore{bills: []domain.Bill{
		{ID: "b1", Name: "Rent", DueDate: "2026-03-12", UserID: "u1"},
	}}
	s := newTestScheduler(store, &stubSink{}, now)
	defer s.Stop()

	reminders := s.CheckAndSchedule(context.Background(), "u1")
	if len(reminders) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(reminders))
	}

	s.mu.Lock()
	_, armed := s.timers["b1"]
	s.mu.Unlock()
	if !armed {
		t.Error("expected a timer armed for b1")
	}
}

func TestScheduler_PastReminderDateGetsNoTimer(t *testing.T) {
	// Overdue bills and bills due today have a reminder date at or before
	// the current moment; they surface in the list but arm no timer.
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := &stubBillStore{bills: []domain.Bill{
		{ID: "b1", Name: "Electric", DueDate: "2026-03-05", UserID: "u1"},
		{ID: "b2", Name: "Water", DueDate: "2026-03-10", UserID: "u1"},
	}}
	s := newTestScheduler(store, &stubSink{}, now)
	defer s.Stop()

	reminders := s.CheckAndSchedule(context.Background(), "u1")
	if len(reminders) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(reminders))
	}

	s.mu.Lock()
	count := len(s.timers)
	s.mu.Unlock()
	if count != 0 {
		t.Errorf("expected no timers armed, got %d", count)
	}
}

func TestScheduler_CancelDisarmsTimer(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := &stubBillStore{bills: []domain.Bill{
		{ID: "b1", Name: "Rent", DueDate: "2026-03-12", UserID: "u1"},
	}}
	s := newTestScheduler(store, &stubSink{}, now)
	defer s.Stop()

	s.CheckAndSchedule(context.Background(), "u1")
	s.Cancel("b1")

	s.mu.Lock()
	_, armed := s.timers["b1"]
	s.mu.Unlock()
	if armed {
		t.Error("expected timer for b1 to be cancelled")
	}
}

func TestScheduler_StoreErrorYieldsEmptyList(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := &stubBillStore{err: errors.New("disk gone")}
	s := newTestScheduler(store, &stubSink{}, now)
	defer s.Stop()

	reminders := s.CheckAndSchedule(context.Background(), "u1")
	if reminders == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(reminders) != 0 {
		t.Errorf("expected no reminders on store error, got %d", len(reminders))
	}
}

func TestScheduler_RescheduleReplacesTimer(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := &stubBillStore{bills: []domain.Bill{
		{ID: "b1", Name: "Rent", DueDate: "2026-03-12", UserID: "u1"},
	}}
	s := newTestScheduler(store, &stubSink{}, now)
	defer s.Stop()

	s.CheckAndSchedule(context.Background(), "u1")
	s.CheckAndSchedule(context.Background(), "u1")

	s.mu.Lock()
	count := len(s.timers)
	s.mu.Unlock()
	if count != 1 {
		t.Errorf("expected exactly 1 timer after reschedule, got %d", count)
	}
}
