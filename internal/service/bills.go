package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/observability"
	"github.com/smartwallet/bff-go/internal/port"
)

var billTracer = otel.Tracer("service/bills")

// BillService manages a user's bills and derives their reminders.
type BillService struct {
	store     port.BillStore
	scheduler *ReminderScheduler
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewBillService creates a new bill service.
func NewBillService(store port.BillStore, scheduler *ReminderScheduler, metrics *observability.Metrics, logger *zap.Logger) *BillService {
	return &BillService{store: store, scheduler: scheduler, metrics: metrics, logger: logger}
}

// List returns every bill for userID.
func (s *BillService) List(ctx context.Context, userID string) ([]domain.Bill, error) {
	ctx, span := billTracer.Start(ctx, "BillService.List")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	return s.store.List(ctx, userID)
}

// Add validates and stores a new bill, then runs a reminder pass so a
// bill due soon is scheduled right away.
func (s *BillService) Add(ctx context.Context, bill *domain.Bill) (*domain.Bill, error) {
	ctx, span := billTracer.Start(ctx, "BillService.Add")
	defer span.End()

	if err := validateBill(bill); err != nil {
		return nil, err
	}

	created, err := s.store.Add(ctx, bill)
	if err != nil {
		return nil, err
	}

	s.logger.Info("bill added",
		zap.String("billId", created.ID),
		zap.String("userId", created.UserID),
		zap.String("dueDate", created.DueDate))

	s.scheduler.CheckAndSchedule(ctx, created.UserID)
	return created, nil
}

// MarkPaid flips a bill to paid and cancels its pending reminder. Marking
// an already-paid bill succeeds without effect.
func (s *BillService) MarkPaid(ctx context.Context, userID, billID string) error {
	ctx, span := billTracer.Start(ctx, "BillService.MarkPaid")
	defer span.End()
	span.SetAttributes(attribute.String("bill.id", billID))

	if err := s.store.MarkPaid(ctx, userID, billID); err != nil {
		return err
	}

	s.scheduler.Cancel(billID)
	s.logger.Info("bill marked paid",
		zap.String("billId", billID),
		zap.String("userId", userID))
	return nil
}

// Reminders classifies the user's bills and schedules upcoming deliveries.
func (s *BillService) Reminders(ctx context.Context, userID string) []domain.Reminder {
	ctx, span := billTracer.Start(ctx, "BillService.Reminders")
	defer span.End()

	return s.scheduler.CheckAndSchedule(ctx, userID)
}

func validateBill(bill *domain.Bill) error {
	if bill.Name == "" {
		return &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	if bill.Amount <= 0 {
		return &domain.ErrValidation{Field: "amount", Message: "amount must be positive"}
	}
	if _, err := time.Parse("2006-01-02", bill.DueDate); err != nil {
		return &domain.ErrValidation{Field: "dueDate", Message: "dueDate must be YYYY-MM-DD"}
	}
	if !validCategory(bill.Category) {
		return &domain.ErrValidation{Field: "category", Message: "unknown category"}
	}
	if bill.IsRecurring {
		switch bill.Frequency {
		case domain.FrequencyMonthly, domain.FrequencyQuarterly, domain.FrequencyYearly:
		default:
			return &domain.ErrValidation{Field: "frequency", Message: "recurring bills require a frequency of monthly, quarterly or yearly"}
		}
	}
	return nil
}

func validCategory(category string) bool {
	for _, c := range domain.BillCategories {
		if c == category {
			return true
		}
	}
	return false
}
