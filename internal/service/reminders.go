// Package service provides the business logic layer (use cases).
package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/observability"
	"github.com/smartwallet/bff-go/internal/port"
)

var reminderTracer = otel.Tracer("service/reminders")

// dueSoonWindowDays is the inclusive upper bound for a "due soon" reminder.
const dueSoonWindowDays = 3

// ClassifyBill derives the reminder for one bill relative to now, or nil
// when the bill needs none. The rules:
//
//   - paid bills never produce a reminder
//   - bills overdue (due-date midnight already past) produce an overdue
//     reminder
//   - bills due within the next 3 days (inclusive, counting today as 0)
//     produce a due-soon reminder
//   - anything further out produces nothing
//
// The day distance is the ceiling of the time between now and the due
// date's local midnight, so a bill due tomorrow counts as 1 day away all
// of today, not just for the next 24 hours.
func ClassifyBill(bill domain.Bill, now time.Time) *domain.Reminder {
	if bill.IsPaid {
		return nil
	}

	due, err := time.ParseInLocation("2006-01-02", bill.DueDate, now.Location())
	if err != nil {
		return nil
	}

	daysDiff := int(math.Ceil(due.Sub(now).Hours() / 24))

	switch {
	case daysDiff < 0:
		return &domain.Reminder{
			ID:           "reminder_" + bill.ID,
			BillID:       bill.ID,
			ReminderDate: bill.DueDate,
			Type:         domain.ReminderOverdue,
			Message:      fmt.Sprintf("%s is %d days overdue", bill.Name, -daysDiff),
		}
	case daysDiff <= dueSoonWindowDays:
		return &domain.Reminder{
			ID:           "reminder_" + bill.ID,
			BillID:       bill.ID,
			ReminderDate: bill.DueDate,
			Type:         domain.ReminderDueSoon,
			Message:      fmt.Sprintf("%s is due in %d days", bill.Name, daysDiff),
		}
	default:
		return nil
	}
}

// ReminderScheduler turns upcoming reminders into scheduled notification
// deliveries. Timers are keyed by bill ID so that paying a bill cancels
// its pending delivery.
type ReminderScheduler struct {
	store   port.BillStore
	sink    port.NotificationSink
	metrics *observability.Metrics
	logger  *zap.Logger

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewReminderScheduler creates a scheduler delivering through sink.
func NewReminderScheduler(store port.BillStore, sink port.NotificationSink, metrics *observability.Metrics, logger *zap.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		store:   store,
		sink:    sink,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
		timers:  make(map[string]*time.Timer),
	}
}

// CheckAndSchedule classifies every bill for userID and schedules a
// notification for each resulting reminder. It returns the reminders it
// derived. A store read failure is logged and yields an empty list rather
// than an error: the reminder pass is advisory and must never break the
// dashboard.
func (s *ReminderScheduler) CheckAndSchedule(ctx context.Context, userID string) []domain.Reminder {
	ctx, span := reminderTracer.Start(ctx, "ReminderScheduler.CheckAndSchedule")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	bills, err := s.store.List(ctx, userID)
	if err != nil {
		s.logger.Error("reminder pass could not read bills",
			zap.String("userId", userID),
			zap.Error(err))
		return []domain.Reminder{}
	}

	now := s.now()
	reminders := make([]domain.Reminder, 0)
	for _, bill := range bills {
		r := ClassifyBill(bill, now)
		if r == nil {
			continue
		}
		reminders = append(reminders, *r)
		s.schedule(bill.ID, *r, now)
	}

	span.SetAttributes(attribute.Int("reminders.count", len(reminders)))
	return reminders
}

// schedule arms a timer firing at the reminder date's local midnight.
// Rescheduling the same bill replaces the existing timer.
func (s *ReminderScheduler) schedule(billID string, r domain.Reminder, now time.Time) {
	target, err := time.ParseInLocation("2006-01-02", r.ReminderDate, now.Location())
	if err != nil {
		s.logger.Warn("unparseable reminder date",
			zap.String("billId", billID),
			zap.String("date", r.ReminderDate))
		return
	}

	delay := target.Sub(now)
	if delay <= 0 {
		// A reminder whose date has already passed (overdue bills, and
		// due-soon bills on their due day) gets no timer at all, so it is
		// only ever surfaced through the reminder list, never pushed.
		// TODO: deliver these immediately instead of dropping them.
		s.metrics.IncrReminder("skipped")
		return
	}

	s.mu.Lock()
	if prev, ok := s.timers[billID]; ok {
		prev.Stop()
	}
	s.timers[billID] = time.AfterFunc(delay, func() {
		s.deliver(billID, r)
	})
	s.mu.Unlock()

	s.metrics.IncrReminder("scheduled")
	s.logger.Debug("reminder scheduled",
		zap.String("billId", billID),
		zap.Duration("delay", delay))
}

func (s *ReminderScheduler) deliver(billID string, r domain.Reminder) {
	s.mu.Lock()
	delete(s.timers, billID)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.sink.Send(ctx, "Bill Reminder", r.Message, r.ID); err != nil {
		s.metrics.IncrNotification("failed")
		s.logger.Warn("reminder delivery failed",
			zap.String("billId", billID),
			zap.Error(err))
		return
	}
	s.metrics.IncrNotification("delivered")
}

// Cancel stops the pending reminder for billID, if any. Called when a
// bill is marked paid.
func (s *ReminderScheduler) Cancel(billID string) {
	s.mu.Lock()
	timer, ok := s.timers[billID]
	if ok {
		timer.Stop()
		delete(s.timers, billID)
	}
	s.mu.Unlock()

	if ok {
		s.metrics.IncrReminder("cancelled")
		s.logger.Debug("reminder cancelled", zap.String("billId", billID))
	}
}

// Stop cancels every pending timer. Called on shutdown.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}
