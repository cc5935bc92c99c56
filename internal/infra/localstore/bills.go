package localstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/port"
)

var tracer = otel.Tracer("localstore")

// Ensure the adapters satisfy their ports.
var (
	_ port.BillStore        = (*BillStore)(nil)
	_ port.TransactionStore = (*TransactionStore)(nil)
	_ port.PassStore        = (*PassStore)(nil)
)

// BillStore implements port.BillStore on top of the KV store.
// Bills live under "bills:<userId>".
type BillStore struct {
	kv *KV
}

// NewBillStore wraps the KV store with the bill collection adapter.
func NewBillStore(kv *KV) *BillStore {
	return &BillStore{kv: kv}
}

func billsKey(userID string) string {
	return fmt.Sprintf("bills:%s", userID)
}

// List returns all bills for the user, in insertion order.
func (s *BillStore) List(ctx context.Context, userID string) ([]domain.Bill, error) {
	ctx, span := tracer.Start(ctx, "BillStore.List")
	defer span.End()

	return getCollection[domain.Bill](ctx, s.kv, billsKey(userID))
}

// Add appends a bill to the user's collection, assigning an id when absent.
func (s *BillStore) Add(ctx context.Context, bill *domain.Bill) (*domain.Bill, error) {
	ctx, span := tracer.Start(ctx, "BillStore.Add")
	defer span.End()

	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}

	bills, err := getCollection[domain.Bill](ctx, s.kv, billsKey(bill.UserID))
	if err != nil {
		return nil, err
	}
	bills = append(bills, *bill)

	if err := putCollection(ctx, s.kv, billsKey(bill.UserID), bills); err != nil {
		return nil, err
	}
	return bill, nil
}

// MarkPaid flips the bill's isPaid flag to true. Marking an already-paid
// bill is a harmless no-op, so concurrent calls are idempotent.
func (s *BillStore) MarkPaid(ctx context.Context, userID, billID string) error {
	ctx, span := tracer.Start(ctx, "BillStore.MarkPaid")
	defer span.End()

	bills, err := getCollection[domain.Bill](ctx, s.kv, billsKey(userID))
	if err != nil {
		return err
	}

	found := false
	for i := range bills {
		if bills[i].ID == billID {
			bills[i].IsPaid = true
			found = true
		}
	}
	if !found {
		return &domain.ErrNotFound{Resource: "bill", ID: billID}
	}

	return putCollection(ctx, s.kv, billsKey(userID), bills)
}
