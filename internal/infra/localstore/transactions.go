package localstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/smartwallet/bff-go/internal/domain"
)

// TransactionStore implements port.TransactionStore on top of the KV store.
// Transactions live under "transactions:<userId>", newest first.
type TransactionStore struct {
	kv *KV
}

// NewTransactionStore wraps the KV store with the transaction adapter.
func NewTransactionStore(kv *KV) *TransactionStore {
	return &TransactionStore{kv: kv}
}

func transactionsKey(userID string) string {
	return fmt.Sprintf("transactions:%s", userID)
}

// List returns the user's transaction history, newest first.
func (s *TransactionStore) List(ctx context.Context, userID string) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "TransactionStore.List")
	defer span.End()

	return getCollection[domain.Transaction](ctx, s.kv, transactionsKey(userID))
}

// Save prepends a transaction to the user's history.
func (s *TransactionStore) Save(ctx context.Context, tx *domain.Transaction) error {
	ctx, span := tracer.Start(ctx, "TransactionStore.Save")
	defer span.End()

	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}

	existing, err := getCollection[domain.Transaction](ctx, s.kv, transactionsKey(tx.UserID))
	if err != nil {
		return err
	}
	updated := append([]domain.Transaction{*tx}, existing...)

	return putCollection(ctx, s.kv, transactionsKey(tx.UserID), updated)
}
