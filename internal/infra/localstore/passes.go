package localstore

import (
	"context"
	"fmt"

	"github.com/smartwallet/bff-go/internal/domain"
)

// PassStore implements port.PassStore on top of the KV store.
// Passes live under "passes:<userId>".
type PassStore struct {
	kv *KV
}

// NewPassStore wraps the KV store with the wallet-pass adapter.
func NewPassStore(kv *KV) *PassStore {
	return &PassStore{kv: kv}
}

func passesKey(userID string) string {
	return fmt.Sprintf("passes:%s", userID)
}

// List returns all of the user's passes, active or not.
func (s *PassStore) List(ctx context.Context, userID string) ([]domain.WalletPass, error) {
	ctx, span := tracer.Start(ctx, "PassStore.List")
	defer span.End()

	return getCollection[domain.WalletPass](ctx, s.kv, passesKey(userID))
}

// Save appends a pass to the user's collection.
func (s *PassStore) Save(ctx context.Context, pass *domain.WalletPass) error {
	ctx, span := tracer.Start(ctx, "PassStore.Save")
	defer span.End()

	passes, err := getCollection[domain.WalletPass](ctx, s.kv, passesKey(pass.UserID))
	if err != nil {
		return err
	}
	passes = append(passes, *pass)

	return putCollection(ctx, s.kv, passesKey(pass.UserID), passes)
}

// Update replaces the stored pass with the same id.
func (s *PassStore) Update(ctx context.Context, pass *domain.WalletPass) error {
	ctx, span := tracer.Start(ctx, "PassStore.Update")
	defer span.End()

	passes, err := getCollection[domain.WalletPass](ctx, s.kv, passesKey(pass.UserID))
	if err != nil {
		return err
	}

	found := false
	for i := range passes {
		if passes[i].ID == pass.ID {
			passes[i] = *pass
			found = true
		}
	}
	if !found {
		return &domain.ErrNotFound{Resource: "pass", ID: pass.ID}
	}

	return putCollection(ctx, s.kv, passesKey(pass.UserID), passes)
}
