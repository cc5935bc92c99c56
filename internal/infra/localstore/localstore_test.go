package localstore_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/localstore"
)

func openTestKV(t *testing.T) *localstore.KV {
	t.Helper()
	kv, err := localstore.Open(filepath.Join(t.TempDir(), "wallet.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestKV_GetMissingKey(t *testing.T) {
	kv := openTestKV(t)

	raw, err := kv.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if raw != nil {
		t.Errorf("expected nil for missing key, got %q", raw)
	}
}

func TestKV_PutOverwrites(t *testing.T) {
	kv := openTestKV(t)
	ctx := context.Background()

	if err := kv.Put(ctx, "k", []byte(`"v1"`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := kv.Put(ctx, "k", []byte(`"v2"`)); err != nil {
		t.Fatalf("put again: %v", err)
	}
	raw, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(raw) != `"v2"` {
		t.Errorf("expected overwritten value, got %q", raw)
	}
}

func TestBillStore_RoundTrip(t *testing.T) {
	store := localstore.NewBillStore(openTestKV(t))
	ctx := context.Background()

	bill := &domain.Bill{
		Name:        "Electric",
		Amount:      120.50,
		DueDate:     "2026-04-01",
		Category:    domain.CategoryUtilities,
		IsRecurring: true,
		Frequency:   domain.FrequencyMonthly,
		Notes:       "autopay off",
		UserID:      "u1",
	}
	created, err := store.Add(ctx, bill)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an assigned id")
	}

	bills, err := store.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bills) != 1 {
		t.Fatalf("expected 1 bill, got %d", len(bills))
	}
	got := bills[0]
	if got.Name != "Electric" || got.Amount != 120.50 || got.Frequency != domain.FrequencyMonthly || got.Notes != "autopay off" {
		t.Errorf("bill did not survive the round trip: %+v", got)
	}
}

func TestBillStore_ListIsScopedByUser(t *testing.T) {
	store := localstore.NewBillStore(openTestKV(t))
	ctx := context.Background()

	if _, err := store.Add(ctx, &domain.Bill{Name: "A", Amount: 1, DueDate: "2026-04-01", Category: domain.CategoryOther, UserID: "u1"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := store.Add(ctx, &domain.Bill{Name: "B", Amount: 2, DueDate: "2026-04-02", Category: domain.CategoryOther, UserID: "u2"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	bills, err := store.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bills) != 1 || bills[0].Name != "A" {
		t.Errorf("expected only u1's bill, got %+v", bills)
	}
}

func TestBillStore_MarkPaidIdempotent(t *testing.T) {
	store := localstore.NewBillStore(openTestKV(t))
	ctx := context.Background()

	created, err := store.Add(ctx, &domain.Bill{Name: "Rent", Amount: 1500, DueDate: "2026-04-01", Category: domain.CategoryHousing, UserID: "u1"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := store.MarkPaid(ctx, "u1", created.ID); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if err := store.MarkPaid(ctx, "u1", created.ID); err != nil {
		t.Fatalf("second mark: %v", err)
	}

	bills, _ := store.List(ctx, "u1")
	if !bills[0].IsPaid {
		t.Error("expected bill to be paid")
	}
}

func TestBillStore_MarkPaidUnknownBill(t *testing.T) {
	store := localstore.NewBillStore(openTestKV(t))

	err := store.MarkPaid(context.Background(), "u1", "missing")
	var nfErr *domain.ErrNotFound
	if !errors.As(err, &nfErr) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestTransactionStore_NewestFirst(t *testing.T) {
	store := localstore.NewTransactionStore(openTestKV(t))
	ctx := context.Background()

	first := &domain.Transaction{Merchant: "Older", Amount: -1, Date: "2026-03-01", UserID: "u1"}
	second := &domain.Transaction{Merchant: "Newer", Amount: -2, Date: "2026-03-02", UserID: "u1"}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("save: %v", err)
	}

	txs, err := store.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].Merchant != "Newer" {
		t.Errorf("expected newest first, got %s", txs[0].Merchant)
	}
}

func TestPassStore_UpdateReplacesByID(t *testing.T) {
	store := localstore.NewPassStore(openTestKV(t))
	ctx := context.Background()

	pass := &domain.WalletPass{ID: "p1", UserID: "u1", Type: domain.PassLoyalty, Title: "Rewards", IsActive: true}
	if err := store.Save(ctx, pass); err != nil {
		t.Fatalf("save: %v", err)
	}

	pass.IsActive = false
	if err := store.Update(ctx, pass); err != nil {
		t.Fatalf("update: %v", err)
	}

	passes, _ := store.List(ctx, "u1")
	if len(passes) != 1 {
		t.Fatalf("expected 1 pass, got %d", len(passes))
	}
	if passes[0].IsActive {
		t.Error("expected the pass to be deactivated")
	}
}

func TestPassStore_UpdateUnknownPass(t *testing.T) {
	store := localstore.NewPassStore(openTestKV(t))

	err := store.Update(context.Background(), &domain.WalletPass{ID: "missing", UserID: "u1"})
	var nfErr *domain.ErrNotFound
	if !errors.As(err, &nfErr) {
		t.Errorf("expected not-found, got %v", err)
	}
}
