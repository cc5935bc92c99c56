package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/observability"
)

var linkTracer = otel.Tracer("service/banklink")

// BankLinkService simulates an account-aggregation provider: link-token
// handshake, account listing, per-account transactions and sync. State is
// held in memory per process, which mirrors the sandbox behavior of real
// aggregators closely enough for the dashboard.
type BankLinkService struct {
	metrics *observability.Metrics
	logger  *zap.Logger

	mu       sync.Mutex
	accounts map[string][]domain.LinkedAccount   // userID -> accounts
	txs      map[string][]domain.LinkTransaction // accountID -> transactions
}

// NewBankLinkService creates a bank-link service.
func NewBankLinkService(metrics *observability.Metrics, logger *zap.Logger) *BankLinkService {
	return &BankLinkService{
		metrics:  metrics,
		logger:   logger,
		accounts: make(map[string][]domain.LinkedAccount),
		txs:      make(map[string][]domain.LinkTransaction),
	}
}

// CreateLinkToken starts the linking handshake. Tokens expire after 30
// minutes; expiry is advisory since the sandbox accepts any token it
// issued.
func (s *BankLinkService) CreateLinkToken(ctx context.Context, userID string) *domain.LinkToken {
	_, span := linkTracer.Start(ctx, "BankLinkService.CreateLinkToken")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	return &domain.LinkToken{
		LinkToken: "link-sandbox-" + uuid.NewString(),
		ExpiresAt: time.Now().Add(30 * time.Minute).Format(time.RFC3339),
	}
}

// seedAccounts builds the sandbox account set for a user on first access.
func (s *BankLinkService) seedAccounts(userID string) []domain.LinkedAccount {
	accounts := []domain.LinkedAccount{
		{
			ID:            "acc_1",
			Name:          "Primary Checking",
			Type:          domain.AccountChecking,
			Balance:       2450.75,
			AccountNumber: "****1234",
			RoutingNumber: "021000021",
			Institution:   "Chase Bank",
			IsConnected:   true,
		},
		{
			ID:            "acc_2",
			Name:          "Savings Account",
			Type:          domain.AccountSavings,
			Balance:       8750.20,
			AccountNumber: "****5678",
			RoutingNumber: "021000021",
			Institution:   "Chase Bank",
			IsConnected:   true,
		},
		{
			ID:            "acc_3",
			Name:          "Credit Card",
			Type:          domain.AccountCredit,
			Balance:       -1250.45,
			AccountNumber: "****4521",
			Institution:   "Chase Bank",
			IsConnected:   true,
		},
	}
	s.accounts[userID] = accounts

	today := time.Now().Format("2006-01-02")
	s.txs["acc_1"] = []domain.LinkTransaction{
		{ID: "ltx_1", AccountID: "acc_1", Amount: -4.50, Date: today, Merchant: "Starbucks", Category: "Food"},
		{ID: "ltx_2", AccountID: "acc_1", Amount: -89.99, Date: today, Merchant: "Amazon", Category: "Shopping"},
		{ID: "ltx_3", AccountID: "acc_1", Amount: -45.20, Date: today, Merchant: "Shell", Category: "Transportation"},
	}
	return accounts
}

// ListAccounts returns the user's linked accounts.
func (s *BankLinkService) ListAccounts(ctx context.Context, userID string) []domain.LinkedAccount {
	_, span := linkTracer.Start(ctx, "BankLinkService.ListAccounts")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, ok := s.accounts[userID]
	if !ok {
		accounts = s.seedAccounts(userID)
	}
	return accounts
}

// AccountTransactions returns the transactions of one linked account.
func (s *BankLinkService) AccountTransactions(ctx context.Context, userID, accountID string) ([]domain.LinkTransaction, error) {
	_, span := linkTracer.Start(ctx, "BankLinkService.AccountTransactions")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[userID]; !ok {
		s.seedAccounts(userID)
	}

	if !s.ownsAccountLocked(userID, accountID) {
		return nil, &domain.ErrNotFound{Resource: "account", ID: accountID}
	}
	return s.txs[accountID], nil
}

// Sync pulls fresh transactions from the institution. The sandbox appends
// one new transaction per sync and reports the pull count.
func (s *BankLinkService) Sync(ctx context.Context, userID, accountID string) (int, error) {
	_, span := linkTracer.Start(ctx, "BankLinkService.Sync")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[userID]; !ok {
		s.seedAccounts(userID)
	}
	if !s.ownsAccountLocked(userID, accountID) {
		return 0, &domain.ErrNotFound{Resource: "account", ID: accountID}
	}

	fresh := domain.LinkTransaction{
		ID:        fmt.Sprintf("ltx_%s", uuid.NewString()[:8]),
		AccountID: accountID,
		Amount:    -12.50,
		Date:      time.Now().Format("2006-01-02"),
		Merchant:  "Local Cafe",
		Category:  "Food",
	}
	s.txs[accountID] = append([]domain.LinkTransaction{fresh}, s.txs[accountID]...)

	s.logger.Info("account synced",
		zap.String("accountId", accountID),
		zap.String("userId", userID))
	return 1, nil
}

// ownsAccountLocked reports whether accountID belongs to userID. The
// caller must hold s.mu.
func (s *BankLinkService) ownsAccountLocked(userID, accountID string) bool {
	for _, acc := range s.accounts[userID] {
		if acc.ID == accountID {
			return true
		}
	}
	return false
}
