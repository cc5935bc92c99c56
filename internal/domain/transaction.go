package domain

// Transaction statuses.
const (
	TxCompleted = "completed"
	TxPending   = "pending"
	TxFailed    = "failed"
)

// Transaction is a single dashboard transaction scoped to a user.
type Transaction struct {
	ID            string   `json:"id"`
	Merchant      string   `json:"merchant"`
	Amount        float64  `json:"amount"`
	Category      string   `json:"category"`
	Date          string   `json:"date"`
	Time          string   `json:"time,omitempty"`
	PaymentMethod string   `json:"paymentMethod,omitempty"`
	Status        string   `json:"status"`
	HasReceipt    bool     `json:"hasReceipt"`
	Items         []string `json:"items,omitempty"`
	UserID        string   `json:"userId"`
}

// TransactionSummary aggregates a user's transaction history.
type TransactionSummary struct {
	Count      int                `json:"count"`
	Total      float64            `json:"total"`
	ByCategory map[string]float64 `json:"byCategory"`
}
