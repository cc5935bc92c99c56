package domain

// Linked account types.
const (
	AccountChecking = "checking"
	AccountSavings  = "savings"
	AccountCredit   = "credit"
)

// LinkedAccount is a bank account available through the linking flow.
type LinkedAccount struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Balance       float64 `json:"balance"`
	AccountNumber string  `json:"accountNumber"`
	RoutingNumber string  `json:"routingNumber,omitempty"`
	Institution   string  `json:"institution"`
	IsConnected   bool    `json:"isConnected"`
}

// LinkTransaction is a transaction pulled from a linked account.
type LinkTransaction struct {
	ID          string  `json:"id"`
	AccountID   string  `json:"accountId"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Merchant    string  `json:"merchant"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Pending     bool    `json:"pending"`
}

// LinkToken is the token pair from the account-linking handshake.
type LinkToken struct {
	LinkToken string `json:"linkToken"`
	ExpiresAt string `json:"expiresAt"`
}
