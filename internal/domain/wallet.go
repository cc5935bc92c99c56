package domain

// Wallet pass types.
const (
	PassLoyalty    = "loyalty"
	PassMembership = "membership"
	PassCoupon     = "coupon"
	PassEvent      = "event"
)

// PassField is one label/value pair rendered on a wallet pass.
type PassField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// WalletPass is a digital wallet pass owned by a user.
type WalletPass struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Type            string      `json:"type"`
	Title           string      `json:"title"`
	Subtitle        string      `json:"subtitle"`
	Balance         string      `json:"balance,omitempty"`
	Barcode         string      `json:"barcode"`
	BackgroundColor string      `json:"backgroundColor"`
	TextColor       string      `json:"textColor"`
	Fields          []PassField `json:"fields"`
	IsActive        bool        `json:"isActive"`
	CreatedAt       string      `json:"createdAt"`
}

// MembershipPassRequest is the payload to create a membership pass.
type MembershipPassRequest struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	MemberNumber string `json:"memberNumber"`
	ExpiryDate   string `json:"expiryDate"`
}

// EventPassRequest is the payload to create an event ticket pass.
type EventPassRequest struct {
	Name  string `json:"name"`
	Venue string `json:"venue"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Seat  string `json:"seat,omitempty"`
}
