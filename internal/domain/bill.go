package domain

// ============================================================
// Bills & Reminders
// ============================================================

// Bill frequency values (only meaningful when IsRecurring is true).
const (
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyYearly    = "yearly"
)

// Bill categories (closed set).
const (
	CategoryUtilities     = "Utilities"
	CategoryInsurance     = "Insurance"
	CategoryEntertainment = "Entertainment"
	CategoryTaxes         = "Taxes"
	CategoryHealthcare    = "Healthcare"
	CategoryHousing       = "Housing"
	CategorySubscriptions = "Subscriptions"
	CategoryOther         = "Other"
)

// BillCategories lists every accepted bill category.
var BillCategories = []string{
	CategoryUtilities,
	CategoryInsurance,
	CategoryEntertainment,
	CategoryTaxes,
	CategoryHealthcare,
	CategoryHousing,
	CategorySubscriptions,
	CategoryOther,
}

// Bill is a user-owed payment obligation with a due date and paid status.
// DueDate is a calendar date (YYYY-MM-DD, no time component).
type Bill struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	DueDate       string  `json:"dueDate"`
	Category      string  `json:"category"`
	IsRecurring   bool    `json:"isRecurring"`
	Frequency     string  `json:"frequency,omitempty"`
	IsPaid        bool    `json:"isPaid"`
	PaymentMethod string  `json:"paymentMethod,omitempty"`
	Notes         string  `json:"notes,omitempty"`
	UserID        string  `json:"userId"`
}

// Reminder types. ReminderPaid is declared for API compatibility but the
// classifier never produces it.
const (
	ReminderDueSoon = "due_soon"
	ReminderOverdue = "overdue"
	ReminderPaid    = "paid"
)

// Reminder is an ephemeral notice derived from an unpaid bill's due-date
// proximity. Reminders are recomputed on every pass from the current bill
// list and wall clock; they are never persisted.
type Reminder struct {
	ID           string `json:"id"`
	BillID       string `json:"billId"`
	ReminderDate string `json:"reminderDate"`
	Type         string `json:"type"`
	Message      string `json:"message"`
}
