package domain

// ============================================================
// Generative-AI assistant
// ============================================================

// TokenUsage reports LLM token consumption for one generation.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// AgentReply is the raw output of one text-generation call. Callers must not
// assume Text is valid JSON, even when the prompt asked for JSON.
type AgentReply struct {
	Text  string     `json:"text"`
	Usage TokenUsage `json:"usage"`
}

// Insight severity values.
const (
	InsightWarning = "warning"
	InsightSuccess = "success"
	InsightInfo    = "info"
)

// Insight is one finding inside a spending analysis.
type Insight struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// SpendingTrend describes the direction of one spending category.
type SpendingTrend struct {
	Category   string  `json:"category"`
	Trend      string  `json:"trend"` // up, down, stable
	Percentage float64 `json:"percentage"`
}

// SpendingAnalysis is the structured result of the spending-patterns
// analysis endpoint.
type SpendingAnalysis struct {
	FinancialScore  int             `json:"financialScore"`
	Insights        []Insight       `json:"insights"`
	Recommendations []string        `json:"recommendations"`
	SpendingTrends  []SpendingTrend `json:"spendingTrends"`
}

// BudgetRecommendation suggests a monthly limit for one category.
type BudgetRecommendation struct {
	Category  string  `json:"category"`
	Suggested float64 `json:"suggested"`
	Current   float64 `json:"current"`
	Reasoning string  `json:"reasoning"`
}

// BudgetPlan is the structured result of the budget-recommendation endpoint.
type BudgetPlan struct {
	Recommendations []BudgetRecommendation `json:"recommendations"`
	SavingsGoal     float64                `json:"savingsGoal"`
	EmergencyFund   float64                `json:"emergencyFund"`
	OverallAdvice   string                 `json:"overallAdvice"`
}

// ReceiptItem is one line item extracted from receipt text.
type ReceiptItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// ReceiptExtraction is structured data pulled out of OCR'd receipt text.
type ReceiptExtraction struct {
	Merchant      string        `json:"merchant"`
	Date          string        `json:"date"`
	Total         float64       `json:"total"`
	Tax           float64       `json:"tax"`
	Subtotal      float64       `json:"subtotal"`
	Items         []ReceiptItem `json:"items"`
	PaymentMethod string        `json:"paymentMethod"`
	Confidence    int           `json:"confidence"`
}

// QueryRequest is the conversational Q&A payload: a free-text question plus
// an opaque user-context blob forwarded to the model.
type QueryRequest struct {
	Query       string         `json:"query"`
	UserContext map[string]any `json:"userContext,omitempty"`
}

// QueryAnswer wraps the conversational answer.
type QueryAnswer struct {
	Answer   string `json:"answer"`
	Fallback bool   `json:"fallback"`
}

// AgentMetrics is the assistant metrics snapshot for GET /v1/metrics/agent.
type AgentMetrics struct {
	TotalRequests       int64   `json:"total_requests"`
	ErrorRate           float64 `json:"error_rate"`
	FallbackRate        float64 `json:"fallback_rate"`
	AvgTokensPerRequest float64 `json:"avg_tokens_per_request"`
	CacheHitRate        float64 `json:"cache_hit_rate"`
	Period              string  `json:"period"`
}
