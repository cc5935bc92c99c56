package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/observability"
	"github.com/smartwallet/bff-go/internal/port"
)

var insightTracer = otel.Tracer("service/insights")

// InsightService produces AI-generated financial commentary: spending
// analysis, budget recommendations, receipt extraction and conversational
// Q&A. Model output is treated as untrusted text: structured responses
// are strictly decoded, and any malformed or unavailable reply swaps in a
// deterministic fallback so callers always get a well-formed payload.
type InsightService struct {
	agent   port.AgentCaller
	bills   port.BillStore
	txs     port.TransactionStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewInsightService creates an insight service. agent may be nil, in which
// case every call serves its fallback payload.
func NewInsightService(agent port.AgentCaller, bills port.BillStore, txs port.TransactionStore, metrics *observability.Metrics, logger *zap.Logger) *InsightService {
	return &InsightService{agent: agent, bills: bills, txs: txs, metrics: metrics, logger: logger}
}

// generate runs one prompt through the model, recording the call's
// duration, outcome and token usage. These counters back the
// GET /v1/metrics/agent snapshot.
func (s *InsightService) generate(ctx context.Context, operation, prompt string) (string, error) {
	start := time.Now()
	reply, err := s.agent.Generate(ctx, prompt)
	s.metrics.RecordRequestDuration(operation, time.Since(start))
	if err != nil {
		s.metrics.IncrRequest("error")
		return "", err
	}
	s.metrics.IncrRequest("success")
	s.metrics.RecordTokens(reply.Usage.PromptTokens, reply.Usage.CompletionTokens)
	return reply.Text, nil
}

// decodeStrict unmarshals model output into v, tolerating a markdown code
// fence around the JSON but nothing else.
func decodeStrict(text string, v any) error {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// userContext summarizes a user's bills and transactions for prompting.
// Both reads run concurrently; a failed read degrades to an empty section
// rather than failing the insight.
func (s *InsightService) userContext(ctx context.Context, userID string) string {
	var bills []domain.Bill
	var txs []domain.Transaction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bills, err = s.bills.List(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.txs.List(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("partial user context for insight prompt",
			zap.String("userId", userID),
			zap.Error(err))
	}

	var b strings.Builder
	b.WriteString("Bills:\n")
	for _, bill := range bills {
		fmt.Fprintf(&b, "- %s: $%.2f due %s (paid: %t, category: %s)\n",
			bill.Name, bill.Amount, bill.DueDate, bill.IsPaid, bill.Category)
	}
	b.WriteString("Recent transactions:\n")
	limit := len(txs)
	if limit > 20 {
		limit = 20
	}
	for _, tx := range txs[:limit] {
		fmt.Fprintf(&b, "- %s: $%.2f on %s (%s)\n",
			tx.Merchant, tx.Amount, tx.Date, tx.Category)
	}
	return b.String()
}

// ============================================================
// Spending analysis
// ============================================================

// AnalyzeSpending asks the model for a structured read on the user's
// spending patterns.
func (s *InsightService) AnalyzeSpending(ctx context.Context, userID string) *domain.SpendingAnalysis {
	ctx, span := insightTracer.Start(ctx, "InsightService.AnalyzeSpending")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	if s.agent == nil {
		s.metrics.IncrMockFallback("agent")
		return fallbackAnalysis()
	}

	prompt := fmt.Sprintf(`You are a personal finance analyst. Analyze this user's financial data and respond with ONLY a JSON object matching exactly:
{"financialScore": <0-100>, "insights": [{"type": "warning|success|info", "title": "...", "message": "..."}], "recommendations": ["..."], "spendingTrends": [{"category": "...", "trend": "up|down|stable", "percentage": <number>}]}

%s`, s.userContext(ctx, userID))

	text, err := s.generate(ctx, "agent_spending_analysis", prompt)
	if err != nil {
		s.metrics.IncrExternalError("agent")
		s.metrics.IncrMockFallback("agent")
		s.logger.Warn("spending analysis unavailable, serving fallback", zap.Error(err))
		return fallbackAnalysis()
	}

	var analysis domain.SpendingAnalysis
	if err := decodeStrict(text, &analysis); err != nil || analysis.FinancialScore == 0 {
		s.metrics.IncrMockFallback("agent")
		s.logger.Warn("malformed spending analysis from model, serving fallback",
			zap.Error(err))
		return fallbackAnalysis()
	}
	return &analysis
}

func fallbackAnalysis() *domain.SpendingAnalysis {
	return &domain.SpendingAnalysis{
		FinancialScore: 78,
		Insights: []domain.Insight{
			{
				Type:    domain.InsightWarning,
				Title:   "Coffee Spending Alert",
				Message: "You've spent 15% more on coffee this month compared to last month.",
			},
			{
				Type:    domain.InsightSuccess,
				Title:   "Great Job on Utilities",
				Message: "Your utility bills are consistently paid on time and under budget.",
			},
			{
				Type:    domain.InsightInfo,
				Title:   "Subscription Review",
				Message: "You have several active subscriptions. Reviewing unused ones could free up monthly budget.",
			},
		},
		Recommendations: []string{
			"Set a monthly coffee budget of $50",
			"Cancel subscriptions you have not used in 60 days",
			"Automate bill payments to avoid late fees",
		},
		SpendingTrends: []domain.SpendingTrend{
			{Category: "Food", Trend: "up", Percentage: 15},
			{Category: "Utilities", Trend: "stable", Percentage: 0},
			{Category: "Entertainment", Trend: "down", Percentage: 8},
		},
	}
}

// ============================================================
// Budget recommendations
// ============================================================

// RecommendBudget asks the model for category budget suggestions.
func (s *InsightService) RecommendBudget(ctx context.Context, userID string) *domain.BudgetPlan {
	ctx, span := insightTracer.Start(ctx, "InsightService.RecommendBudget")
	defer span.End()

	if s.agent == nil {
		s.metrics.IncrMockFallback("agent")
		return fallbackBudget()
	}

	prompt := fmt.Sprintf(`You are a budgeting advisor. Based on this user's financial data, respond with ONLY a JSON object matching exactly:
{"recommendations": [{"category": "...", "suggested": <number>, "current": <number>, "reasoning": "..."}], "savingsGoal": <number>, "emergencyFund": <number>, "overallAdvice": "..."}

%s`, s.userContext(ctx, userID))

	text, err := s.generate(ctx, "agent_budget_plan", prompt)
	if err != nil {
		s.metrics.IncrExternalError("agent")
		s.metrics.IncrMockFallback("agent")
		s.logger.Warn("budget recommendation unavailable, serving fallback", zap.Error(err))
		return fallbackBudget()
	}

	var plan domain.BudgetPlan
	if err := decodeStrict(text, &plan); err != nil || len(plan.Recommendations) == 0 {
		s.metrics.IncrMockFallback("agent")
		s.logger.Warn("malformed budget plan from model, serving fallback", zap.Error(err))
		return fallbackBudget()
	}
	return &plan
}

func fallbackBudget() *domain.BudgetPlan {
	return &domain.BudgetPlan{
		Recommendations: []domain.BudgetRecommendation{
			{
				Category:  "Food",
				Suggested: 400,
				Current:   485,
				Reasoning: "Dining out drives most of the overage; cooking two more meals a week closes the gap.",
			},
			{
				Category:  "Entertainment",
				Suggested: 150,
				Current:   180,
				Reasoning: "Overlapping streaming subscriptions can be consolidated.",
			},
			{
				Category:  "Utilities",
				Suggested: 220,
				Current:   210,
				Reasoning: "Current spending is healthy; small buffer added for seasonal swings.",
			},
		},
		SavingsGoal:   48000,
		EmergencyFund: 68000,
		OverallAdvice: "You're on solid footing. Trimming food and entertainment frees roughly $115 a month toward your savings goal.",
	}
}

// ============================================================
// Receipt extraction
// ============================================================

// ExtractReceipt pulls structured data out of raw receipt text.
func (s *InsightService) ExtractReceipt(ctx context.Context, receiptText string) (*domain.ReceiptExtraction, error) {
	ctx, span := insightTracer.Start(ctx, "InsightService.ExtractReceipt")
	defer span.End()

	if strings.TrimSpace(receiptText) == "" {
		return nil, &domain.ErrValidation{Field: "text", Message: "receipt text is required"}
	}

	if s.agent == nil {
		s.metrics.IncrMockFallback("agent")
		return fallbackReceipt(), nil
	}

	prompt := fmt.Sprintf(`Extract structured data from this receipt text. Respond with ONLY a JSON object matching exactly:
{"merchant": "...", "date": "YYYY-MM-DD", "total": <number>, "tax": <number>, "subtotal": <number>, "items": [{"name": "...", "price": <number>, "category": "..."}], "paymentMethod": "...", "confidence": <0-100>}

Receipt:
%s`, receiptText)

	text, err := s.generate(ctx, "agent_receipt_extraction", prompt)
	if err != nil {
		s.metrics.IncrExternalError("agent")
		s.metrics.IncrMockFallback("agent")
		s.logger.Warn("receipt extraction unavailable, serving fallback", zap.Error(err))
		return fallbackReceipt(), nil
	}

	var extraction domain.ReceiptExtraction
	if err := decodeStrict(text, &extraction); err != nil || extraction.Merchant == "" {
		s.metrics.IncrMockFallback("agent")
		s.logger.Warn("malformed receipt extraction from model, serving fallback",
			zap.Error(err))
		return fallbackReceipt(), nil
	}
	return &extraction, nil
}

func fallbackReceipt() *domain.ReceiptExtraction {
	return &domain.ReceiptExtraction{
		Merchant: "Target Store #1234",
		Date:     "2024-01-15",
		Total:    67.89,
		Tax:      5.12,
		Subtotal: 62.77,
		Items: []domain.ReceiptItem{
			{Name: "Groceries", Price: 45.67, Category: "Food"},
			{Name: "Household Items", Price: 17.10, Category: "Shopping"},
		},
		PaymentMethod: "Credit Card",
		Confidence:    85,
	}
}

// ============================================================
// Conversational Q&A
// ============================================================

const agentUnavailableAnswer = "I'm here to help with your financial questions! (AI service currently unavailable)"

// Query answers a free-text financial question, threading the caller's
// context blob into the prompt. Unlike the structured endpoints, the
// answer is served as plain text.
func (s *InsightService) Query(ctx context.Context, userID string, req *domain.QueryRequest) (*domain.QueryAnswer, error) {
	ctx, span := insightTracer.Start(ctx, "InsightService.Query")
	defer span.End()

	if strings.TrimSpace(req.Query) == "" {
		return nil, &domain.ErrValidation{Field: "query", Message: "query is required"}
	}

	if s.agent == nil {
		s.metrics.IncrMockFallback("agent")
		return &domain.QueryAnswer{Answer: agentUnavailableAnswer, Fallback: true}, nil
	}

	var extra string
	if len(req.UserContext) > 0 {
		if blob, err := json.Marshal(req.UserContext); err == nil {
			extra = "Additional context: " + string(blob) + "\n\n"
		}
	}

	prompt := fmt.Sprintf(`You are a friendly personal finance assistant. Answer concisely and practically.

%s%s

Question: %s`, extra, s.userContext(ctx, userID), req.Query)

	text, err := s.generate(ctx, "agent_query", prompt)
	if err != nil {
		s.metrics.IncrExternalError("agent")
		s.metrics.IncrMockFallback("agent")
		s.logger.Warn("conversational answer unavailable, serving fallback", zap.Error(err))
		return &domain.QueryAnswer{Answer: agentUnavailableAnswer, Fallback: true}, nil
	}

	return &domain.QueryAnswer{Answer: strings.TrimSpace(text)}, nil
}

// AgentUsage returns the current assistant metrics snapshot.
func (s *InsightService) AgentUsage() *domain.AgentMetrics {
	return s.metrics.GetAgentSnapshot()
}
