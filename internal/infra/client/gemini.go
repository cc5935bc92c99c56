package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"

	"github.com/smartwallet/bff-go/internal/domain"
	"github.com/smartwallet/bff-go/internal/infra/resilience"
)

// GeminiClient calls the Gemini generateContent endpoint.
// It returns raw reply text only; structured decoding and validation is
// the caller's job, because the model output is not guaranteed to be JSON.
type GeminiClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	cb         *gobreaker.CircuitBreaker
	bh         *resilience.Bulkhead
	cfg        resilience.Config
}

// NewGeminiClient creates a new GeminiClient. Concurrent calls beyond
// cfg.MaxConcurrency queue on a bulkhead rather than hitting the model
// API's rate limit.
func NewGeminiClient(httpClient *http.Client, baseURL, apiKey, model string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *GeminiClient {
	return &GeminiClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		cb:         cb,
		bh:         resilience.NewBulkhead(cfg.MaxConcurrency),
		cfg:        cfg,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// Generate sends prompt to the model and returns the first candidate's text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (*domain.AgentReply, error) {
	ctx, span := tracer.Start(ctx, "GeminiClient.Generate")
	defer span.End()
	span.SetAttributes(attribute.String("agent.model", c.model))

	if err := c.bh.Acquire(ctx); err != nil {
		return nil, &domain.ErrExternalService{Service: "agent", Err: err}
	}
	defer c.bh.Release()

	var parsed geminiResponse

	result, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := json.Marshal(geminiRequest{
				Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
			})
			if err != nil {
				return err
			}

			url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("agent API returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&parsed)
		})
		if innerErr != nil {
			return nil, innerErr
		}

		if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
			return nil, fmt.Errorf("agent API returned no candidates")
		}

		return &domain.AgentReply{
			Text: parsed.Candidates[0].Content.Parts[0].Text,
			Usage: domain.TokenUsage{
				PromptTokens:     parsed.UsageMetadata.PromptTokenCount,
				CompletionTokens: parsed.UsageMetadata.CandidatesTokenCount,
				TotalTokens:      parsed.UsageMetadata.TotalTokenCount,
			},
		}, nil
	})

	if err != nil {
		return nil, wrapErr("agent", err)
	}

	return result.(*domain.AgentReply), nil
}
