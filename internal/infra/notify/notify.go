// Package notify delivers reminder notifications over an outbound webhook.
// Delivery is fire-and-forget: the webhook standing in for a device push
// channel, permission modelled as webhook presence.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/smartwallet/bff-go/internal/port"
)

var tracer = otel.Tracer("notify")

var _ port.NotificationSink = (*WebhookSink)(nil)

// WebhookSink posts notification payloads to a configured webhook URL.
// Setup decides permission exactly once; without a URL the sink stays in
// the not-granted state and every Send is a silent no-op. Each tag is
// delivered at most once per process lifetime.
type WebhookSink struct {
	httpClient *http.Client
	url        string
	logger     *zap.Logger

	mu      sync.Mutex
	granted bool
	setup   bool
	seen    map[string]struct{}
}

// NewWebhookSink creates a sink targeting url. An empty url is valid and
// produces a permanently silent sink.
func NewWebhookSink(httpClient *http.Client, url string, logger *zap.Logger) *WebhookSink {
	return &WebhookSink{
		httpClient: httpClient,
		url:        url,
		logger:     logger,
		seen:       make(map[string]struct{}),
	}
}

// Setup requests notification permission. It is idempotent; only the first
// call decides and logs the outcome.
func (s *WebhookSink) Setup(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.setup {
		return nil
	}
	s.setup = true
	s.granted = s.url != ""

	if s.granted {
		s.logger.Info("notification delivery enabled")
	} else {
		s.logger.Warn("notification webhook not configured, notifications disabled")
	}
	return nil
}

type webhookPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
}

// Send delivers one notification. Repeated sends with the same tag are
// suppressed, so a rescheduled reminder does not fire twice.
func (s *WebhookSink) Send(ctx context.Context, title, body, tag string) error {
	ctx, span := tracer.Start(ctx, "WebhookSink.Send")
	defer span.End()

	s.mu.Lock()
	if !s.granted {
		s.mu.Unlock()
		return nil
	}
	if _, dup := s.seen[tag]; dup {
		s.mu.Unlock()
		return nil
	}
	s.seen[tag] = struct{}{}
	s.mu.Unlock()

	payload, err := json.Marshal(webhookPayload{Title: title, Body: body, Tag: tag})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notification delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("notification webhook returned status %d", resp.StatusCode)
	}

	s.logger.Debug("notification delivered",
		zap.String("tag", tag),
		zap.String("title", title))
	return nil
}
