package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/register4u/inventory-service/internal/domain/inventory"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// WebhookNotifier posts reconciliation corrections to an operations webhook.
// Outbound calls go through a client-side rate limiter and a circuit breaker
// so a dead endpoint cannot stall or pile up batch runs.
type WebhookNotifier struct {
	client         *http.Client
	url            string
	apiKey         string
	rateLimiter    *rate.Limiter
	circuitBreaker *gobreaker.CircuitBreaker
	maxRetries     int
	retryInterval  time.Duration
	logger         *slog.Logger
}

type WebhookConfig struct {
	URL           string
	APIKey        string
	Timeout       time.Duration
	RateLimit     float64
	BurstLimit    int
	MaxRetries    int
	RetryInterval time.Duration
	MaxFailures   uint32
	ResetTimeout  time.Duration
}

type correctionPayload struct {
	Source      string                 `json:"source"`
	SentAt      time.Time              `json:"sentAt"`
	Count       int                    `json:"count"`
	Corrections []inventory.Correction `json:"corrections"`
}

func NewWebhookNotifier(config WebhookConfig, logger *slog.Logger) *WebhookNotifier {
	client := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:    10,
			IdleConnTimeout: 90 * time.Second,
		},
	}

	if config.RateLimit <= 0 {
		config.RateLimit = 1
	}
	if config.BurstLimit <= 0 {
		config.BurstLimit = 1
	}

	maxFailures := config.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	cbSettings := gobreaker.Settings{
		Name:    "ops-webhook",
		Timeout: config.ResetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Webhook circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	}

	return &WebhookNotifier{
		client:         client,
		url:            config.URL,
		apiKey:         config.APIKey,
		rateLimiter:    rate.NewLimiter(rate.Limit(config.RateLimit), config.BurstLimit),
		circuitBreaker: gobreaker.NewCircuitBreaker(cbSettings),
		maxRetries:     config.MaxRetries,
		retryInterval:  config.RetryInterval,
		logger:         logger,
	}
}

func (n *WebhookNotifier) NotifyCorrections(ctx context.Context, corrections []inventory.Correction) error {
	if len(corrections) == 0 {
		return nil
	}

	payload := correctionPayload{
		Source:      "inventory-service",
		SentAt:      time.Now(),
		Count:       len(corrections),
		Corrections: corrections,
	}

	var lastErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		if attempt > 0 {
			delay := n.retryInterval
			if delay <= 0 {
				delay = time.Second
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay * time.Duration(attempt)):
			}
		}

		lastErr = n.post(ctx, payload)
		if lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("webhook notify failed after %d attempts: %w", n.maxRetries+1, lastErr)
}

func (n *WebhookNotifier) post(ctx context.Context, payload correctionPayload) error {
	if err := n.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	_, err := n.circuitBreaker.Execute(func() (any, error) {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}

		request, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewBuffer(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		request.Header.Set("Content-Type", "application/json")
		if n.apiKey != "" {
			request.Header.Set("x-api-key", n.apiKey)
		}

		response, err := n.client.Do(request)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %s", err.Error())
		}
		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(response.Body)

		if response.StatusCode >= 400 {
			responseBody, _ := io.ReadAll(response.Body)
			return nil, fmt.Errorf("HTTP error %d: %s", response.StatusCode, string(responseBody))
		}

		return nil, nil
	})

	return err
}
