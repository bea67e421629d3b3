// Package notify pushes freshly issued value tips to a configured webhook.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/ChrisJamesShevlin/snooker/internal/config"
	"github.com/ChrisJamesShevlin/snooker/internal/logger"
	"github.com/ChrisJamesShevlin/snooker/internal/metrics"
	"github.com/ChrisJamesShevlin/snooker/internal/models"
)

const (
	defaultTimeout          = 10 * time.Second
	defaultRateLimit        = 5.0
	defaultBurst            = 1
	defaultFailureThreshold = 5
	defaultCooldown         = 60 * time.Second

	retryWaitMin = 100 * time.Millisecond
	retryWaitMax = 2 * time.Second
)

// webhookPayload is the body posted for each tip
type webhookPayload struct {
	Event  string      `json:"event"`
	Tip    *models.Tip `json:"tip"`
	SentAt time.Time   `json:"sent_at"`
}

// attemptKey carries the per-delivery attempt counter through the
// request context, since the retry hook is shared across deliveries.
type attemptKey struct{}

// WebhookNotifier delivers tips over HTTP with retries, a client-side
// rate limit and a consecutive-failure circuit breaker
type WebhookNotifier struct {
	client   *retryablehttp.Client
	limiter  *rate.Limiter
	cfg      config.NotifyConfig
	logger   *logrus.Logger
	auditLog *logger.AuditLogger

	failureThreshold int
	cooldown         time.Duration

	mu                  sync.Mutex
	consecutiveFailures int
	openUntil           time.Time
}

// NewWebhookNotifier creates a notifier from the notify configuration
func NewWebhookNotifier(cfg config.NotifyConfig, baseLogger *logrus.Logger) *WebhookNotifier {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = timeout
	retryClient.RetryMax = cfg.RetryAttempts
	retryClient.RetryWaitMin = retryWaitMin
	retryClient.RetryWaitMax = retryWaitMax
	retryClient.CheckRetry = retryPolicy()
	retryClient.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if counter, ok := req.Context().Value(attemptKey{}).(*int32); ok {
			atomic.StoreInt32(counter, int32(attempt)+1)
		}
	}

	// Don't log verbose retry info
	retryClient.Logger = nil

	rps := cfg.RateLimitPerSecond
	if rps <= 0 {
		rps = defaultRateLimit
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = defaultBurst
	}

	threshold := cfg.FailureThreshold
	if threshold <= 0 {
		threshold = defaultFailureThreshold
	}
	cooldown := defaultCooldown
	if cfg.CooldownSeconds > 0 {
		cooldown = time.Duration(cfg.CooldownSeconds) * time.Second
	}

	return &WebhookNotifier{
		client:           retryClient,
		limiter:          rate.NewLimiter(rate.Limit(rps), burst),
		cfg:              cfg,
		logger:           baseLogger,
		auditLog:         logger.NewAuditLogger(baseLogger),
		failureThreshold: threshold,
		cooldown:         cooldown,
	}
}

// Deliver posts one tip to the webhook. It returns the response status
// code and the number of HTTP attempts made.
func (n *WebhookNotifier) Deliver(ctx context.Context, tip *models.Tip) (int, int, error) {
	if n.cfg.WebhookURL == "" {
		return 0, 0, fmt.Errorf("webhook url not configured")
	}

	if until, open := n.breakerOpen(); open {
		return 0, 0, fmt.Errorf("notifier breaker open until %s", until.Format(time.RFC3339))
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return 0, 0, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	body, err := json.Marshal(webhookPayload{
		Event:  "tip.issued",
		Tip:    tip,
		SentAt: time.Now().UTC(),
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	var counter int32
	reqCtx := context.WithValue(ctx, attemptKey{}, &counter)

	req, err := retryablehttp.NewRequestWithContext(reqCtx, http.MethodPost, n.cfg.WebhookURL, body)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+n.cfg.AuthToken)
	}

	start := time.Now()
	resp, err := n.client.Do(req)
	attempts := int(atomic.LoadInt32(&counter))
	if attempts == 0 {
		attempts = 1
	}

	if err != nil {
		n.recordFailure(err)
		metrics.RecordWebhookDelivery("failure", time.Since(start).Seconds())
		return 0, attempts, fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		statusErr := fmt.Errorf("webhook returned status %d", resp.StatusCode)
		n.recordFailure(statusErr)
		metrics.RecordWebhookDelivery("failure", time.Since(start).Seconds())
		return resp.StatusCode, attempts, statusErr
	}

	n.recordSuccess()
	metrics.RecordWebhookDelivery("success", time.Since(start).Seconds())

	n.logger.WithFields(logrus.Fields{
		"tip_id":      tip.ID.String(),
		"status_code": resp.StatusCode,
		"attempts":    attempts,
	}).Debug("Webhook delivery succeeded")

	return resp.StatusCode, attempts, nil
}

func (n *WebhookNotifier) breakerOpen() (time.Time, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.openUntil.IsZero() || time.Now().After(n.openUntil) {
		return time.Time{}, false
	}
	return n.openUntil, true
}

// recordFailure counts a delivery failure and opens the breaker once
// the threshold is reached. A failed trial after the cooldown re-trips
// immediately.
func (n *WebhookNotifier) recordFailure(cause error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.consecutiveFailures++
	if n.consecutiveFailures < n.failureThreshold {
		return
	}

	n.openUntil = time.Now().Add(n.cooldown)
	metrics.RecordNotifierBreakerTrip()

	n.auditLog.LogNotifierBreakerEvent("opened", cause.Error(), map[string]interface{}{
		"consecutive_failures": n.consecutiveFailures,
		"failure_threshold":    n.failureThreshold,
		"cooldown_seconds":     n.cooldown.Seconds(),
	}, "suspending webhook deliveries")

	n.logger.WithError(cause).WithFields(logrus.Fields{
		"consecutive_failures": n.consecutiveFailures,
		"cooldown":             n.cooldown.String(),
	}).Warn("Notifier circuit breaker opened")
}

func (n *WebhookNotifier) recordSuccess() {
	n.mu.Lock()
	defer n.mu.Unlock()

	wasOpen := !n.openUntil.IsZero()
	n.consecutiveFailures = 0
	n.openUntil = time.Time{}

	if wasOpen {
		n.auditLog.LogNotifierBreakerEvent("closed", "delivery succeeded", nil, "resuming webhook deliveries")
	}
}

// retryPolicy retries network errors, rate limits and server errors.
// Other client errors are final.
func retryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, err
		}
		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			return true, nil
		}
		return false, nil
	}
}
