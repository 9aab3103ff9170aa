// Package cascade walks the ordered provider chain for every recipient of a
// message: retry with backoff on transient failures, fall through to the
// next provider on exhaustion, stop at the first delivery.
package cascade

import (
	"context"
	"time"

	"business-notifier/internal/common/config"
	"business-notifier/internal/common/logger"
	"business-notifier/internal/common/metrics"
	"business-notifier/internal/models"
	"business-notifier/internal/notify/compose"
	"business-notifier/internal/notify/provider"
	"business-notifier/internal/notify/timeout"

	"golang.org/x/sync/errgroup"
)

// DeliveryStatus is the terminal per-recipient result.
type DeliveryStatus string

const (
	StatusSent     DeliveryStatus = "sent"
	StatusFailed   DeliveryStatus = "failed"
	StatusTimedOut DeliveryStatus = "timed_out"
)

// AggregateStatus summarizes one message across its recipients.
type AggregateStatus string

const (
	FullSuccess    AggregateStatus = "full_success"
	PartialSuccess AggregateStatus = "partial_success"
	FullFailure    AggregateStatus = "full_failure"
)

// RecipientOutcome is the terminal result for one (message, recipient)
// pair.
type RecipientOutcome struct {
	Recipient models.Recipient
	Status    DeliveryStatus
	Provider  string // delivering provider, or the last one attempted
	MessageID string
	Attempts  int
	Reason    string
}

// MessageResult aggregates the per-recipient outcomes of one message.
type MessageResult struct {
	Outcome    AggregateStatus
	Recipients []RecipientOutcome
}

// Success reports whether the message counts as delivered at the event
// level: at least one recipient got it.
func (r *MessageResult) Success() bool {
	return r.Outcome != FullFailure
}

type Cascade struct {
	providers   []provider.Provider
	maxRetries  int
	backoffBase time.Duration
	sendTimeout time.Duration
	sleep       func(time.Duration)
	logger      logger.Logger
}

func New(providers []provider.Provider, cfg config.ProvidersConfig, log logger.Logger) *Cascade {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	sendTimeout := config.GetDuration(cfg.SendTimeout)
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}
	backoffBase := config.GetDuration(cfg.BackoffBase)
	if backoffBase <= 0 {
		backoffBase = 2 * time.Second
	}
	return &Cascade{
		providers:   providers,
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		sendTimeout: sendTimeout,
		sleep:       time.Sleep,
		logger:      log,
	}
}

// Deliver sends msg to every recipient independently and aggregates the
// outcomes. It never returns an error: every recipient ends in a terminal
// outcome and one recipient's failure cannot abort the others.
func (c *Cascade) Deliver(ctx context.Context, recipients []models.Recipient, msg *compose.Message, audience string) *MessageResult {
	start := time.Now()

	outcomes := make([]RecipientOutcome, len(recipients))

	// Outcomes are independent and aggregation is order-insensitive, so
	// recipients run concurrently, each writing its own slice slot.
	var g errgroup.Group
	for i, rcpt := range recipients {
		g.Go(func() error {
			outcomes[i] = c.deliverOne(ctx, rcpt, msg)
			return nil
		})
	}
	_ = g.Wait()

	metrics.DeliveryDuration.WithLabelValues(audience).Observe(time.Since(start).Seconds())

	return &MessageResult{
		Outcome:    aggregate(outcomes),
		Recipients: outcomes,
	}
}

// deliverOne walks the provider chain for a single recipient.
func (c *Cascade) deliverOne(ctx context.Context, rcpt models.Recipient, msg *compose.Message) RecipientOutcome {
	totalAttempts := 0
	lastProvider := ""
	lastReason := "no providers configured"
	lastTimedOut := false

	for pi, p := range c.providers {
		lastProvider = p.Name()
		backoff := c.backoffBase
		providerDone := false

		for attempt := 1; attempt <= c.maxRetries && !providerDone; attempt++ {
			totalAttempts++

			out, err := timeout.Run(func() (provider.Outcome, error) {
				return p.Send(ctx, rcpt, msg), nil
			}, c.sendTimeout)
			if timeout.IsTimeout(err) {
				out = provider.Outcome{
					Status: provider.StatusUnavailable,
					Reason: "send attempt exceeded deadline",
				}
				lastTimedOut = true
			} else {
				lastTimedOut = false
			}

			metrics.DeliveryAttempts.WithLabelValues(p.Name(), string(out.Status)).Inc()
			c.logger.Info("delivery attempt", map[string]interface{}{
				"recipient": rcpt.Email,
				"provider":  p.Name(),
				"attempt":   attempt,
				"outcome":   string(out.Status),
				"reason":    out.Reason,
			})

			switch out.Status {
			case provider.StatusDelivered:
				return RecipientOutcome{
					Recipient: rcpt,
					Status:    StatusSent,
					Provider:  p.Name(),
					MessageID: out.MessageID,
					Attempts:  totalAttempts,
				}

			case provider.StatusRejected:
				// Permanent for this provider; straight to the next one.
				lastReason = out.Reason
				providerDone = true

			case provider.StatusUnavailable:
				lastReason = out.Reason
				if attempt < c.maxRetries {
					metrics.DeliveryRetries.WithLabelValues(p.Name()).Inc()
					c.sleep(backoff)
					backoff *= 2
				}
			}
		}

		if pi < len(c.providers)-1 {
			metrics.ProviderFallbacks.WithLabelValues(p.Name()).Inc()
			c.logger.Warn("provider exhausted, falling through", map[string]interface{}{
				"recipient":    rcpt.Email,
				"provider":     p.Name(),
				"nextProvider": c.providers[pi+1].Name(),
			})
		}
	}

	status := StatusFailed
	if lastTimedOut {
		status = StatusTimedOut
	}

	c.logger.Error("all providers exhausted for recipient", map[string]interface{}{
		"recipient":    rcpt.Email,
		"lastProvider": lastProvider,
		"attempts":     totalAttempts,
		"reason":       lastReason,
	})

	return RecipientOutcome{
		Recipient: rcpt,
		Status:    status,
		Provider:  lastProvider,
		Attempts:  totalAttempts,
		Reason:    lastReason,
	}
}

func aggregate(outcomes []RecipientOutcome) AggregateStatus {
	sent := 0
	for _, o := range outcomes {
		if o.Status == StatusSent {
			sent++
		}
	}
	switch {
	case len(outcomes) > 0 && sent == len(outcomes):
		return FullSuccess
	case sent > 0:
		return PartialSuccess
	default:
		return FullFailure
	}
}
