// Package notify wires the notification pipeline: resolve recipients,
// compose per-audience messages, deliver through the provider cascade.
package notify

import (
	"context"
	"time"

	"business-notifier/internal/common/config"
	"business-notifier/internal/common/errors"
	"business-notifier/internal/common/logger"
	"business-notifier/internal/common/metrics"
	"business-notifier/internal/common/observability"
	"business-notifier/internal/models"
	"business-notifier/internal/notify/cascade"
	"business-notifier/internal/notify/compose"
	"business-notifier/internal/notify/provider"
	"business-notifier/internal/notify/recipients"
)

// Engine processes one event end to end on a background worker. It never
// returns an error: delivery failures terminate in logs and metrics only.
type Engine struct {
	resolver  *recipients.Resolver
	composer  *compose.Composer
	cascade   *cascade.Cascade
	directory recipients.Directory
	obs       *observability.Observability
	logger    logger.Logger
}

func NewEngine(cfg *config.Config, directory recipients.Directory, providers []provider.Provider, obs *observability.Observability, log logger.Logger) *Engine {
	return &Engine{
		resolver:  recipients.NewResolver(cfg.Notifications.StaffPrefix, log),
		composer:  compose.NewComposer(cfg.Notifications.BrandName),
		cascade:   cascade.New(providers, cfg.Providers, log),
		directory: directory,
		obs:       obs,
		logger:    log,
	}
}

// Process runs the full pipeline for one event. The composed messages are
// fully rendered before any delivery attempt begins.
func (e *Engine) Process(ctx context.Context, event *models.NotificationEvent) {
	start := time.Now()

	log := e.logger.WithFields(map[string]interface{}{
		"eventId":    event.ID,
		"updateKind": event.UpdateKind,
	})
	log.Info("processing notification event", map[string]interface{}{
		"actor":  event.ActorName,
		"client": event.Record.LegalName,
	})

	set := e.resolver.Resolve(ctx, event.Record, e.directory)
	if set.Empty() {
		// A no-op outcome, not an error: nothing to deliver means no
		// provider call at all.
		log.Info("no recipients resolved, skipping delivery", map[string]interface{}{
			"outcome": string(errors.ErrCodeNoRecipients),
		})
		e.finish(ctx, event, start, "no_recipients")
		return
	}

	overall := true

	if len(set.Staff) > 0 {
		msg := e.composer.Compose(event, models.AudienceStaff)
		result := e.cascade.Deliver(ctx, set.Staff, &msg, models.AudienceStaff)
		e.logMessageResult(log, models.AudienceStaff, result)
		if !result.Success() {
			overall = false
		}
	}

	if len(set.Client) > 0 {
		msg := e.composer.Compose(event, models.AudienceClient)
		result := e.cascade.Deliver(ctx, set.Client, &msg, models.AudienceClient)
		e.logMessageResult(log, models.AudienceClient, result)
		if !result.Success() {
			overall = false
		}
	}

	if overall {
		log.Info("notification event delivered", nil)
		e.finish(ctx, event, start, "success")
	} else {
		log.Error("notification event failed delivery", nil)
		e.finish(ctx, event, start, "failure")
	}
}

func (e *Engine) finish(ctx context.Context, event *models.NotificationEvent, start time.Time, result string) {
	metrics.EventsProcessed.WithLabelValues(event.UpdateKind, result).Inc()
	if e.obs != nil {
		e.obs.RecordEventProcessed(ctx, result)
		e.obs.RecordEventDuration(ctx, time.Since(start), result)
	}
}

func (e *Engine) logMessageResult(log logger.Logger, audience string, result *cascade.MessageResult) {
	fields := map[string]interface{}{
		"audience":   audience,
		"aggregate":  string(result.Outcome),
		"recipients": len(result.Recipients),
	}
	log.Info("message delivery finished", fields)

	for _, rcpt := range result.Recipients {
		if rcpt.Status == cascade.StatusSent {
			continue
		}
		log.Warn("recipient delivery failed", map[string]interface{}{
			"audience":  audience,
			"recipient": rcpt.Recipient.Email,
			"provider":  rcpt.Provider,
			"attempts":  rcpt.Attempts,
			"status":    string(rcpt.Status),
			"reason":    rcpt.Reason,
		})
	}
}
