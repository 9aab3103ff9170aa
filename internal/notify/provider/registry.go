package provider

import (
	"sort"

	"business-notifier/internal/common/config"
	"business-notifier/internal/common/errors"
	"business-notifier/internal/common/logger"
)

// Build assembles the ordered provider chain from configuration. Providers
// that are enabled but unusable are skipped here with a single
// CONFIGURATION_INVALID log line, so per-event processing never re-logs
// them. An empty chain is a warning, not a failure.
func Build(cfg config.ProvidersConfig, notif config.NotificationConfig, sesClient SESAPI, log logger.Logger) []Provider {
	type candidate struct {
		priority int
		provider Provider
	}
	var candidates []candidate

	connectTimeout := config.GetDuration(cfg.ConnectTimeout)

	if cfg.SMTP.Enabled {
		if cfg.SMTP.Configured() {
			candidates = append(candidates, candidate{
				priority: cfg.SMTP.Priority,
				provider: NewDirectSMTP(cfg.SMTP, notif.FromName, notif.FromEmail, connectTimeout, log),
			})
		} else {
			logInvalid(log, NameDirectSMTP, "missing host or credentials")
		}
	}

	if cfg.Relay.Enabled {
		if cfg.Relay.Configured() {
			candidates = append(candidates, candidate{
				priority: cfg.Relay.Priority,
				provider: NewRelaySMTP(cfg.Relay, notif.FromName, notif.FromEmail, connectTimeout, log),
			})
		} else {
			logInvalid(log, NameRelaySMTP, "missing host or credentials")
		}
	}

	if cfg.Transactional.Enabled {
		if sesClient != nil && cfg.Transactional.Region != "" {
			candidates = append(candidates, candidate{
				priority: cfg.Transactional.Priority,
				provider: NewTransactional(sesClient, notif.FromName, notif.FromEmail, log),
			})
		} else {
			logInvalid(log, NameTransactional, "missing region or client")
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].priority < candidates[j].priority
	})

	providers := make([]Provider, 0, len(candidates))
	for _, c := range candidates {
		providers = append(providers, c.provider)
	}

	if len(providers) == 0 {
		log.Warn("no delivery providers configured, notifications will fail delivery", nil)
	}

	return providers
}

func logInvalid(log logger.Logger, name, details string) {
	stdErr := errors.NewConfigurationInvalidError(details)
	log.Warn("skipping delivery provider", map[string]interface{}{
		"provider":  name,
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
	})
}
