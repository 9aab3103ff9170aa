package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_events_dispatched_total",
			Help: "Total number of notification events handed to the background pool",
		},
		[]string{"update_kind"},
	)

	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_events_processed_total",
			Help: "Total number of notification events fully processed",
		},
		[]string{"update_kind", "result"},
	)

	DeliveryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_delivery_attempts_total",
			Help: "Total number of per-recipient delivery attempts",
		},
		[]string{"provider", "outcome"},
	)

	DeliveryRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_delivery_retries_total",
			Help: "Total number of retried delivery attempts",
		},
		[]string{"provider"},
	)

	ProviderFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_provider_fallbacks_total",
			Help: "Total number of times the cascade fell through to the next provider",
		},
		[]string{"from_provider"},
	)

	DeliveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "notify_delivery_duration_seconds",
			Help: "Duration of a full per-message delivery in seconds",
		},
		[]string{"audience"},
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notify_queue_depth",
			Help: "Number of events waiting in the dispatch queue",
		},
	)
)
