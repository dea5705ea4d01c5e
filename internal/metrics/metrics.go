package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhookEventsTotal counts payment webhook events by type and outcome.
	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bizlevel",
		Name:      "webhook_events_total",
		Help:      "Total payment webhook events by event type and outcome.",
	}, []string{"type", "outcome"})

	// LevelCompletionsTotal counts levels transitioned to completed.
	LevelCompletionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bizlevel",
		Name:      "level_completions_total",
		Help:      "Total levels completed by users.",
	})

	// HTTPRequestsTotal counts HTTP requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bizlevel",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, route template and status code.",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration tracks request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bizlevel",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// SubscriptionsExpiredTotal counts subscriptions moved to expired by the sweeper.
	SubscriptionsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bizlevel",
		Name:      "subscriptions_expired_total",
		Help:      "Total subscriptions expired by the scheduled sweeper.",
	})
)
