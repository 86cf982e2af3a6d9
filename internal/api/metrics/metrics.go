// Package metrics defines and registers all custom Prometheus metrics for the
// CivicVoice platform API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "civicvoice"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Public form metrics ───────────────────────────────────────────────────────

// SubmissionsTotal counts public form submissions that were accepted.
// Label:
//   - resource: "contacts", "volunteers", "members", "subscribers"
var SubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Total number of accepted public form submissions, by resource.",
	},
	[]string{"resource"},
)

// ── Newsletter delivery metrics ───────────────────────────────────────────────

// CampaignDeliveriesTotal counts campaign emails successfully handed to the provider.
var CampaignDeliveriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "campaign_deliveries_total",
		Help:      "Total number of campaign emails successfully delivered.",
	},
)

// CampaignDeliveryErrorsTotal counts failed deliveries.
// Label:
//   - reason: short description of the failure (e.g. "deliver_failed")
var CampaignDeliveryErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "campaign_delivery_errors_total",
		Help:      "Total number of campaign deliveries that failed.",
	},
	[]string{"reason"},
)

// DeliveryQueueDepth tracks the current number of deliveries waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var DeliveryQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "delivery_queue_depth",
		Help:      "Current number of deliveries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Response cache metrics ────────────────────────────────────────────────────

// CacheRequestsTotal counts list/stats cache lookups.
// Labels:
//   - resource: the cached resource name
//   - result: "hit" or "miss"
var CacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Total number of response cache lookups, labelled by result (hit/miss).",
	},
	[]string{"resource", "result"},
)
