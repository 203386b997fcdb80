// Package metrics is the single source of truth for the Prometheus metrics
// exported by itemboard. All metrics register themselves with the default
// registry via promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "itemboard"

// HTTPRequestsTotal counts handled HTTP requests by route and status code.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled, by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP request handling.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// LoginsTotal counts login attempts by result ("success" or "failure").
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ActivityEventsPersistedTotal counts activity events written by the worker,
// by action (item.created / item.updated / item.deleted).
var ActivityEventsPersistedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_events_persisted_total",
		Help:      "Total number of activity events persisted by the worker.",
	},
	[]string{"action"},
)

// ActivityEventsFailedTotal counts activity events the worker could not
// decode or persist.
var ActivityEventsFailedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_events_failed_total",
		Help:      "Total number of activity events that failed processing.",
	},
	[]string{"reason"},
)
