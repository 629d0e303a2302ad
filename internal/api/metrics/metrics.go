// Package metrics defines and registers the custom Prometheus metrics of the
// storefront gateway. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics are registered with the default Prometheus registry at package
// init. HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gateway"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login and registration attempts.
// Labels:
//   - realm: "front_user" or "admin_user"
//   - result: "success", "invalid_credentials", "validation", "conflict" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login and registration attempts, by realm and result.",
	},
	[]string{"realm", "result"},
)

// SessionsCreatedTotal counts issued sessions.
// Label:
//   - realm: "front_user" or "admin_user"
var SessionsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_created_total",
		Help:      "Total number of sessions issued, by realm.",
	},
	[]string{"realm"},
)

// AuthorizationDenialsTotal counts requests refused by the route guard.
// Label:
//   - reason: "unauthorized", "invalid_session" or "forbidden"
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of requests denied by the authorization guard.",
	},
	[]string{"reason"},
)

// ── Blob metrics ──────────────────────────────────────────────────────────────

// UploadsTotal counts upload attempts.
// Label:
//   - result: "success", "no_file", "too_large" or "error"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of file uploads, by result.",
	},
	[]string{"result"},
)

// UploadBytes observes the size of accepted uploads.
var UploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_bytes",
		Help:      "Size of accepted uploads in bytes.",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 8), // 1KiB .. 16MiB
	},
)

// DownloadsTotal counts download attempts.
// Label:
//   - result: "success", "not_found" or "error"
var DownloadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "downloads_total",
		Help:      "Total number of file downloads, by result.",
	},
	[]string{"result"},
)
