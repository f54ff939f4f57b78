// Package metrics defines and registers all custom Prometheus metrics for the
// library API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry via promauto at
// package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// XPAwardedTotal counts xp credited to users.
// Label:
//   - reason: "contribution" or "completion"
var XPAwardedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "xp_awarded_total",
		Help:      "Total experience points credited, labelled by reason.",
	},
	[]string{"reason"},
)

// LevelUpsTotal counts persisted level increases.
var LevelUpsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "level_ups_total",
		Help:      "Total number of level increases persisted.",
	},
)

// AccessChecksTotal counts pdf access decisions.
// Label:
//   - result: "granted", "forbidden" or "not_found"
var AccessChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_checks_total",
		Help:      "Total number of book access checks, labelled by result.",
	},
	[]string{"result"},
)

// BooksUploadedTotal counts contributed books (pending approval included).
var BooksUploadedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_uploaded_total",
		Help:      "Total number of books contributed.",
	},
)

// BooksApprovedTotal counts admin approvals.
var BooksApprovedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_approved_total",
		Help:      "Total number of books approved.",
	},
)

// BooksFinishedTotal counts successful finish events.
var BooksFinishedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_finished_total",
		Help:      "Total number of books finished by readers.",
	},
)

// LedgerQueueDepth tracks the number of xp events waiting in each worker
// channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", ...)
var LedgerQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ledger_queue_depth",
		Help:      "Current number of xp events pending in each ledger worker channel.",
	},
	[]string{"worker_id"},
)

// LedgerWriteErrorsTotal counts failed audit inserts (non-fatal).
var LedgerWriteErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_write_errors_total",
		Help:      "Total number of xp ledger inserts that failed.",
	},
)
