// Package metrics defines and registers all custom Prometheus metrics for the
// social analytics API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "socialpulse"

// ── Authentication / authorization metrics ────────────────────────────────────

// LoginsTotal counts login attempts by terminal outcome.
// Label:
//   - result: "success", "invalid_credentials", "inactive", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"result"},
)

// GateDenialsTotal counts requests rejected by the request gate.
// Labels:
//   - stage: "authenticate" or "authorize"
//   - reason: internal sub-cause ("missing_header", "invalid_token",
//     "principal_rejected", "forbidden", "unknown_account", "store_unavailable")
var GateDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_denials_total",
		Help:      "Total number of requests rejected by the auth gate, by stage and internal reason.",
	},
	[]string{"stage", "reason"},
)

// ── Ingestion metrics ─────────────────────────────────────────────────────────

// SnapshotsIngestedTotal counts metric snapshots that were persisted.
var SnapshotsIngestedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshots_ingested_total",
		Help:      "Total number of scraped metric snapshots successfully persisted.",
	},
)

// SnapshotsErrorsTotal counts snapshots that failed processing.
// Label:
//   - reason: short description of the failure (e.g. "unknown_account", "insert_failed")
var SnapshotsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshots_errors_total",
		Help:      "Total number of metric snapshots that failed processing.",
	},
	[]string{"reason"},
)

// SnapshotsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new snapshot, processed)
var SnapshotsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshots_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// SnapshotQueueDepth tracks the current number of snapshots waiting in each
// ingest worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var SnapshotQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "snapshot_queue_depth",
		Help:      "Current number of snapshots pending in each ingest worker channel.",
	},
	[]string{"worker_id"},
)

// SnapshotProcessingDuration measures how long a single snapshot takes to
// process from dequeue to persistence.
var SnapshotProcessingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "snapshot_processing_duration_seconds",
		Help:      "Duration of snapshot processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Model lifecycle metrics ───────────────────────────────────────────────────

// TrainingsTotal counts completed training runs.
// Label:
//   - kind: "regression" or "clustering"
var TrainingsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trainings_total",
		Help:      "Total number of completed model training runs, by model kind.",
	},
	[]string{"kind"},
)

// PredictionsTotal counts served prediction calls.
// Label:
//   - kind: "regression" or "clustering"
var PredictionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Total number of served prediction requests, by model kind.",
	},
	[]string{"kind"},
)
