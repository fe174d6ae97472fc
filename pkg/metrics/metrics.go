// Package metrics provides Prometheus metrics for the nmstate engine.
//
// This package exposes metrics for monitoring the apply pipeline:
// - Apply/verify/checkpoint latency and outcomes
// - Backend push and probe operation counts (success/failure)
// - Checkpoint lifecycle state
// - Policy capture/template evaluation statistics
//
// Register registers the metrics with Prometheus. No package in this
// module serves a /metrics endpoint, and cmd/nmstatectl does not call
// Register.
//
// Reference: OVN-Kubernetes pkg/metrics/
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace is the Prometheus metrics namespace
	Namespace = "nmstate"

	// Subsystem names for different metric categories
	SubsystemApply      = "apply"
	SubsystemBackend    = "backend"
	SubsystemCheckpoint = "checkpoint"
	SubsystemPolicy     = "policy"
)

var (
	// registerOnce ensures metrics are registered only once
	registerOnce sync.Once

	// ---- Apply Orchestrator Metrics ----

	// ApplyDuration measures the time taken for a full Apply run
	// (checkpoint create through commit/rollback).
	ApplyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: SubsystemApply,
			Name:      "duration_seconds",
			Help:      "Time taken for a full apply run in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// ApplyTotal counts the total number of apply runs
	// Labels: result (success/failure)
	ApplyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemApply,
			Name:      "total",
			Help:      "Total number of apply runs",
		},
		[]string{"result"},
	)

	// ApplyRetryTotal counts retryable-error retries during activation
	ApplyRetryTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemApply,
			Name:      "retry_total",
			Help:      "Total number of retried activation attempts",
		},
	)

	// VerifyDuration measures the time spent in the verify-retry loop
	VerifyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: SubsystemApply,
			Name:      "verify_duration_seconds",
			Help:      "Time spent polling for desired state to verify",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 20},
		},
	)

	// ---- Backend Metrics ----

	// BackendOperationDuration measures backend push/probe latency
	// Labels: operation (push/probe/commit/rollback/checkpoint), result (success/failure)
	BackendOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: SubsystemBackend,
			Name:      "operation_duration_seconds",
			Help:      "Time taken for backend operations in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation", "result"},
	)

	// BackendOperationTotal counts backend operations
	// Labels: operation (push/probe/commit/rollback/checkpoint), result (success/failure)
	BackendOperationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemBackend,
			Name:      "operation_total",
			Help:      "Total number of backend operations",
		},
		[]string{"operation", "result"},
	)

	// ---- Checkpoint Metrics ----

	// CheckpointsInFlight tracks the number of checkpoints currently open
	CheckpointsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: SubsystemCheckpoint,
			Name:      "in_flight",
			Help:      "Number of checkpoints currently open",
		},
	)

	// CheckpointExtendTotal counts checkpoint-extend-if-half-elapsed calls
	CheckpointExtendTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemCheckpoint,
			Name:      "extend_total",
			Help:      "Total number of checkpoint deadline extensions",
		},
	)

	// CheckpointExpiredTotal counts checkpoints that auto-rolled-back
	// because nothing committed them before their deadline.
	CheckpointExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemCheckpoint,
			Name:      "expired_total",
			Help:      "Total number of checkpoints that expired unconfirmed",
		},
	)

	// ---- Policy Metrics ----

	// PolicyEvalDuration measures capture expression + template evaluation time
	PolicyEvalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: SubsystemPolicy,
			Name:      "eval_duration_seconds",
			Help:      "Time taken to evaluate a policy's captures and templates",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"result"},
	)

	// PolicyEvalTotal counts policy evaluations
	// Labels: result (success/failure)
	PolicyEvalTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemPolicy,
			Name:      "eval_total",
			Help:      "Total number of policy evaluations",
		},
		[]string{"result"},
	)
)

// Register registers all metrics with the default Prometheus registry.
// This function is safe to call multiple times; metrics will only be registered once.
func Register() {
	registerOnce.Do(func() {
		// Apply metrics
		prometheus.MustRegister(ApplyDuration)
		prometheus.MustRegister(ApplyTotal)
		prometheus.MustRegister(ApplyRetryTotal)
		prometheus.MustRegister(VerifyDuration)

		// Backend metrics
		prometheus.MustRegister(BackendOperationDuration)
		prometheus.MustRegister(BackendOperationTotal)

		// Checkpoint metrics
		prometheus.MustRegister(CheckpointsInFlight)
		prometheus.MustRegister(CheckpointExtendTotal)
		prometheus.MustRegister(CheckpointExpiredTotal)

		// Policy metrics
		prometheus.MustRegister(PolicyEvalDuration)
		prometheus.MustRegister(PolicyEvalTotal)
	})
}
