// Package metrics provides Prometheus metrics for the nmstate engine.
package metrics

import (
	"time"
)

// Result constants for metric labels
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Backend operation constants
const (
	OpPush     = "push"
	OpProbe    = "probe"
	OpCommit   = "commit"
	OpRollback = "rollback"
	OpCheckpoint = "checkpoint"
)

// ApplyTimer is a helper for measuring a full apply run's duration.
type ApplyTimer struct {
	start time.Time
}

// NewApplyTimer creates a new timer starting from now.
func NewApplyTimer() *ApplyTimer {
	return &ApplyTimer{start: time.Now()}
}

// ObserveDuration records the elapsed time since the timer was created
// into ApplyDuration and returns it.
func (t *ApplyTimer) ObserveDuration() time.Duration {
	d := time.Since(t.start)
	ApplyDuration.Observe(d.Seconds())
	return d
}

// RecordApplyResult records the outcome of a completed apply run.
func RecordApplyResult(success bool) {
	result := ResultSuccess
	if !success {
		result = ResultFailure
	}
	ApplyTotal.WithLabelValues(result).Inc()
}

// RecordBackendOperation records a backend push/probe/commit/rollback/checkpoint metric.
//
// Parameters:
//   - operation: one of OpPush, OpProbe, OpCommit, OpRollback, OpCheckpoint
//   - err: the error from the operation (nil for success)
//   - duration: the duration of the operation
func RecordBackendOperation(operation string, err error, duration time.Duration) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}

	BackendOperationDuration.WithLabelValues(operation, result).Observe(duration.Seconds())
	BackendOperationTotal.WithLabelValues(operation, result).Inc()
}

// RecordVerifyDuration records the time spent in the verify-retry loop.
func RecordVerifyDuration(duration time.Duration) {
	VerifyDuration.Observe(duration.Seconds())
}

// RecordCheckpointExtend records a checkpoint deadline extension.
func RecordCheckpointExtend() {
	CheckpointExtendTotal.Inc()
}

// RecordCheckpointExpired records a checkpoint that auto-rolled-back
// because nothing committed it before its deadline.
func RecordCheckpointExpired() {
	CheckpointExpiredTotal.Inc()
}

// IncrementCheckpointsInFlight increments the open-checkpoints gauge.
func IncrementCheckpointsInFlight() {
	CheckpointsInFlight.Inc()
}

// DecrementCheckpointsInFlight decrements the open-checkpoints gauge.
func DecrementCheckpointsInFlight() {
	CheckpointsInFlight.Dec()
}

// RecordActivationRetry records one retried activation attempt.
func RecordActivationRetry() {
	ApplyRetryTotal.Inc()
}

// RecordPolicyEval records a policy capture/template evaluation.
func RecordPolicyEval(err error, duration time.Duration) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	PolicyEvalDuration.WithLabelValues(result).Observe(duration.Seconds())
	PolicyEvalTotal.WithLabelValues(result).Inc()
}
