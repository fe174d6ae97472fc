package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordApplyResultIncrementsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(ApplyTotal.WithLabelValues(ResultSuccess))
	RecordApplyResult(true)
	assert.Equal(t, before+1, testutil.ToFloat64(ApplyTotal.WithLabelValues(ResultSuccess)))

	before = testutil.ToFloat64(ApplyTotal.WithLabelValues(ResultFailure))
	RecordApplyResult(false)
	assert.Equal(t, before+1, testutil.ToFloat64(ApplyTotal.WithLabelValues(ResultFailure)))
}

func TestRecordBackendOperationLabelsByResult(t *testing.T) {
	before := testutil.ToFloat64(BackendOperationTotal.WithLabelValues(OpPush, ResultSuccess))
	RecordBackendOperation(OpPush, nil, 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(BackendOperationTotal.WithLabelValues(OpPush, ResultSuccess)))

	before = testutil.ToFloat64(BackendOperationTotal.WithLabelValues(OpCommit, ResultFailure))
	RecordBackendOperation(OpCommit, assertErr, 5*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(BackendOperationTotal.WithLabelValues(OpCommit, ResultFailure)))
}

func TestCheckpointsInFlightGauge(t *testing.T) {
	before := testutil.ToFloat64(CheckpointsInFlight)
	IncrementCheckpointsInFlight()
	assert.Equal(t, before+1, testutil.ToFloat64(CheckpointsInFlight))
	DecrementCheckpointsInFlight()
	assert.Equal(t, before, testutil.ToFloat64(CheckpointsInFlight))
}

func TestRecordCheckpointExpiredIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(CheckpointExpiredTotal)
	RecordCheckpointExpired()
	assert.Equal(t, before+1, testutil.ToFloat64(CheckpointExpiredTotal))
}

func TestRecordPolicyEvalLabelsByResult(t *testing.T) {
	before := testutil.ToFloat64(PolicyEvalTotal.WithLabelValues(ResultSuccess))
	RecordPolicyEval(nil, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(PolicyEvalTotal.WithLabelValues(ResultSuccess)))
}

var assertErr = &simpleError{"boom"}

type simpleError struct{ msg string }

func (e *simpleError) Error() string { return e.msg }
