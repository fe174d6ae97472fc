// Package apply is the Apply Orchestrator: it
// drives a desired NetworkState through checkpoint creation, profile
// push with retry, kernel probing, verification, and commit or
// rollback. Grounded on pkg/ovn/subnet_controller.go's Reconcile
// retry/requeue shape, generalised into an explicit state machine,
// and on pkg/ovndb/transact.go's
// TransactWithRetry for the poll-until-success pattern.
package apply

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/nmstate/nmstate-go/pkg/backend"
	"github.com/nmstate/nmstate-go/pkg/backendapi"
	"github.com/nmstate/nmstate-go/pkg/merge"
	"github.com/nmstate/nmstate-go/pkg/metrics"
	"github.com/nmstate/nmstate-go/pkg/model"
	"github.com/nmstate/nmstate-go/pkg/nmerror"
	"github.com/nmstate/nmstate-go/pkg/verify"
)

// Options configures one Apply run.
type Options struct {
	Timeout             time.Duration
	RetryBaseInterval   time.Duration
	RetryMaxAttempts    int
	VerifyRetryAttempts int
	VerifyRetryInterval time.Duration
}

// Orchestrator drives the apply state machine against a Backend and Probe.
type Orchestrator struct {
	Backend backendapi.Backend
	Probe   backendapi.Probe
	Log     logr.Logger
	Opts    Options

	// OVSDB optionally pushes merged.Result.OVN's bridge-mapping list
	// to a real Open vSwitch database once the interface activation
	// above has committed. Nil skips this step entirely, which is what
	// the in-memory reference Backend run mode does.
	OVSDB backendapi.OVSDBPusher
}

// Result reports the outcome of one Apply run.
type Result struct {
	FinalState State
	Merged     *model.NetworkState
}

// Apply runs the full state machine for one desired NetworkState:
//
//	idle -> checkpoint-created -> pushed -> probed -> verified -> committed
//
// falling back to rolled-back from any of the checkpointed states on
// an unrecoverable error.
func (o *Orchestrator) Apply(ctx context.Context, desired *model.NetworkState) (*Result, error) {
	state := StateIdle
	timer := metrics.NewApplyTimer()
	defer timer.ObserveDuration()

	current, err := o.Backend.CurrentState(ctx)
	if err != nil {
		return nil, nmerror.Retryable(err, "failed to read current state")
	}

	merged, err := merge.Merge(desired, current)
	if err != nil {
		metrics.RecordApplyResult(false)
		return nil, err
	}
	if err := merge.ValidateMergeResult(merged); err != nil {
		metrics.RecordApplyResult(false)
		return nil, err
	}

	checkpointStart := time.Now()
	token, err := o.Backend.CreateCheckpoint(ctx, o.Opts.Timeout)
	metrics.RecordBackendOperation(metrics.OpCheckpoint, err, time.Since(checkpointStart))
	if err != nil {
		metrics.RecordApplyResult(false)
		return nil, nmerror.Retryable(err, "failed to create checkpoint")
	}
	state = StateCheckpointCreated
	o.Log.Info("checkpoint created", "state", state.String())
	metrics.IncrementCheckpointsInFlight()
	defer metrics.DecrementCheckpointsInFlight()

	guard := newCheckpointGuard(o.Backend, token, o.Opts.Timeout)

	rollback := func(cause error) (*Result, error) {
		o.Log.Error(cause, "rolling back checkpoint")
		rollbackStart := time.Now()
		rbErr := o.Backend.Rollback(ctx, token)
		metrics.RecordBackendOperation(metrics.OpRollback, rbErr, time.Since(rollbackStart))
		if rbErr != nil {
			o.Log.Error(rbErr, "rollback itself failed")
		}
		metrics.RecordApplyResult(false)
		return &Result{FinalState: StateRolledBack, Merged: merged.Result}, cause
	}

	profiles := backend.Translate(merged.Result, merged.ChangedInterfaces)

	pushStart := time.Now()
	pushErr := retryActivation(ctx, o.Opts.RetryBaseInterval, o.Opts.RetryMaxAttempts, func() error {
		if err := guard.extendIfHalfElapsed(ctx); err != nil {
			return err
		}
		return o.Backend.PushProfiles(ctx, token, profiles)
	})
	metrics.RecordBackendOperation(metrics.OpPush, pushErr, time.Since(pushStart))
	if pushErr != nil {
		if !canTransition(state, StateRolledBack) {
			return nil, nmerror.Bug("illegal transition from %s", state)
		}
		return rollback(pushErr)
	}
	state = StatePushed
	o.Log.Info("profiles pushed", "state", state.String(), "count", len(profiles))

	probeStart := time.Now()
	probed, probeErr := o.Probe.ProbeInterfaces(ctx)
	metrics.RecordBackendOperation(metrics.OpProbe, probeErr, time.Since(probeStart))
	if probeErr != nil {
		return rollback(nmerror.Retryable(probeErr, "failed to probe interfaces after push"))
	}
	state = StateProbed

	verifyStart := time.Now()
	verifyErr := wait.PollUntilContextTimeout(ctx, o.Opts.VerifyRetryInterval, o.verifyBudget(), true,
		func(ctx context.Context) (bool, error) {
			if err := guard.extendIfHalfElapsed(ctx); err != nil {
				return false, err
			}
			probed, probeErr = o.Probe.ProbeInterfaces(ctx)
			if probeErr != nil {
				return false, nil
			}
			verr := verify.VerifyInterfaces(merged.Result.Interfaces, probed)
			if verr == nil {
				return true, nil
			}
			return false, nil
		})
	metrics.RecordVerifyDuration(time.Since(verifyStart))
	if verifyErr != nil {
		return rollback(nmerror.New(nmerror.KindVerificationError, "desired state did not verify after apply"))
	}
	state = StateVerified
	o.Log.Info("state verified", "state", state.String())

	commitStart := time.Now()
	commitErr := o.Backend.Commit(ctx, token)
	metrics.RecordBackendOperation(metrics.OpCommit, commitErr, time.Since(commitStart))
	if commitErr != nil {
		return rollback(nmerror.Retryable(commitErr, "failed to commit checkpoint"))
	}
	state = StateCommitted
	o.Log.Info("checkpoint committed", "state", state.String())
	metrics.RecordApplyResult(true)

	if o.OVSDB != nil && !merged.Result.OVN.IsEmpty() {
		if err := o.OVSDB.PushOvnBridgeMappings(ctx, merged.Result.OVN); err != nil {
			o.Log.Error(err, "failed to push OVN bridge mappings")
			return &Result{FinalState: state, Merged: merged.Result}, nmerror.Retryable(err, "failed to push OVN bridge mappings")
		}
	}

	return &Result{FinalState: state, Merged: merged.Result}, nil
}

func (o *Orchestrator) verifyBudget() time.Duration {
	return time.Duration(o.Opts.VerifyRetryAttempts) * o.Opts.VerifyRetryInterval
}
