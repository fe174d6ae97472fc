package apply

import (
	"context"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmstate/nmstate-go/pkg/backend/memory"
	"github.com/nmstate/nmstate-go/pkg/backendapi"
	"github.com/nmstate/nmstate-go/pkg/model"
	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

func testOptions() Options {
	return Options{
		Timeout:             time.Second,
		RetryBaseInterval:   time.Millisecond,
		RetryMaxAttempts:    1,
		VerifyRetryAttempts: 3,
		VerifyRetryInterval: time.Millisecond,
	}
}

func ethState(name string) *model.NetworkState {
	return &model.NetworkState{
		Interfaces: model.Interfaces{
			{Ethernet: &model.EthernetInterface{Base: model.BaseInterface{
				Name: name, Type: model.TypeEthernet, State: model.StateUp,
			}}},
		},
	}
}

func TestOrchestratorApplyCommitsOnSuccess(t *testing.T) {
	backend := memory.New(model.NetworkState{})
	prober := memory.NewProbe(backend)

	o := &Orchestrator{Backend: backend, Probe: prober, Log: logr.Discard(), Opts: testOptions()}

	result, err := o.Apply(context.Background(), ethState("eth0"))
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.FinalState)
}

// failingPushBackend wraps memory.Backend's CreateCheckpoint/CurrentState
// but always fails PushProfiles, to exercise the rollback path without
// needing a second in-memory implementation.
type failingPushBackend struct {
	*memory.Backend
}

func (b *failingPushBackend) PushProfiles(context.Context, backendapi.CheckpointToken, []backendapi.InterfaceProfile) error {
	return nmerror.Retryable(assertErr, "push always fails in this test")
}

var assertErr = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }

func TestOrchestratorApplyRollsBackOnPushFailure(t *testing.T) {
	backend := &failingPushBackend{Backend: memory.New(model.NetworkState{})}
	prober := memory.NewProbe(backend.Backend)

	opts := testOptions()
	opts.RetryMaxAttempts = 1

	o := &Orchestrator{Backend: backend, Probe: prober, Log: logr.Discard(), Opts: opts}

	result, err := o.Apply(context.Background(), ethState("eth0"))
	require.Error(t, err)
	assert.Equal(t, StateRolledBack, result.FinalState)

	current, err := backend.CurrentState(context.Background())
	require.NoError(t, err)
	assert.Empty(t, current.Interfaces)
}

// staleProbe always reports an empty interface list, so verification
// never matches what was pushed.
type staleProbe struct{}

func (staleProbe) ProbeInterfaces(context.Context) (model.Interfaces, error) { return nil, nil }
func (staleProbe) ProbeRoutes(context.Context) (*model.Routes, error)       { return &model.Routes{}, nil }
func (staleProbe) ProbeRouteRules(context.Context) (*model.RouteRules, error) {
	return &model.RouteRules{}, nil
}
func (staleProbe) ProbeDNS(context.Context) (*model.DNSState, error) { return &model.DNSState{}, nil }

func TestOrchestratorApplyRollsBackOnVerifyMismatch(t *testing.T) {
	backend := memory.New(model.NetworkState{})

	opts := testOptions()
	opts.VerifyRetryAttempts = 1
	opts.VerifyRetryInterval = time.Millisecond

	o := &Orchestrator{Backend: backend, Probe: staleProbe{}, Log: logr.Discard(), Opts: opts}

	result, err := o.Apply(context.Background(), ethState("eth0"))
	require.Error(t, err)
	assert.Equal(t, StateRolledBack, result.FinalState)
	assert.Equal(t, nmerror.KindVerificationError, nmerror.KindOf(err))
}
