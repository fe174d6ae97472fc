package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmstate/nmstate-go/pkg/backendapi"
	"github.com/nmstate/nmstate-go/pkg/model"
	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

func ethProfile(name string) backendapi.InterfaceProfile {
	return backendapi.InterfaceProfile{Name: name, Type: model.TypeEthernet}
}

func TestPushProfilesCreatesInterface(t *testing.T) {
	ctx := context.Background()
	b := New(model.NetworkState{})

	token, err := b.CreateCheckpoint(ctx, time.Minute)
	require.NoError(t, err)

	require.NoError(t, b.PushProfiles(ctx, token, []backendapi.InterfaceProfile{ethProfile("eth0")}))

	current, err := b.CurrentState(ctx)
	require.NoError(t, err)
	require.Len(t, current.Interfaces, 1)
	assert.Equal(t, "eth0", current.Interfaces[0].Base().Name)
	assert.Equal(t, model.StateUp, current.Interfaces[0].Base().State)
}

func TestPushProfilesUnknownCheckpointConflicts(t *testing.T) {
	ctx := context.Background()
	b := New(model.NetworkState{})

	err := b.PushProfiles(ctx, backendapi.CheckpointToken("bogus"), nil)
	require.Error(t, err)
	assert.Equal(t, nmerror.KindCheckpointConflict, nmerror.KindOf(err))
}

func TestRollbackRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	b := New(model.NetworkState{})

	token, err := b.CreateCheckpoint(ctx, time.Minute)
	require.NoError(t, err)

	require.NoError(t, b.PushProfiles(ctx, token, []backendapi.InterfaceProfile{ethProfile("eth0")}))
	require.NoError(t, b.Rollback(ctx, token))

	current, err := b.CurrentState(ctx)
	require.NoError(t, err)
	assert.Empty(t, current.Interfaces)

	// the token is gone once rolled back
	err = b.Commit(ctx, token)
	require.Error(t, err)
}

func TestCommitDiscardsCheckpointKeepingState(t *testing.T) {
	ctx := context.Background()
	b := New(model.NetworkState{})

	token, err := b.CreateCheckpoint(ctx, time.Minute)
	require.NoError(t, err)
	require.NoError(t, b.PushProfiles(ctx, token, []backendapi.InterfaceProfile{ethProfile("eth0")}))
	require.NoError(t, b.Commit(ctx, token))

	current, err := b.CurrentState(ctx)
	require.NoError(t, err)
	require.Len(t, current.Interfaces, 1)

	assert.Empty(t, b.ExpiredCheckpoints(time.Now().Add(time.Hour)))
}

func TestExtendCheckpointDelaysExpiry(t *testing.T) {
	ctx := context.Background()
	b := New(model.NetworkState{})

	token, err := b.CreateCheckpoint(ctx, time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, b.ExtendCheckpoint(ctx, token, time.Hour))

	assert.Empty(t, b.ExpiredCheckpoints(time.Now().Add(time.Minute)))
}

func TestExpiredCheckpointsReportsPastDeadline(t *testing.T) {
	ctx := context.Background()
	b := New(model.NetworkState{})

	token, err := b.CreateCheckpoint(ctx, time.Millisecond)
	require.NoError(t, err)

	expired := b.ExpiredCheckpoints(time.Now().Add(time.Second))
	require.Len(t, expired, 1)
	assert.Equal(t, token, expired[0])
}

func TestProbePairsWithBackendLiveState(t *testing.T) {
	ctx := context.Background()
	b := New(model.NetworkState{})
	p := NewProbe(b)

	token, err := b.CreateCheckpoint(ctx, time.Minute)
	require.NoError(t, err)
	require.NoError(t, b.PushProfiles(ctx, token, []backendapi.InterfaceProfile{ethProfile("eth0")}))
	require.NoError(t, b.Commit(ctx, token))

	ifaces, err := p.ProbeInterfaces(ctx)
	require.NoError(t, err)
	require.Len(t, ifaces, 1)
	assert.Equal(t, "eth0", ifaces[0].Base().Name)
}
