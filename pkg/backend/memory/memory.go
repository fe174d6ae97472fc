// Package memory implements an in-memory reference Backend
// (pkg/backendapi.Backend), used by cmd/nmstatectl's default run mode
// and by pkg/apply's tests. It holds one NetworkState plus one
// snapshot per live checkpoint token, mirroring the client-facade shape of
// pkg/ovndb's Client/Ops types (a struct holding protected state
// behind a mutex, with narrow typed methods) but storing state in a Go
// map instead of talking to a real database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nmstate/nmstate-go/pkg/backendapi"
	"github.com/nmstate/nmstate-go/pkg/model"
	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

type checkpoint struct {
	snapshot  model.NetworkState
	createdAt time.Time
	deadline  time.Time
}

// Backend is the in-memory reference implementation.
type Backend struct {
	mu          sync.Mutex
	state       model.NetworkState
	checkpoints map[backendapi.CheckpointToken]*checkpoint
}

// New returns a Backend seeded with the given initial state.
func New(initial model.NetworkState) *Backend {
	return &Backend{
		state:       initial,
		checkpoints: map[backendapi.CheckpointToken]*checkpoint{},
	}
}

// CreateCheckpoint snapshots the current state.
func (b *Backend) CreateCheckpoint(_ context.Context, timeout time.Duration) (backendapi.CheckpointToken, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	token := backendapi.CheckpointToken(uuid.NewString())
	now := time.Now()
	b.checkpoints[token] = &checkpoint{
		snapshot:  b.state,
		createdAt: now,
		deadline:  now.Add(timeout),
	}
	return token, nil
}

// ExtendCheckpoint resets the auto-rollback deadline.
func (b *Backend) ExtendCheckpoint(_ context.Context, token backendapi.CheckpointToken, timeout time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cp, ok := b.checkpoints[token]
	if !ok {
		return nmerror.CheckpointConflict(string(token))
	}
	cp.deadline = time.Now().Add(timeout)
	return nil
}

// PushProfiles applies interface profiles onto the live state. A
// profile naming an interface that does not exist yet creates a
// minimal placeholder entry; anything beyond name/type/up_priority is
// opaque settings this reference backend does not interpret (a real
// backend would translate Settings into kernel/NetworkManager calls).
func (b *Backend) PushProfiles(_ context.Context, token backendapi.CheckpointToken, profiles []backendapi.InterfaceProfile) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.checkpoints[token]; !ok {
		return nmerror.CheckpointConflict(string(token))
	}

	for _, profile := range profiles {
		iface := b.state.Interfaces.ByKey(model.Key{Name: profile.Name, Type: profile.Type})
		if iface == nil {
			created, err := model.NewInterface(profile.Name, profile.Type)
			if err != nil {
				return err
			}
			b.state.Interfaces = append(b.state.Interfaces, *created)
			iface = &b.state.Interfaces[len(b.state.Interfaces)-1]
		}
		iface.Base().UpPriority = profile.UpPriority
		iface.Base().State = model.StateUp
	}
	return nil
}

// Commit discards the checkpoint snapshot, making the pushed changes
// permanent (there is nothing more to do in-memory: the live state was
// already mutated by PushProfiles).
func (b *Backend) Commit(_ context.Context, token backendapi.CheckpointToken) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.checkpoints[token]; !ok {
		return nmerror.CheckpointConflict(string(token))
	}
	delete(b.checkpoints, token)
	return nil
}

// Rollback restores the state captured at checkpoint creation.
func (b *Backend) Rollback(_ context.Context, token backendapi.CheckpointToken) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cp, ok := b.checkpoints[token]
	if !ok {
		return nmerror.CheckpointConflict(string(token))
	}
	b.state = cp.snapshot
	delete(b.checkpoints, token)
	return nil
}

// CurrentState returns a copy of the live state.
func (b *Backend) CurrentState(_ context.Context) (*model.NetworkState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.state
	current.Interfaces = append(model.Interfaces(nil), b.state.Interfaces...)
	return &current, nil
}

// ExpiredCheckpoints returns tokens whose auto-rollback deadline has
// passed, for the orchestrator's background sweep.
func (b *Backend) ExpiredCheckpoints(now time.Time) []backendapi.CheckpointToken {
	b.mu.Lock()
	defer b.mu.Unlock()

	var expired []backendapi.CheckpointToken
	for token, cp := range b.checkpoints {
		if now.After(cp.deadline) {
			expired = append(expired, token)
		}
	}
	return expired
}
