// Package backendapi declares the capability interfaces the Apply
// Orchestrator (pkg/apply) drives: a NetworkManager-like Backend that
// owns checkpoints and profile activation, and the lower-level OVSDB
// and kernel Probe capabilities a backend composes. Real transport
// (D-Bus, a NetworkManager socket) is out of scope; these shapes are
// what pkg/backend/memory implements for tests and cmd/nmstatectl's
// default run mode.
package backendapi

import (
	"context"
	"time"

	"github.com/nmstate/nmstate-go/pkg/model"
)

// CheckpointToken identifies a live checkpoint.
type CheckpointToken string

// Backend is the capability the Apply Orchestrator drives: create a
// checkpoint, push profiles, commit or roll back.
type Backend interface {
	// CreateCheckpoint snapshots current state and returns a token that
	// can later be committed or rolled back to.
	CreateCheckpoint(ctx context.Context, timeout time.Duration) (CheckpointToken, error)

	// ExtendCheckpoint resets the checkpoint's auto-rollback timer.
	ExtendCheckpoint(ctx context.Context, token CheckpointToken, timeout time.Duration) error

	// PushProfiles activates the given interface profiles against the
	// checkpointed state. Errors from this call are retried by the
	// orchestrator per the retry backoff policy when they carry
	// nmerror.KindRetryable.
	PushProfiles(ctx context.Context, token CheckpointToken, profiles []InterfaceProfile) error

	// Commit finalises the checkpoint, making changes permanent.
	Commit(ctx context.Context, token CheckpointToken) error

	// Rollback reverts to the state captured at checkpoint creation.
	Rollback(ctx context.Context, token CheckpointToken) error

	// CurrentState returns the backend's view of current state, used
	// by the Merger and Verifier.
	CurrentState(ctx context.Context) (*model.NetworkState, error)
}

// InterfaceProfile is the Backend Translator's output: one interface's
// desired state translated into whatever shape the backend pushes.
type InterfaceProfile struct {
	Name       string
	Type       model.InterfaceType
	Settings   map[string]interface{}
	UpPriority int
}

// Probe is the read-only kernel/hardware query capability: it reports
// current interface/route/route-rule state the Verifier compares
// against the merged desired state.
type Probe interface {
	ProbeInterfaces(ctx context.Context) (model.Interfaces, error)
	ProbeRoutes(ctx context.Context) (*model.Routes, error)
	ProbeRouteRules(ctx context.Context) (*model.RouteRules, error)
	ProbeDNS(ctx context.Context) (*model.DNSState, error)
}

// CheckpointReaper is an optional Backend capability: a backend that
// tracks its own auto-rollback deadlines can report which checkpoints
// have expired, so a long-running process can roll them back and free
// the backend's bookkeeping instead of leaving them until the next
// operation happens to notice.
type CheckpointReaper interface {
	ExpiredCheckpoints(now time.Time) []CheckpointToken
}

// OVSDBPusher is the OVSDB capability's narrow write surface: pushing
// a merged OvnConfiguration's bridge-mapping list to a real Open
// vSwitch database. It is kept separate from Backend rather than
// folded into it, since most of what the orchestrator activates
// (interfaces, routes, DNS) has nothing to do with OVSDB, and the
// in-memory reference Backend has no database to write to.
type OVSDBPusher interface {
	PushOvnBridgeMappings(ctx context.Context, cfg *model.OvnConfiguration) error
}
