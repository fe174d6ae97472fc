package memory

import (
	"context"

	"github.com/nmstate/nmstate-go/pkg/model"
)

// Probe is a backendapi.Probe view over a Backend's own live state,
// pairing with it so a demo run can verify against exactly what
// PushProfiles wrote rather than the real kernel. A real deployment
// pairs a NetworkManager-like Backend with pkg/probe/netlinkprobe
// instead.
type Probe struct {
	backend *Backend
}

// NewProbe returns a Probe reading back b's live state.
func NewProbe(b *Backend) *Probe {
	return &Probe{backend: b}
}

// ProbeInterfaces returns the backend's live interfaces.
func (p *Probe) ProbeInterfaces(ctx context.Context) (model.Interfaces, error) {
	current, err := p.backend.CurrentState(ctx)
	if err != nil {
		return nil, err
	}
	return current.Interfaces, nil
}

// ProbeRoutes returns the backend's live routes.
func (p *Probe) ProbeRoutes(ctx context.Context) (*model.Routes, error) {
	current, err := p.backend.CurrentState(ctx)
	if err != nil {
		return nil, err
	}
	return current.Routes, nil
}

// ProbeRouteRules returns the backend's live route rules.
func (p *Probe) ProbeRouteRules(ctx context.Context) (*model.RouteRules, error) {
	current, err := p.backend.CurrentState(ctx)
	if err != nil {
		return nil, err
	}
	return current.RouteRules, nil
}

// ProbeDNS returns the backend's live DNS state.
func (p *Probe) ProbeDNS(ctx context.Context) (*model.DNSState, error) {
	current, err := p.backend.CurrentState(ctx)
	if err != nil {
		return nil, err
	}
	return current.DNS, nil
}
