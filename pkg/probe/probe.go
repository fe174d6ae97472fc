// Package probe re-exports the Probe capability contract
// (pkg/backendapi.Probe) so implementations live under a predictable
// import path (pkg/probe/netlinkprobe being the reference one) without
// every caller needing to import pkg/backendapi directly just to spell
// the interface name.
package probe

import "github.com/nmstate/nmstate-go/pkg/backendapi"

// Probe is the capability the apply orchestrator polls after a push to
// observe actual kernel/OVSDB state.
type Probe = backendapi.Probe
