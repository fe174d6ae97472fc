package apply

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmstate/nmstate-go/pkg/backend/memory"
	"github.com/nmstate/nmstate-go/pkg/model"
	"github.com/nmstate/nmstate-go/pkg/verify"
)

func newOrchestrator(initial model.NetworkState) (*Orchestrator, *memory.Backend) {
	backend := memory.New(initial)
	prober := memory.NewProbe(backend)
	return &Orchestrator{Backend: backend, Probe: prober, Log: logr.Discard(), Opts: testOptions()}, backend
}

// TestApplyBondBridgeVlanHierarchy applies a bond built over two
// ethernets, a linux bridge built over the bond, and a VLAN built over
// the bridge, in one desired document, and checks every layer commits
// and activates in controller-before-port order.
func TestApplyBondBridgeVlanHierarchy(t *testing.T) {
	o, backend := newOrchestrator(model.NetworkState{})

	desired := &model.NetworkState{
		Interfaces: model.Interfaces{
			{Ethernet: &model.EthernetInterface{Base: model.BaseInterface{
				Name: "eth0", Type: model.TypeEthernet, State: model.StateUp,
				Controller: "bond0", ControllerType: model.TypeBond,
			}}},
			{Ethernet: &model.EthernetInterface{Base: model.BaseInterface{
				Name: "eth1", Type: model.TypeEthernet, State: model.StateUp,
				Controller: "bond0", ControllerType: model.TypeBond,
			}}},
			{Bond: &model.BondInterface{
				Base: model.BaseInterface{
					Name: "bond0", Type: model.TypeBond, State: model.StateUp,
					Controller: "br0", ControllerType: model.TypeLinuxBridge,
				},
				Bond: &model.BondConfig{Mode: model.BondModeActiveBackup, Ports: []string{"eth0", "eth1"}},
			}},
			{LinuxBridge: &model.LinuxBridgeInterface{
				Base: model.BaseInterface{Name: "br0", Type: model.TypeLinuxBridge, State: model.StateUp},
				Bridge: &model.LinuxBridgeConfig{Ports: []model.LinuxBridgePortConfig{
					{Name: "bond0"},
				}},
			}},
			{Vlan: &model.VlanInterface{
				Base: model.BaseInterface{Name: "br0.10", Type: model.TypeVlan, State: model.StateUp},
				Vlan: &model.VlanConfig{BaseIface: "br0", ID: 10},
			}},
		},
	}

	result, err := o.Apply(context.Background(), desired)
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.FinalState)

	current, err := backend.CurrentState(context.Background())
	require.NoError(t, err)
	require.Len(t, current.Interfaces, 5)

	bond := current.Interfaces.ByName("bond0")
	br := current.Interfaces.ByName("br0")
	require.NotNil(t, bond)
	require.NotNil(t, br)
	assert.Less(t, br.Base().UpPriority, bond.Base().UpPriority,
		"br0 must activate before the bond0 it controls")
}

// TestApplyRemovesAbsentInterface applies a desired state that marks
// an existing interface absent and checks it is gone after commit.
func TestApplyRemovesAbsentInterface(t *testing.T) {
	initial := model.NetworkState{Interfaces: model.Interfaces{
		{Ethernet: &model.EthernetInterface{Base: model.BaseInterface{
			Name: "eth0", Type: model.TypeEthernet, State: model.StateUp,
		}}},
	}}
	o, backend := newOrchestrator(initial)

	desired := &model.NetworkState{Interfaces: model.Interfaces{
		{Ethernet: &model.EthernetInterface{Base: model.BaseInterface{
			Name: "eth0", Type: model.TypeEthernet, State: model.StateAbsent,
		}}},
	}}

	result, err := o.Apply(context.Background(), desired)
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.FinalState)

	current, err := backend.CurrentState(context.Background())
	require.NoError(t, err)
	assert.Empty(t, current.Interfaces)
}

// fakeOVSDBPusher records the OVN bridge-mapping configuration it was
// asked to push, standing in for a real OVSDB transaction.
type fakeOVSDBPusher struct {
	pushed *model.OvnConfiguration
}

func (f *fakeOVSDBPusher) PushOvnBridgeMappings(_ context.Context, cfg *model.OvnConfiguration) error {
	f.pushed = cfg
	return nil
}

// TestApplyPushesOVNBridgeMappingsAfterCommit checks OVN bridge
// mappings reach the OVSDB pusher once interface activation commits.
func TestApplyPushesOVNBridgeMappingsAfterCommit(t *testing.T) {
	o, _ := newOrchestrator(model.NetworkState{})
	pusher := &fakeOVSDBPusher{}
	o.OVSDB = pusher

	desired := &model.NetworkState{
		OVN: &model.OvnConfiguration{BridgeMappings: []model.OvnBridgeMapping{
			{Localnet: "physnet1", Bridge: "br-ex"},
		}},
	}

	result, err := o.Apply(context.Background(), desired)
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.FinalState)

	require.NotNil(t, pusher.pushed)
	require.Len(t, pusher.pushed.BridgeMappings, 1)
	assert.Equal(t, "physnet1", pusher.pushed.BridgeMappings[0].Localnet)
}

// TestApplyOVNEmptyBridgeMappingsSkipsPush checks that a desired
// bridge-mappings list removing every current mapping, which leaves the
// merged list empty (the purge-everything boundary case), never
// reaches the OVSDB pusher.
func TestApplyOVNEmptyBridgeMappingsSkipsPush(t *testing.T) {
	initial := model.NetworkState{
		OVN: &model.OvnConfiguration{BridgeMappings: []model.OvnBridgeMapping{
			{Localnet: "physnet1", Bridge: "br-ex"},
		}},
	}
	o, _ := newOrchestrator(initial)
	pusher := &fakeOVSDBPusher{}
	o.OVSDB = pusher

	desired := &model.NetworkState{
		OVN: &model.OvnConfiguration{BridgeMappings: []model.OvnBridgeMapping{
			{Localnet: "physnet1", State: model.OvnBridgeMappingAbsent},
		}},
	}

	result, err := o.Apply(context.Background(), desired)
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.FinalState)
	assert.Nil(t, pusher.pushed)
}

// TestVerifyToleratesMulticastIntervalRounding checks a ±1 kernel-HZ
// drift on a multicast interval timer is tolerated; the same drift on
// an STP timer is checked by TestVerifyRejectsSTPTimerRoundingDrift.
func TestVerifyToleratesMulticastIntervalRounding(t *testing.T) {
	want := 25500
	got := 25501
	desired := model.Interfaces{{LinuxBridge: model.NewLinuxBridgeInterface("br0")}}
	desired[0].LinuxBridge.Bridge = &model.LinuxBridgeConfig{Options: &model.LinuxBridgeOptions{
		MulticastQuerierInterval: &want,
	}}
	probed := model.Interfaces{{LinuxBridge: model.NewLinuxBridgeInterface("br0")}}
	probed[0].LinuxBridge.Bridge = &model.LinuxBridgeConfig{Options: &model.LinuxBridgeOptions{
		MulticastQuerierInterval: &got,
	}}

	assert.NoError(t, verify.VerifyInterfaces(desired, probed))
}

func TestVerifyRejectsSTPTimerRoundingDrift(t *testing.T) {
	want := 2
	got := 3
	desired := model.Interfaces{{LinuxBridge: model.NewLinuxBridgeInterface("br0")}}
	desired[0].LinuxBridge.Bridge = &model.LinuxBridgeConfig{Options: &model.LinuxBridgeOptions{
		STP: &model.LinuxBridgeStpOptions{HelloTime: &want},
	}}
	probed := model.Interfaces{{LinuxBridge: model.NewLinuxBridgeInterface("br0")}}
	probed[0].LinuxBridge.Bridge = &model.LinuxBridgeConfig{Options: &model.LinuxBridgeOptions{
		STP: &model.LinuxBridgeStpOptions{HelloTime: &got},
	}}

	err := verify.VerifyInterfaces(desired, probed)
	require.Error(t, err)
}
