package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmstate/nmstate-go/pkg/model"
)

func ptr(i int) *int { return &i }

func ethernet(name string, state model.InterfaceState) model.Interface {
	return model.Interface{Ethernet: &model.EthernetInterface{Base: model.BaseInterface{
		Name: name, Type: model.TypeEthernet, State: state,
	}}}
}

func bondOverEthernets(name string, ports []string) model.Interface {
	return model.Interface{Bond: &model.BondInterface{
		Base: model.BaseInterface{Name: name, Type: model.TypeBond, State: model.StateUp},
		Bond: &model.BondConfig{Mode: model.BondModeActiveBackup, Ports: ports},
	}}
}

func bridgeOverPorts(name string, ports ...string) model.Interface {
	portConfigs := make([]model.LinuxBridgePortConfig, len(ports))
	for i, p := range ports {
		portConfigs[i] = model.LinuxBridgePortConfig{Name: p}
	}
	return model.Interface{LinuxBridge: &model.LinuxBridgeInterface{
		Base:   model.BaseInterface{Name: name, Type: model.TypeLinuxBridge, State: model.StateUp},
		Bridge: &model.LinuxBridgeConfig{Ports: portConfigs},
	}}
}

func vlanOverBase(name, base string, id int) model.Interface {
	return model.Interface{Vlan: &model.VlanInterface{
		Base: model.BaseInterface{Name: name, Type: model.TypeVlan, State: model.StateUp},
		Vlan: &model.VlanConfig{BaseIface: base, ID: id},
	}}
}

// TestMergeBondBridgeVlanScenario merges a bond-over-ethernets,
// bridge-over-bond, vlan-over-bridge desired state against an empty
// current state (S1: a full stacked interface hierarchy).
func TestMergeBondBridgeVlanScenario(t *testing.T) {
	desired := model.Interfaces{
		ethernet("eth0", model.StateUp),
		ethernet("eth1", model.StateUp),
		bondOverEthernets("bond0", []string{"eth0", "eth1"}),
		bridgeOverPorts("br0", "bond0"),
		vlanOverBase("br0.10", "br0", 10),
	}
	current := model.Interfaces{}

	merged, changed, err := MergeInterfaces(desired, current)
	require.NoError(t, err)
	require.Len(t, merged, 5)
	assert.ElementsMatch(t, []string{"eth0", "eth1", "bond0", "br0", "br0.10"}, changed)

	state := &model.NetworkState{Interfaces: merged}
	require.NoError(t, AssignUpPriority(state.Interfaces))
	require.NoError(t, state.Validate())
	require.NoError(t, state.ValidateRef())

	byName := map[string]*model.Interface{}
	for i := range merged {
		byName[merged[i].Name()] = &merged[i]
	}
	assert.Equal(t, 0, byName["eth0"].Base().UpPriority)
	assert.Equal(t, 0, byName["bond0"].Base().UpPriority)
}

func TestMergeInterfacesKeepsCurrentWhenDesiredAbsent(t *testing.T) {
	current := model.Interfaces{ethernet("eth0", model.StateUp), ethernet("eth1", model.StateUp)}
	desired := model.Interfaces{
		{Ethernet: &model.EthernetInterface{Base: model.BaseInterface{
			Name: "eth1", Type: model.TypeEthernet, State: model.StateAbsent,
		}}},
	}

	merged, changed, err := MergeInterfaces(desired, current)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "eth0", merged[0].Name())
	assert.Equal(t, []string{"eth1"}, changed)
}

func TestMergeInterfacesInheritsUnsetBaseFields(t *testing.T) {
	mtu := 1500
	current := model.Interfaces{
		{Ethernet: &model.EthernetInterface{Base: model.BaseInterface{
			Name: "eth0", Type: model.TypeEthernet, State: model.StateUp, MTU: &mtu,
		}}},
	}
	desired := model.Interfaces{
		{Ethernet: &model.EthernetInterface{Base: model.BaseInterface{
			Name: "eth0", Type: model.TypeEthernet,
		}}},
	}

	merged, _, err := MergeInterfaces(desired, current)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	require.NotNil(t, merged[0].Base().MTU)
	assert.Equal(t, mtu, *merged[0].Base().MTU)
	assert.Equal(t, model.StateUp, merged[0].Base().State)
}

func TestMergeCombinesRoutesOVNAndHostname(t *testing.T) {
	desired := &model.NetworkState{
		Routes: &model.Routes{Config: []model.RouteEntry{
			{Destination: "198.51.100.0/24", NextHopIface: "eth0"},
		}},
		OVN: &model.OvnConfiguration{BridgeMappings: []model.OvnBridgeMapping{
			{Localnet: "physnet1", Bridge: "br-ex"},
		}},
	}
	current := &model.NetworkState{
		Hostname: &model.HostnameState{Running: "host1", Config: "host1"},
		OVN: &model.OvnConfiguration{BridgeMappings: []model.OvnBridgeMapping{
			{Localnet: "physnet2", Bridge: "br-int"},
		}},
	}

	merged, err := Merge(desired, current)
	require.NoError(t, err)
	require.NotNil(t, merged.Result.Hostname)
	assert.Equal(t, "host1", merged.Result.Hostname.Running)
	require.Len(t, merged.Result.Routes.Config, 1)
	assert.ElementsMatch(t, []string{"physnet1", "physnet2"},
		[]string{merged.Result.OVN.BridgeMappings[0].Localnet, merged.Result.OVN.BridgeMappings[1].Localnet})
}

func TestMergeOVNEmptyBridgeMappingsPurgesCurrent(t *testing.T) {
	desired := &model.NetworkState{
		OVN: &model.OvnConfiguration{BridgeMappings: []model.OvnBridgeMapping{
			{Localnet: "physnet1", State: model.OvnBridgeMappingAbsent},
		}},
	}
	current := &model.NetworkState{
		OVN: &model.OvnConfiguration{BridgeMappings: []model.OvnBridgeMapping{
			{Localnet: "physnet1", Bridge: "br-ex"},
		}},
	}

	merged, err := Merge(desired, current)
	require.NoError(t, err)
	assert.True(t, merged.Result.OVN.IsEmpty())
}
