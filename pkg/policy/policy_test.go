package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nmstate/nmstate-go/pkg/model"
)

func decodeDoc(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestDecodeNetworkStateKeepsInterfaceVariants(t *testing.T) {
	doc := decodeDoc(t, `
interfaces:
  - name: eth0
    type: ethernet
    state: up
  - name: eth1
    type: ethernet
    state: up
  - name: bond0
    type: bond
    state: up
    link-aggregation:
      mode: active-backup
      port:
        - eth0
        - eth1
  - name: br0
    type: linux-bridge
    state: up
    bridge:
      port:
        - name: bond0
  - name: br0.10
    type: vlan
    state: up
    vlan:
      base-iface: br0
      id: 10
`)

	state, err := DecodeNetworkState(doc)
	require.NoError(t, err)
	require.Len(t, state.Interfaces, 5)

	byName := map[string]*model.Interface{}
	for i := range state.Interfaces {
		byName[state.Interfaces[i].Name()] = &state.Interfaces[i]
	}

	bond := byName["bond0"]
	require.NotNil(t, bond.Bond, "bond0 must decode into the Bond variant, not Ethernet")
	assert.Equal(t, model.TypeBond, bond.Base().Type)
	require.NotNil(t, bond.Bond.Bond)
	assert.Equal(t, model.BondModeActiveBackup, bond.Bond.Bond.Mode)
	assert.Equal(t, []string{"eth0", "eth1"}, bond.Bond.Bond.Ports)

	bridge := byName["br0"]
	require.NotNil(t, bridge.LinuxBridge, "br0 must decode into the LinuxBridge variant")
	require.NotNil(t, bridge.LinuxBridge.Bridge)
	require.Len(t, bridge.LinuxBridge.Bridge.Ports, 1)
	assert.Equal(t, "bond0", bridge.LinuxBridge.Bridge.Ports[0].Name)

	vlan := byName["br0.10"]
	require.NotNil(t, vlan.Vlan, "br0.10 must decode into the Vlan variant")
	require.NotNil(t, vlan.Vlan.Vlan)
	assert.Equal(t, "br0", vlan.Vlan.Vlan.BaseIface)
	assert.Equal(t, 10, vlan.Vlan.Vlan.ID)

	eth0 := byName["eth0"]
	require.NotNil(t, eth0.Ethernet)
	assert.Equal(t, model.TypeEthernet, eth0.Base().Type)

	require.NoError(t, state.Validate())
	require.NoError(t, state.ValidateRef())
}

func TestDecodeNetworkStateDecodesOVSDBAndOVN(t *testing.T) {
	doc := decodeDoc(t, `
ovs-db:
  external_ids:
    foo: bar
ovn:
  bridge-mappings:
    - localnet: physnet1
      bridge: br-ex
`)

	state, err := DecodeNetworkState(doc)
	require.NoError(t, err)

	require.NotNil(t, state.OVSDB)
	assert.Equal(t, "bar", state.OVSDB.ExternalIDs["foo"])

	require.NotNil(t, state.OVN)
	require.Len(t, state.OVN.BridgeMappings, 1)
	assert.Equal(t, "physnet1", state.OVN.BridgeMappings[0].Localnet)
	assert.Equal(t, "br-ex", state.OVN.BridgeMappings[0].Bridge)
}

func TestDecodeNetworkStateOVNEmptyBridgeMappingsPurges(t *testing.T) {
	doc := decodeDoc(t, `
ovn:
  bridge-mappings: []
`)

	state, err := DecodeNetworkState(doc)
	require.NoError(t, err)
	require.NotNil(t, state.OVN)
	assert.True(t, state.OVN.IsEmpty())
}
