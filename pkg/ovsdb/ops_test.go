package ovsdb

import (
	"testing"

	"github.com/ovn-org/libovsdb/ovsdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmstate/nmstate-go/pkg/backend"
	"github.com/nmstate/nmstate-go/pkg/model"
)

func TestBuildBridgeInsertOpsSimplePort(t *testing.T) {
	iface := &model.OvsBridgeInterface{
		Base: model.BaseInterface{Name: "br0", Type: model.TypeOvsBridge},
		Bridge: &model.OvsBridgeConfig{
			Ports: []model.OvsBridgePortConfig{{Name: "eth0"}},
		},
	}
	plan := backend.PlanOvsBridge(iface)

	ops := BuildBridgeInsertOps(plan)
	require.Len(t, ops, 3) // 1 interface + 1 port + 1 bridge

	assert.Equal(t, "Interface", ops[0].Table)
	assert.Equal(t, "eth0", ops[0].Row["name"])

	assert.Equal(t, "Port", ops[1].Table)
	assert.Equal(t, "eth0", ops[1].Row["name"])

	assert.Equal(t, "Bridge", ops[2].Table)
	assert.Equal(t, "br0", ops[2].Row["name"])
}

func TestBuildBridgeInsertOpsBondedPort(t *testing.T) {
	iface := &model.OvsBridgeInterface{
		Base: model.BaseInterface{Name: "br0", Type: model.TypeOvsBridge},
		Bridge: &model.OvsBridgeConfig{
			Ports: []model.OvsBridgePortConfig{{
				Name: "bond0",
				LinkAggregation: &model.OvsBridgeBondConfig{
					Ports: []string{"eth0", "eth1"},
				},
			}},
		},
	}
	plan := backend.PlanOvsBridge(iface)

	ops := BuildBridgeInsertOps(plan)
	require.Len(t, ops, 4) // 2 interfaces + 1 port + 1 bridge

	assert.Equal(t, "Interface", ops[0].Table)
	assert.Equal(t, "Interface", ops[1].Table)
	assert.Equal(t, "Port", ops[2].Table)

	ifaceSet, ok := ops[2].Row["interfaces"].([]ovsdb.UUID)
	require.True(t, ok)
	assert.Len(t, ifaceSet, 2)
}
