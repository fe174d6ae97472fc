package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmstate/nmstate-go/pkg/model"
)

func sampleState() *model.NetworkState {
	return &model.NetworkState{
		Interfaces: model.Interfaces{
			{Ethernet: &model.EthernetInterface{Base: model.BaseInterface{
				Name: "eth0", Type: model.TypeEthernet, State: model.StateUp,
			}}},
			{Ethernet: &model.EthernetInterface{Base: model.BaseInterface{
				Name: "eth1", Type: model.TypeEthernet, State: model.StateDown,
			}}},
		},
		Routes: &model.Routes{
			Running: []model.RouteEntry{
				{Destination: "0.0.0.0/0", NextHopIface: "eth0", NextHopAddress: "192.0.2.1"},
				{Destination: "198.51.100.0/24", NextHopIface: "eth1"},
			},
		},
	}
}

func TestCaptureCommandEqualFiltersInterfaces(t *testing.T) {
	cmd, err := ParseCaptureCommand(`interfaces.name == "eth0"`)
	require.NoError(t, err)

	result, err := cmd.Execute(sampleState(), nil)
	require.NoError(t, err)
	require.Len(t, result.Interfaces, 1)
	assert.Equal(t, "eth0", result.Interfaces[0].Name())
}

func TestCaptureCommandEqualFiltersRoutesByDestination(t *testing.T) {
	cmd, err := ParseCaptureCommand(`routes.running.destination == "0.0.0.0/0"`)
	require.NoError(t, err)

	result, err := cmd.Execute(sampleState(), nil)
	require.NoError(t, err)
	require.Len(t, result.Routes.Running, 1)
	assert.Equal(t, "eth0", result.Routes.Running[0].NextHopIface)
}

func TestCaptureCommandReplaceRewritesField(t *testing.T) {
	cmd, err := ParseCaptureCommand(`interfaces.state := "ignore"`)
	require.NoError(t, err)

	result, err := cmd.Execute(sampleState(), nil)
	require.NoError(t, err)
	require.Len(t, result.Interfaces, 2)
	for _, iface := range result.Interfaces {
		assert.Equal(t, model.StateIgnore, iface.Base().State)
	}
}

func TestCaptureRulesPipeline(t *testing.T) {
	rules, err := ParseCaptureRules(
		[]string{"default-gw", "default-gw-iface"},
		map[string]string{
			"default-gw":       `routes.running.destination == "0.0.0.0/0"`,
			"default-gw-iface": `interfaces.name == capture.default-gw.routes.running.0.next-hop-interface`,
		},
	)
	require.NoError(t, err)

	results, err := rules.Execute(sampleState())
	require.NoError(t, err)
	require.Contains(t, results, "default-gw")

	gwIface := results["default-gw-iface"]
	require.NotNil(t, gwIface)
	require.Len(t, gwIface.Interfaces, 1)
	assert.Equal(t, "eth0", gwIface.Interfaces[0].Name())
}

func TestCaptureCommandEqualNoMatchErrors(t *testing.T) {
	cmd, err := ParseCaptureCommand(`interfaces.name == "does-not-exist"`)
	require.NoError(t, err)

	_, err = cmd.Execute(sampleState(), nil)
	assert.Error(t, err)
}

func TestCaptureCommandUnknownCaptureErrors(t *testing.T) {
	cmd, err := ParseCaptureCommand(`capture.missing | interfaces.name == "eth0"`)
	require.NoError(t, err)

	_, err = cmd.Execute(sampleState(), nil)
	assert.Error(t, err)
}

func TestCaptureCommandBarePathRetainsOnlySection(t *testing.T) {
	cmd, err := ParseCaptureCommand("interfaces")
	require.NoError(t, err)

	result, err := cmd.Execute(sampleState(), nil)
	require.NoError(t, err)
	assert.Len(t, result.Interfaces, 2)
	assert.Nil(t, result.Routes)
}
