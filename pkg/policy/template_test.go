package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmstate/nmstate-go/pkg/model"
)

func TestApplyTemplateNoReferencePassesThrough(t *testing.T) {
	out, err := ApplyTemplate("eth0", nil)
	require.NoError(t, err)
	assert.Equal(t, "eth0", out)
}

func TestApplyTemplateSubstitutesCapturedField(t *testing.T) {
	captures := map[string]*model.NetworkState{
		"default-gw": {
			Interfaces: model.Interfaces{
				{Ethernet: &model.EthernetInterface{Base: model.BaseInterface{Name: "eth0", Type: model.TypeEthernet}}},
			},
		},
	}

	out, err := ApplyTemplate("{{ capture.default-gw.interfaces.0.name }}", captures)
	require.NoError(t, err)
	assert.Equal(t, "eth0", out)
}

func TestApplyTemplateUnknownCaptureErrors(t *testing.T) {
	_, err := ApplyTemplate("{{ capture.missing.interfaces.0.name }}", map[string]*model.NetworkState{})
	assert.Error(t, err)
}

func TestApplyTemplateUnknownPathErrors(t *testing.T) {
	captures := map[string]*model.NetworkState{
		"default-gw": {
			Interfaces: model.Interfaces{
				{Ethernet: &model.EthernetInterface{Base: model.BaseInterface{Name: "eth0", Type: model.TypeEthernet}}},
			},
		},
	}
	_, err := ApplyTemplate("{{ capture.default-gw.interfaces.0.nonexistent }}", captures)
	assert.Error(t, err)
}
