package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nmstate/nmstate-go/pkg/model"
	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

func eth(name string, mtu int, state model.InterfaceState) model.Interface {
	m := mtu
	return model.Interface{Ethernet: &model.EthernetInterface{Base: model.BaseInterface{
		Name: name, Type: model.TypeEthernet, State: state, MTU: &m,
	}}}
}

func TestVerifyInterfacesMatch(t *testing.T) {
	desired := model.Interfaces{eth("eth0", 1500, model.StateUp)}
	probed := model.Interfaces{eth("eth0", 1500, model.StateUp)}

	assert.NoError(t, VerifyInterfaces(desired, probed))
}

func TestVerifyInterfacesMTUMismatch(t *testing.T) {
	desired := model.Interfaces{eth("eth0", 1500, model.StateUp)}
	probed := model.Interfaces{eth("eth0", 1400, model.StateUp)}

	err := VerifyInterfaces(desired, probed)
	if assert.Error(t, err) {
		assert.Equal(t, nmerror.KindVerificationError, nmerror.KindOf(err))
	}
}

func TestVerifyInterfacesMissing(t *testing.T) {
	desired := model.Interfaces{eth("eth0", 1500, model.StateUp)}
	probed := model.Interfaces{}

	err := VerifyInterfaces(desired, probed)
	assert.Error(t, err)
}

func TestVerifyInterfacesAbsentIsSkippedWhenGone(t *testing.T) {
	absent := eth("eth0", 0, model.StateAbsent)
	absent.Ethernet.Base.MTU = nil
	desired := model.Interfaces{absent}
	probed := model.Interfaces{}

	assert.NoError(t, VerifyInterfaces(desired, probed))
}

func TestVerifyInterfacesAbsentButStillPresentFails(t *testing.T) {
	absent := eth("eth0", 0, model.StateAbsent)
	absent.Ethernet.Base.MTU = nil
	desired := model.Interfaces{absent}
	probed := model.Interfaces{eth("eth0", 1500, model.StateUp)}

	assert.Error(t, VerifyInterfaces(desired, probed))
}

func TestVerifyLinuxBridgeMulticastIntervalRoundingTolerated(t *testing.T) {
	want := 25500
	got := 25501
	d := model.Interface{LinuxBridge: &model.LinuxBridgeInterface{
		Base: model.BaseInterface{Name: "br0", Type: model.TypeLinuxBridge, State: model.StateUp},
		Bridge: &model.LinuxBridgeConfig{Options: &model.LinuxBridgeOptions{
			MulticastQuerierInterval: &want,
		}},
	}}
	p := model.Interface{LinuxBridge: &model.LinuxBridgeInterface{
		Base: model.BaseInterface{Name: "br0", Type: model.TypeLinuxBridge, State: model.StateUp},
		Bridge: &model.LinuxBridgeConfig{Options: &model.LinuxBridgeOptions{
			MulticastQuerierInterval: &got,
		}},
	}}

	assert.NoError(t, VerifyInterfaces(model.Interfaces{d}, model.Interfaces{p}))
}

func TestVerifyLinuxBridgeMulticastIntervalOutsideToleranceFails(t *testing.T) {
	want := 25500
	got := 25600
	d := model.Interface{LinuxBridge: &model.LinuxBridgeInterface{
		Base: model.BaseInterface{Name: "br0", Type: model.TypeLinuxBridge, State: model.StateUp},
		Bridge: &model.LinuxBridgeConfig{Options: &model.LinuxBridgeOptions{
			MulticastQuerierInterval: &want,
		}},
	}}
	p := model.Interface{LinuxBridge: &model.LinuxBridgeInterface{
		Base: model.BaseInterface{Name: "br0", Type: model.TypeLinuxBridge, State: model.StateUp},
		Bridge: &model.LinuxBridgeConfig{Options: &model.LinuxBridgeOptions{
			MulticastQuerierInterval: &got,
		}},
	}}

	assert.Error(t, VerifyInterfaces(model.Interfaces{d}, model.Interfaces{p}))
}

func TestVerifyLinuxBridgeSTPNeverTolerated(t *testing.T) {
	want := 2
	got := 3
	d := model.Interface{LinuxBridge: &model.LinuxBridgeInterface{
		Base: model.BaseInterface{Name: "br0", Type: model.TypeLinuxBridge, State: model.StateUp},
		Bridge: &model.LinuxBridgeConfig{Options: &model.LinuxBridgeOptions{
			STP: &model.LinuxBridgeStpOptions{HelloTime: &want},
		}},
	}}
	p := model.Interface{LinuxBridge: &model.LinuxBridgeInterface{
		Base: model.BaseInterface{Name: "br0", Type: model.TypeLinuxBridge, State: model.StateUp},
		Bridge: &model.LinuxBridgeConfig{Options: &model.LinuxBridgeOptions{
			STP: &model.LinuxBridgeStpOptions{HelloTime: &got},
		}},
	}}

	err := VerifyInterfaces(model.Interfaces{d}, model.Interfaces{p})
	if assert.Error(t, err) {
		assert.Equal(t, nmerror.KindVerificationError, nmerror.KindOf(err))
	}
}

func TestVerifyLinuxBridgeSTPOutsideToleranceFails(t *testing.T) {
	want := 2
	got := 9
	d := model.Interface{LinuxBridge: &model.LinuxBridgeInterface{
		Base: model.BaseInterface{Name: "br0", Type: model.TypeLinuxBridge, State: model.StateUp},
		Bridge: &model.LinuxBridgeConfig{Options: &model.LinuxBridgeOptions{
			STP: &model.LinuxBridgeStpOptions{HelloTime: &want},
		}},
	}}
	p := model.Interface{LinuxBridge: &model.LinuxBridgeInterface{
		Base: model.BaseInterface{Name: "br0", Type: model.TypeLinuxBridge, State: model.StateUp},
		Bridge: &model.LinuxBridgeConfig{Options: &model.LinuxBridgeOptions{
			STP: &model.LinuxBridgeStpOptions{HelloTime: &got},
		}},
	}}

	assert.Error(t, VerifyInterfaces(model.Interfaces{d}, model.Interfaces{p}))
}
