// Package backend is the Backend Translator: it turns
// a merged model.NetworkState into the shape a backendapi.Backend
// pushes (InterfaceProfile per interface) and, for the OVSDB
// capability, into Bridge/Port/Interface row inserts with same-
// transaction named UUIDs. Follows the conversion style used by
// pkg/ovndb/logical_switch.go / logical_switch_port.go (typed Go
// struct -> row-shaped struct) and pkg/ovndb/transact.go's
// BuildNamedUUID.
package backend

import (
	"sort"

	"github.com/nmstate/nmstate-go/pkg/backendapi"
	"github.com/nmstate/nmstate-go/pkg/model"
)

// Translate converts a merged NetworkState's changed interfaces into
// the ordered InterfaceProfile list the Backend pushes, sorted by
// up_priority so controllers activate before their ports.
func Translate(state *model.NetworkState, changedNames []string) []backendapi.InterfaceProfile {
	changed := map[string]bool{}
	for _, n := range changedNames {
		changed[n] = true
	}

	var profiles []backendapi.InterfaceProfile
	for i := range state.Interfaces {
		iface := &state.Interfaces[i]
		if !changed[iface.Name()] {
			continue
		}
		profiles = append(profiles, translateOne(iface))
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].UpPriority < profiles[j].UpPriority
	})
	return profiles
}

func translateOne(iface *model.Interface) backendapi.InterfaceProfile {
	base := iface.Base()
	settings := baseSettings(base)

	switch {
	case iface.Bond != nil:
		translateBond(iface.Bond, settings)
	case iface.LinuxBridge != nil:
		translateLinuxBridge(iface.LinuxBridge, settings)
	case iface.OvsBridge != nil:
		translateOvsBridge(iface.OvsBridge, settings)
	case iface.Vlan != nil && iface.Vlan.Vlan != nil:
		settings["base-iface"] = iface.Vlan.Vlan.BaseIface
		settings["vlan-id"] = iface.Vlan.Vlan.ID
	case iface.Vxlan != nil && iface.Vxlan.Vxlan != nil:
		settings["base-iface"] = iface.Vxlan.Vxlan.BaseIface
		settings["vxlan-id"] = iface.Vxlan.Vxlan.ID
		settings["remote"] = iface.Vxlan.Vxlan.Remote
	case iface.Vrf != nil && iface.Vrf.Vrf != nil:
		settings["port"] = iface.Vrf.Vrf.Port
		settings["route-table-id"] = iface.Vrf.Vrf.TableID
	}

	return backendapi.InterfaceProfile{
		Name:       base.Name,
		Type:       base.Type,
		Settings:   settings,
		UpPriority: base.UpPriority,
	}
}

func translateBond(b *model.BondInterface, settings map[string]interface{}) {
	if b.Bond == nil {
		return
	}
	settings["mode"] = string(b.Bond.Mode)
	settings["port"] = b.Bond.Ports
}

func translateLinuxBridge(b *model.LinuxBridgeInterface, settings map[string]interface{}) {
	if b.Bridge == nil {
		return
	}
	settings["port"] = b.Ports()
	if b.Bridge.Options != nil && b.Bridge.Options.STP != nil && b.Bridge.Options.STP.Enabled != nil {
		settings["stp-enabled"] = *b.Bridge.Options.STP.Enabled
	}
}

func translateOvsBridge(b *model.OvsBridgeInterface, settings map[string]interface{}) {
	if b.Bridge == nil {
		return
	}
	settings["port"] = b.Ports()
	if b.Bridge.Options != nil {
		settings["fail-mode"] = b.Bridge.Options.FailMode
		settings["datapath-type"] = b.Bridge.Options.DatapathType
	}
}
