package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes one `interfaces` document entry by its `type`
// field into the matching tagged-union variant, populating that
// variant's type-specific block (e.g. `link-aggregation` for a bond,
// `bridge` for a linux-bridge) instead of only the fields BaseInterface
// carries. This is the one place a document's variant-specific
// configuration is read; everywhere else in the package works with the
// already-decoded Interface.
func (i *Interface) UnmarshalYAML(value *yaml.Node) error {
	var probe struct {
		Type InterfaceType `yaml:"type"`
	}
	if err := value.Decode(&probe); err != nil {
		return err
	}

	switch probe.Type {
	case TypeEthernet, "":
		v := &EthernetInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.Ethernet = v
	case TypeVeth:
		v := &VethInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.Veth = v
	case TypeBond:
		v := &BondInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.Bond = v
	case TypeLinuxBridge:
		v := &LinuxBridgeInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.LinuxBridge = v
	case TypeOvsBridge:
		v := &OvsBridgeInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.OvsBridge = v
	case TypeOvsInterface:
		v := &OvsInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.OvsInterface = v
	case TypeVlan:
		v := &VlanInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.Vlan = v
	case TypeVxlan:
		v := &VxlanInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.Vxlan = v
	case TypeDummy:
		v := &DummyInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.Dummy = v
	case TypeMacVlan:
		v := &MacVlanInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.MacVlan = v
	case TypeMacVtap:
		v := &MacVtapInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.MacVtap = v
	case TypeVrf:
		v := &VrfInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.Vrf = v
	case TypeLoopback:
		v := &LoopbackInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.Loopback = v
	case TypeInfiniBand:
		v := &InfiniBandInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.InfiniBand = v
	case TypeMacSec:
		v := &MacSecInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.MacSec = v
	case TypeHsr:
		v := &HsrInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.Hsr = v
	case TypeIpsec:
		v := &IpsecInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.Ipsec = v
	case TypeDispatch:
		v := &DispatchInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.Dispatch = v
	default:
		// TypeUnknown, or any type string this model has no variant
		// for: carried read-only under Unknown, same as a Probe would
		// report an unrecognised kernel link kind.
		v := &UnknownInterface{}
		if err := value.Decode(v); err != nil {
			return err
		}
		i.Unknown = v
	}
	return nil
}

// MarshalYAML renders whichever variant is set through its own
// variant-specific yaml tags, so an Interface round-trips back through
// UnmarshalYAML instead of serialising as an empty document.
func (i *Interface) MarshalYAML() (interface{}, error) {
	switch {
	case i.Ethernet != nil:
		return i.Ethernet, nil
	case i.Veth != nil:
		return i.Veth, nil
	case i.Bond != nil:
		return i.Bond, nil
	case i.LinuxBridge != nil:
		return i.LinuxBridge, nil
	case i.OvsBridge != nil:
		return i.OvsBridge, nil
	case i.OvsInterface != nil:
		return i.OvsInterface, nil
	case i.Vlan != nil:
		return i.Vlan, nil
	case i.Vxlan != nil:
		return i.Vxlan, nil
	case i.Dummy != nil:
		return i.Dummy, nil
	case i.MacVlan != nil:
		return i.MacVlan, nil
	case i.MacVtap != nil:
		return i.MacVtap, nil
	case i.Vrf != nil:
		return i.Vrf, nil
	case i.Loopback != nil:
		return i.Loopback, nil
	case i.InfiniBand != nil:
		return i.InfiniBand, nil
	case i.MacSec != nil:
		return i.MacSec, nil
	case i.Hsr != nil:
		return i.Hsr, nil
	case i.Ipsec != nil:
		return i.Ipsec, nil
	case i.Dispatch != nil:
		return i.Dispatch, nil
	case i.Unknown != nil:
		return i.Unknown, nil
	case i.Other != nil:
		return i.Other, nil
	default:
		return nil, fmt.Errorf("interface has no variant set")
	}
}
