package model

import "github.com/nmstate/nmstate-go/pkg/nmerror"

// Interface is the tagged union over every interface variant.
// Exactly one of the typed fields is non-nil, matching its
// Base.Type / Type(). Using a struct-of-optional-pointers rather than
// an interface{} keeps (de)serialisation straightforward with
// gopkg.in/yaml.v3's struct-tag based decoding, and keeps Key()/state
// access on BaseInterface uniform across variants.
type Interface struct {
	Ethernet    *EthernetInterface    `yaml:"-" json:"-"`
	Veth        *VethInterface        `yaml:"-" json:"-"`
	Bond        *BondInterface        `yaml:"-" json:"-"`
	LinuxBridge *LinuxBridgeInterface `yaml:"-" json:"-"`
	OvsBridge   *OvsBridgeInterface   `yaml:"-" json:"-"`
	OvsInterface *OvsInterface        `yaml:"-" json:"-"`
	Vlan        *VlanInterface        `yaml:"-" json:"-"`
	Vxlan       *VxlanInterface       `yaml:"-" json:"-"`
	Dummy       *DummyInterface       `yaml:"-" json:"-"`
	MacVlan     *MacVlanInterface     `yaml:"-" json:"-"`
	MacVtap     *MacVtapInterface     `yaml:"-" json:"-"`
	Vrf         *VrfInterface         `yaml:"-" json:"-"`
	Loopback    *LoopbackInterface    `yaml:"-" json:"-"`
	InfiniBand  *InfiniBandInterface  `yaml:"-" json:"-"`
	MacSec      *MacSecInterface      `yaml:"-" json:"-"`
	Hsr         *HsrInterface         `yaml:"-" json:"-"`
	Ipsec       *IpsecInterface       `yaml:"-" json:"-"`
	Dispatch    *DispatchInterface    `yaml:"-" json:"-"`
	Unknown     *UnknownInterface     `yaml:"-" json:"-"`
	Other       *OtherInterface       `yaml:"-" json:"-"`
}

// Base returns the variant's embedded BaseInterface, regardless of
// which one is set. Returns nil if no variant is set.
func (i *Interface) Base() *BaseInterface {
	switch {
	case i.Ethernet != nil:
		return &i.Ethernet.Base
	case i.Veth != nil:
		return &i.Veth.Base
	case i.Bond != nil:
		return &i.Bond.Base
	case i.LinuxBridge != nil:
		return &i.LinuxBridge.Base
	case i.OvsBridge != nil:
		return &i.OvsBridge.Base
	case i.OvsInterface != nil:
		return &i.OvsInterface.Base
	case i.Vlan != nil:
		return &i.Vlan.Base
	case i.Vxlan != nil:
		return &i.Vxlan.Base
	case i.Dummy != nil:
		return &i.Dummy.Base
	case i.MacVlan != nil:
		return &i.MacVlan.Base
	case i.MacVtap != nil:
		return &i.MacVtap.Base
	case i.Vrf != nil:
		return &i.Vrf.Base
	case i.Loopback != nil:
		return &i.Loopback.Base
	case i.InfiniBand != nil:
		return &i.InfiniBand.Base
	case i.MacSec != nil:
		return &i.MacSec.Base
	case i.Hsr != nil:
		return &i.Hsr.Base
	case i.Ipsec != nil:
		return &i.Ipsec.Base
	case i.Dispatch != nil:
		return &i.Dispatch.Base
	case i.Unknown != nil:
		return &i.Unknown.Base
	case i.Other != nil:
		return &i.Other.Base
	default:
		return nil
	}
}

// Name, Type, Key, and IsAbsent delegate to the active variant's base
// for convenience at call sites that don't care which variant it is.
func (i *Interface) Name() string       { return i.Base().Name }
func (i *Interface) Type() InterfaceType { return i.Base().Type }
func (i *Interface) Key() Key           { return i.Base().Key() }
func (i *Interface) IsAbsent() bool     { return i.Base().IsAbsent() }
func (i *Interface) IsIgnore() bool     { return i.Base().IsIgnore() }

// NewInterface allocates an Interface with the variant matching typ
// pre-set and its BaseInterface.Name/Type populated.
func NewInterface(name string, typ InterfaceType) (*Interface, error) {
	base := BaseInterface{Name: name, Type: typ}
	iface := &Interface{}
	switch typ {
	case TypeEthernet:
		iface.Ethernet = &EthernetInterface{Base: base}
	case TypeVeth:
		iface.Veth = &VethInterface{Base: base}
	case TypeBond:
		iface.Bond = &BondInterface{Base: base}
	case TypeLinuxBridge:
		iface.LinuxBridge = &LinuxBridgeInterface{Base: base}
	case TypeOvsBridge:
		iface.OvsBridge = &OvsBridgeInterface{Base: base}
	case TypeOvsInterface:
		iface.OvsInterface = &OvsInterface{Base: base}
	case TypeVlan:
		iface.Vlan = &VlanInterface{Base: base}
	case TypeVxlan:
		iface.Vxlan = &VxlanInterface{Base: base}
	case TypeDummy:
		iface.Dummy = &DummyInterface{Base: base}
	case TypeMacVlan:
		iface.MacVlan = &MacVlanInterface{Base: base}
	case TypeMacVtap:
		iface.MacVtap = &MacVtapInterface{Base: base}
	case TypeVrf:
		iface.Vrf = &VrfInterface{Base: base}
	case TypeLoopback:
		iface.Loopback = &LoopbackInterface{Base: base}
	case TypeInfiniBand:
		iface.InfiniBand = &InfiniBandInterface{Base: base}
	case TypeMacSec:
		iface.MacSec = &MacSecInterface{Base: base}
	case TypeHsr:
		iface.Hsr = &HsrInterface{Base: base}
	case TypeIpsec:
		iface.Ipsec = &IpsecInterface{Base: base}
	case TypeDispatch:
		iface.Dispatch = &DispatchInterface{Base: base}
	case TypeUnknown:
		iface.Unknown = &UnknownInterface{Base: base}
	default:
		return nil, nmerror.NotSupported("unknown interface type %q", typ)
	}
	return iface, nil
}

// Ports returns the member port names for controller interfaces
// (bond/linux-bridge/ovs-bridge/vrf); nil for anything else or when
// ports were not mentioned in desired state.
func (i *Interface) Ports() []string {
	switch {
	case i.Bond != nil:
		return i.Bond.Ports()
	case i.LinuxBridge != nil:
		return i.LinuxBridge.Ports()
	case i.OvsBridge != nil:
		return i.OvsBridge.Ports()
	case i.Vrf != nil && i.Vrf.Vrf != nil:
		return i.Vrf.Vrf.Port
	default:
		return nil
	}
}

// Interfaces is an ordered collection of Interface, keyed implicitly
// by Key() (name, type); OVS-namespace interfaces and kernel
// interfaces share one Go slice since InterfaceType disambiguates
// lookups (unlike the two-map split in the original Rust model).
type Interfaces []Interface

// ByKey returns the interface with the given key, or nil.
func (ifaces Interfaces) ByKey(k Key) *Interface {
	for i := range ifaces {
		if ifaces[i].Key() == k {
			return &ifaces[i]
		}
	}
	return nil
}

// ByName returns the first interface with the given name, regardless
// of type; used by identifier=name lookups where type ambiguity is
// not expected in practice.
func (ifaces Interfaces) ByName(name string) *Interface {
	for i := range ifaces {
		if ifaces[i].Name() == name {
			return &ifaces[i]
		}
	}
	return nil
}

// NetworkState is the top-level, root document: the full desired,
// current, or merged network configuration.
type NetworkState struct {
	Interfaces   Interfaces        `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`
	Routes       *Routes           `yaml:"routes,omitempty" json:"routes,omitempty"`
	RouteRules   *RouteRules       `yaml:"route-rules,omitempty" json:"routeRules,omitempty"`
	DNS          *DNSState         `yaml:"dns-resolver,omitempty" json:"dnsResolver,omitempty"`
	Hostname     *HostnameState    `yaml:"hostname,omitempty" json:"hostname,omitempty"`
	OVSDB        *OVSDBGlobalConfig `yaml:"ovs-db,omitempty" json:"ovsDb,omitempty"`
	OVN          *OvnConfiguration `yaml:"ovn,omitempty" json:"ovn,omitempty"`
}

// HostnameState configures the running and/or static (persisted) hostname.
type HostnameState struct {
	Running string `yaml:"running,omitempty" json:"running,omitempty"`
	Config  string `yaml:"config,omitempty" json:"config,omitempty"`
}

// OVSDBGlobalConfig is the top-level `ovs-db` document: global
// external_ids/other_config applied to the Open_vSwitch table's single row.
type OVSDBGlobalConfig struct {
	ExternalIDs map[string]string `yaml:"external_ids,omitempty" json:"externalIds,omitempty"`
	OtherConfig map[string]string `yaml:"other_config,omitempty" json:"otherConfig,omitempty"`
}
