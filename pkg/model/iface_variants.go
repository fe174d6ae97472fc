package model

// This file holds the simpler Interface tagged-union variants: ones
// whose type-specific configuration is small enough that a dedicated
// file per type would be pure ceremony. Each embeds BaseInterface and
// carries only the fields relevant to that type.

// EthernetInterface is a physical or virtual-function NIC.
type EthernetInterface struct {
	Base     BaseInterface     `yaml:",inline"`
	Ethernet *EthernetConfig   `yaml:"ethernet,omitempty" json:"ethernet,omitempty"`
	SRIOV    *SRIOVConfig      `yaml:"sr-iov,omitempty" json:"sriov,omitempty"`
}

// EthernetConfig holds speed/duplex/auto-negotiation settings.
type EthernetConfig struct {
	SpeedMbps    *int   `yaml:"speed,omitempty" json:"speed,omitempty"`
	Duplex       string `yaml:"duplex,omitempty" json:"duplex,omitempty"`
	AutoNegotiation *bool `yaml:"auto-negotiation,omitempty" json:"autoNegotiation,omitempty"`
}

// SRIOVConfig is the PF-side SR-IOV virtual-function configuration.
type SRIOVConfig struct {
	TotalVFs int        `yaml:"total-vfs" json:"totalVfs"`
	VFs      []SRIOVVF  `yaml:"vfs,omitempty" json:"vfs,omitempty"`
	DriversAutoprobe *bool `yaml:"drivers-autoprobe,omitempty" json:"driversAutoprobe,omitempty"`
}

// SRIOVVF is a single virtual function's configuration.
type SRIOVVF struct {
	ID            int    `yaml:"id" json:"id"`
	MACAddress    string `yaml:"mac-address,omitempty" json:"macAddress,omitempty"`
	SpoofCheck    *bool  `yaml:"spoof-check,omitempty" json:"spoofCheck,omitempty"`
	Trust         *bool  `yaml:"trust,omitempty" json:"trust,omitempty"`
	MinTxRateMbps *int   `yaml:"min-tx-rate,omitempty" json:"minTxRate,omitempty"`
	MaxTxRateMbps *int   `yaml:"max-tx-rate,omitempty" json:"maxTxRate,omitempty"`
}

// VethInterface is a veth endpoint.
type VethInterface struct {
	Base BaseInterface `yaml:",inline"`
	Veth *VethConfig   `yaml:"veth,omitempty" json:"veth,omitempty"`
}

// VethConfig names the peer endpoint.
type VethConfig struct {
	Peer string `yaml:"peer" json:"peer"`
}

// OvsBridgeInterface is an Open vSwitch bridge, identified in the
// OVS user-space namespace.
type OvsBridgeInterface struct {
	Base   BaseInterface   `yaml:",inline"`
	Bridge *OvsBridgeConfig `yaml:"bridge,omitempty" json:"bridge,omitempty"`
}

// OvsBridgeConfig lists the bridge's ports and fail-mode/RSTP options.
type OvsBridgeConfig struct {
	Options *OvsBridgeOptions `yaml:"options,omitempty" json:"options,omitempty"`
	Ports   []OvsBridgePortConfig `yaml:"port,omitempty" json:"port,omitempty"`
}

// OvsBridgeOptions are bridge-wide OVS options.
type OvsBridgeOptions struct {
	FailMode   string `yaml:"fail-mode,omitempty" json:"failMode,omitempty"`
	McastSnoopingEnable *bool `yaml:"mcast-snooping-enable,omitempty" json:"mcastSnoopingEnable,omitempty"`
	RSTP       *bool  `yaml:"rstp,omitempty" json:"rstp,omitempty"`
	STP        *bool  `yaml:"stp,omitempty" json:"stp,omitempty"`
	DatapathType string `yaml:"datapath,omitempty" json:"datapath,omitempty"`
}

// OvsBridgePortConfig is a bridge port, which may itself be a bond of
// several interfaces (an OVS "link aggregation" port).
type OvsBridgePortConfig struct {
	Name string                     `yaml:"name" json:"name"`
	Vlan *LinuxBridgePortVlanConfig `yaml:"vlan,omitempty" json:"vlan,omitempty"`
	LinkAggregation *OvsBridgeBondConfig `yaml:"link-aggregation,omitempty" json:"linkAggregation,omitempty"`
}

// OvsBridgeBondConfig is an OVS bridge port formed from several ports.
type OvsBridgeBondConfig struct {
	Mode         string   `yaml:"mode,omitempty" json:"mode,omitempty"`
	Ports        []string `yaml:"port,omitempty" json:"port,omitempty"`
	BondDowndelay *int    `yaml:"bond-downdelay,omitempty" json:"bondDowndelay,omitempty"`
	BondUpdelay  *int     `yaml:"bond-updelay,omitempty" json:"bondUpdelay,omitempty"`
}

// Ports returns the bridge's direct port names (not descending into
// bonded sub-ports).
func (o *OvsBridgeInterface) Ports() []string {
	if o.Bridge == nil {
		return nil
	}
	names := make([]string, len(o.Bridge.Ports))
	for i, p := range o.Bridge.Ports {
		names[i] = p.Name
	}
	return names
}

// OvsInterface is an OVS internal/patch interface attached to a bridge.
type OvsInterface struct {
	Base  BaseInterface `yaml:",inline"`
	Patch *OvsPatchConfig `yaml:"patch,omitempty" json:"patch,omitempty"`
	DPDK  *OvsDPDKConfig  `yaml:"dpdk,omitempty" json:"dpdk,omitempty"`
}

// OvsPatchConfig connects this interface to a peer patch interface on
// another bridge.
type OvsPatchConfig struct {
	Peer string `yaml:"peer" json:"peer"`
}

// OvsDPDKConfig binds the interface to a DPDK PCI device.
type OvsDPDKConfig struct {
	Devargs string `yaml:"devargs" json:"devargs"`
	RxQueue int    `yaml:"rx-queue,omitempty" json:"rxQueue,omitempty"`
	NRxDescriptors int `yaml:"n-rxq-desc,omitempty" json:"nRxqDesc,omitempty"`
	NTxDescriptors int `yaml:"n-txq-desc,omitempty" json:"nTxqDesc,omitempty"`
}

// VlanInterface is an 802.1Q VLAN sub-interface.
type VlanInterface struct {
	Base BaseInterface `yaml:",inline"`
	Vlan *VlanConfig   `yaml:"vlan,omitempty" json:"vlan,omitempty"`
}

// VlanConfig names the base interface and tag.
type VlanConfig struct {
	BaseIface string `yaml:"base-iface" json:"baseIface"`
	ID        int    `yaml:"id" json:"id"`
	Protocol  string `yaml:"protocol,omitempty" json:"protocol,omitempty"` // 802.1q or 802.1ad
}

// VxlanInterface is a VXLAN tunnel interface.
type VxlanInterface struct {
	Base  BaseInterface `yaml:",inline"`
	Vxlan *VxlanConfig  `yaml:"vxlan,omitempty" json:"vxlan,omitempty"`
}

// VxlanConfig is the VNI/local/remote tunnel configuration.
type VxlanConfig struct {
	BaseIface  string `yaml:"base-iface,omitempty" json:"baseIface,omitempty"`
	ID         int    `yaml:"id" json:"id"`
	Remote     string `yaml:"remote,omitempty" json:"remote,omitempty"`
	DstPort    int    `yaml:"destination-port,omitempty" json:"destinationPort,omitempty"`
	Learning   *bool  `yaml:"learning,omitempty" json:"learning,omitempty"`
}

// DummyInterface is a kernel dummy interface; it has no configuration
// of its own.
type DummyInterface struct {
	Base BaseInterface `yaml:",inline"`
}

// MacVlanMode is the MACVLAN/MACVTAP forwarding mode.
type MacVlanMode string

const (
	MacVlanModeVEPA     MacVlanMode = "vepa"
	MacVlanModeBridge   MacVlanMode = "bridge"
	MacVlanModePrivate  MacVlanMode = "private"
	MacVlanModePassthru MacVlanMode = "passthru"
	MacVlanModeSource   MacVlanMode = "source"
)

// MacVlanInterface is a MACVLAN sub-interface.
type MacVlanInterface struct {
	Base    BaseInterface  `yaml:",inline"`
	MacVlan *MacVlanConfig `yaml:"mac-vlan,omitempty" json:"macVlan,omitempty"`
}

// MacVlanConfig names the base interface and forwarding mode.
type MacVlanConfig struct {
	BaseIface          string      `yaml:"base-iface" json:"baseIface"`
	Mode               MacVlanMode `yaml:"mode" json:"mode"`
	AcceptAllMacAddresses *bool    `yaml:"accept-all-mac,omitempty" json:"acceptAllMac,omitempty"`
}

// MacVtapInterface is a MACVTAP sub-interface; its config shape
// mirrors MACVLAN's.
type MacVtapInterface struct {
	Base    BaseInterface  `yaml:",inline"`
	MacVtap *MacVlanConfig `yaml:"mac-vtap,omitempty" json:"macVtap,omitempty"`
}

// VrfInterface is a Virtual Routing and Forwarding domain.
type VrfInterface struct {
	Base BaseInterface `yaml:",inline"`
	Vrf  *VrfConfig    `yaml:"vrf,omitempty" json:"vrf,omitempty"`
}

// VrfConfig lists member ports and the routing table id.
type VrfConfig struct {
	Port    []string `yaml:"port,omitempty" json:"port,omitempty"`
	TableID uint32   `yaml:"route-table-id" json:"routeTableId"`
}

// LoopbackInterface is the loopback device; it has no configuration
// of its own beyond the base fields.
type LoopbackInterface struct {
	Base BaseInterface `yaml:",inline"`
}

// InfiniBandMode is the IPoIB transport mode.
type InfiniBandMode string

const (
	InfiniBandModeDatagram   InfiniBandMode = "datagram"
	InfiniBandModeConnected  InfiniBandMode = "connected"
)

// InfiniBandInterface is an IPoIB interface.
type InfiniBandInterface struct {
	Base       BaseInterface     `yaml:",inline"`
	InfiniBand *InfiniBandConfig `yaml:"infiniband,omitempty" json:"infiniband,omitempty"`
}

// InfiniBandConfig is the IPoIB mode/partition-key configuration.
type InfiniBandConfig struct {
	Mode      InfiniBandMode `yaml:"mode,omitempty" json:"mode,omitempty"`
	BaseIface string         `yaml:"base-iface,omitempty" json:"baseIface,omitempty"`
	Pkey      string         `yaml:"pkey,omitempty" json:"pkey,omitempty"`
}

// MacSecInterface wraps a base interface with 802.1AE encryption.
type MacSecInterface struct {
	Base   BaseInterface  `yaml:",inline"`
	MacSec *MacSecConfig  `yaml:"macsec,omitempty" json:"macsec,omitempty"`
}

// MacSecConfig is the MACsec key/cipher configuration.
type MacSecConfig struct {
	Encrypt    bool   `yaml:"encrypt" json:"encrypt"`
	BaseIface  string `yaml:"base-iface" json:"baseIface"`
	MkaCak     string `yaml:"mka-cak,omitempty" json:"mkaCak,omitempty"`
	MkaCkn     string `yaml:"mka-ckn,omitempty" json:"mkaCkn,omitempty"`
	Port       int    `yaml:"port,omitempty" json:"port,omitempty"`
	Validation string `yaml:"validation,omitempty" json:"validation,omitempty"`
}

// HsrInterface is a High-availability Seamless Redundancy interface.
type HsrInterface struct {
	Base BaseInterface `yaml:",inline"`
	Hsr  *HsrConfig    `yaml:"hsr,omitempty" json:"hsr,omitempty"`
}

// HsrConfig names the two ring ports and protocol version.
type HsrConfig struct {
	Port1          string `yaml:"port1" json:"port1"`
	Port2          string `yaml:"port2" json:"port2"`
	SupervisionAddr string `yaml:"supervision-address,omitempty" json:"supervisionAddress,omitempty"`
	Protocol       string `yaml:"protocol,omitempty" json:"protocol,omitempty"` // hsr or prp
}

// IpsecInterface is a libreswan-managed IPsec tunnel.
type IpsecInterface struct {
	Base  BaseInterface `yaml:",inline"`
	Ipsec *IpsecConfig  `yaml:"libreswan,omitempty" json:"libreswan,omitempty"`
}

// IpsecConfig is the tunnel's peer/auth configuration.
type IpsecConfig struct {
	Right     string `yaml:"right,omitempty" json:"right,omitempty"`
	Left      string `yaml:"left,omitempty" json:"left,omitempty"`
	RightID   string `yaml:"rightid,omitempty" json:"rightId,omitempty"`
	PSK       string `yaml:"psk,omitempty" json:"psk,omitempty"`
	Ikev2     string `yaml:"ikev2,omitempty" json:"ikev2,omitempty"`
}

// UnknownInterface is a kernel interface type nmstate-go does not
// otherwise model; it is carried read-only and never activated.
type UnknownInterface struct {
	Base BaseInterface `yaml:",inline"`
}

// OtherInterface is the fallback variant for anything the backend
// reports that matches none of the known kernel types.
type OtherInterface struct {
	Base BaseInterface `yaml:",inline"`
}
